package app

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ndbelov/planner/internal/sync"
)

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeJSONError writes an error payload: {"error": msg}.
func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// RequireMethod validates that the request uses the specified HTTP method
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// statusForKind maps the sync-flow failure taxonomy to HTTP statuses.
func statusForKind(k sync.Kind) int {
	switch k {
	case sync.KindValidationFailed:
		return http.StatusUnprocessableEntity
	case sync.KindAuthRequired, sync.KindUnauthenticated:
		return http.StatusUnauthorized
	case sync.KindPermissionDenied:
		return http.StatusForbidden
	case sync.KindNotFound:
		return http.StatusNotFound
	case sync.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case sync.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeFlowError writes a sync-flow failure with its fixed message.
func writeFlowError(w http.ResponseWriter, err error) {
	kind := sync.KindOf(err)
	writeJSON(w, statusForKind(kind), map[string]string{
		"error": kind.Message(),
		"kind":  string(kind),
	})
}
