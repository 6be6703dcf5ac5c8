package app

import (
	"net/http"
	"time"

	"github.com/ndbelov/planner/internal/sync"
)

// sessionToken extracts the session token from the request cookie.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ownerID resolves the request's session to an owner, or "".
func (a *App) ownerID(r *http.Request) string {
	token := sessionToken(r)
	if token == "" {
		return ""
	}
	owner, err := a.Auth.CurrentOwnerID(token)
	if err != nil {
		return ""
	}
	return owner
}

// RequireOwner wraps a handler that needs an authenticated owner. The
// rejection carries the unauthenticated taxonomy message.
func (a *App) RequireOwner(next func(w http.ResponseWriter, r *http.Request, ownerID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := a.ownerID(r)
		if owner == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": sync.KindUnauthenticated.Message(),
				"kind":  string(sync.KindUnauthenticated),
			})
			return
		}
		next(w, r, owner)
	}
}

// setSessionCookie installs the session token as an HttpOnly cookie.
func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl / time.Second),
	})
}

// clearSessionCookie expires the session cookie.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
