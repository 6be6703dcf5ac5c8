// Package store is the document-store collaborator: owner-scoped CRUD
// over event records with a fixed failure taxonomy. The rest of the
// application treats it as opaque and never inspects more than the code.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ndbelov/planner/internal/event"
)

// Code classifies a store failure.
type Code string

const (
	CodePermissionDenied   Code = "permission-denied"
	CodeUnavailable        Code = "unavailable"
	CodeUnauthenticated    Code = "unauthenticated"
	CodeFailedPrecondition Code = "failed-precondition"
	CodeNotFound           Code = "not-found"
	CodeUnknown            Code = "unknown"
)

// Error is a store failure carrying its taxonomy code.
type Error struct {
	Op   string
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("store: %s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf extracts the taxonomy code from an error chain, defaulting to
// unknown for anything that is not a store error.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeUnknown
}

// Patch carries partial event fields for an update. Nil fields are left
// untouched. Setting Category also re-derives the color pair.
type Patch struct {
	Title        *string         `json:"title,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Start        *string         `json:"start,omitempty"`
	End          *string         `json:"end,omitempty"`
	Category     *event.Category `json:"category,omitempty"`
	Participants *[]string       `json:"participants,omitempty"`
}

// Store is the external document store interface. Implementations assign
// IDs and createdAt/updatedAt timestamps on write. Every operation is
// scoped to exactly one owner: mutating another owner's event fails with
// CodePermissionDenied.
type Store interface {
	// FetchAll returns every event belonging to ownerID, in no
	// particular order.
	FetchAll(ctx context.Context, ownerID string) ([]event.Event, error)
	// Create persists a new event (ID and timestamps ignored on input)
	// and returns the assigned ID.
	Create(ctx context.Context, e event.Event) (string, error)
	// Update applies a partial patch to the owner's event and refreshes
	// updatedAt.
	Update(ctx context.Context, ownerID, id string, p Patch) error
	// Delete removes the owner's event.
	Delete(ctx context.Context, ownerID, id string) error
}
