// Package sync owns the canonical event list of the current owner and
// keeps it consistent with the document store under a strict
// reload-after-write policy: no mutation is shown until a subsequent
// full fetch confirms it.
package sync

import (
	"context"
	"log"
	stdsync "sync"

	"github.com/ndbelov/planner/internal/event"
	"github.com/ndbelov/planner/internal/store"
)

// State is the flow's lifecycle phase.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Flow is the single source of truth for the current owner's events.
// All list mutations funnel through it; nothing else writes the list.
type Flow struct {
	mu     stdsync.Mutex
	store  store.Store
	owner  string
	state  State
	events []event.Event
	loaded bool // a successful fetch happened for the current owner
	err    *Error
	seq    uint64 // highest reload token issued so far
}

// New creates a flow with no owner.
func New(st store.Store) *Flow {
	return &Flow{
		store: st,
		state: StateIdle,
	}
}

// SetOwner switches the flow to a new owner identity. An empty owner
// means signed out: the list empties immediately with no store call.
func (f *Flow) SetOwner(ctx context.Context, ownerID string) {
	f.mu.Lock()
	f.owner = ownerID
	f.loaded = false
	f.err = nil
	// Invalidate any reload still in flight for the previous owner.
	f.seq++
	if ownerID == "" {
		f.state = StateReady
		f.events = nil
		f.mu.Unlock()
		return
	}
	f.state = StateLoading
	f.mu.Unlock()

	if err := f.reload(ctx); err != nil {
		log.Printf("Error loading events for owner %s: %v", ownerID, err)
	}
}

// Create validates the draft locally, persists it, and re-fetches the
// full list. The created event is not appended optimistically; it only
// becomes visible once the reload lands.
func (f *Flow) Create(ctx context.Context, draft event.Draft) (string, error) {
	f.mu.Lock()
	owner := f.owner
	f.mu.Unlock()

	if owner == "" {
		return "", newError(KindAuthRequired, nil)
	}

	// Validation failures never reach the store and never move the
	// flow into the error state: the form is re-presentable as is.
	ev, err := draft.Event(owner)
	if err != nil {
		return "", mapError(err)
	}

	id, err := f.store.Create(ctx, ev)
	if err != nil {
		return "", f.fail(err)
	}

	if err := f.reload(ctx); err != nil {
		log.Printf("Error reloading events after create: %v", err)
	}
	return id, nil
}

// Update persists a partial patch and re-fetches the full list. The
// store rejects ids belonging to another owner.
func (f *Flow) Update(ctx context.Context, id string, patch store.Patch) error {
	f.mu.Lock()
	owner := f.owner
	f.mu.Unlock()

	if owner == "" {
		return newError(KindAuthRequired, nil)
	}

	if err := f.store.Update(ctx, owner, id, patch); err != nil {
		return f.fail(err)
	}

	if err := f.reload(ctx); err != nil {
		log.Printf("Error reloading events after update: %v", err)
	}
	return nil
}

// Delete removes an event and re-fetches the full list.
func (f *Flow) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	owner := f.owner
	f.mu.Unlock()

	if owner == "" {
		return newError(KindAuthRequired, nil)
	}

	if err := f.store.Delete(ctx, owner, id); err != nil {
		return f.fail(err)
	}

	if err := f.reload(ctx); err != nil {
		log.Printf("Error reloading events after delete: %v", err)
	}
	return nil
}

// Refresh re-fetches the full list for the current owner.
func (f *Flow) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.owner == "" {
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()
	return f.reload(ctx)
}

// Snapshot returns the current state, a copy of the visible event list,
// and the user-facing error message ("" unless state is error).
func (f *Flow) Snapshot() (State, []event.Event, string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	events := make([]event.Event, len(f.events))
	copy(events, f.events)

	msg := ""
	if f.err != nil {
		msg = f.err.Error()
	}
	return f.state, events, msg
}

// Events returns a copy of the visible, start-sorted event list.
func (f *Flow) Events() []event.Event {
	_, events, _ := f.Snapshot()
	return events
}

// reload performs one full owner-scoped fetch. Each reload takes a
// monotonically increasing token; a completion whose token is no longer
// the highest issued is discarded, so completion order cannot publish a
// stale list (last-write-wins on the read side).
func (f *Flow) reload(ctx context.Context) error {
	f.mu.Lock()
	f.seq++
	token := f.seq
	owner := f.owner
	f.mu.Unlock()

	events, err := f.store.FetchAll(ctx, owner)

	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.seq || owner != f.owner {
		// Superseded by a newer reload or an owner change.
		return nil
	}

	if err != nil {
		mapped := mapError(err)
		f.state = StateError
		f.err = mapped
		if !f.loaded {
			// Initial load failure implies an empty list; later
			// failures keep the last good list visible.
			f.events = nil
		}
		return mapped
	}

	event.SortByStart(events)
	f.events = events
	f.state = StateReady
	f.loaded = true
	f.err = nil
	return nil
}

// fail records a mutation failure without touching the loaded list.
func (f *Flow) fail(err error) *Error {
	mapped := mapError(err)
	f.mu.Lock()
	f.state = StateError
	f.err = mapped
	f.mu.Unlock()
	return mapped
}
