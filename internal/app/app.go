// Package app wires the HTTP surface of the planner: the JSON API, the
// session middleware, and the embedded web shell.
package app

import (
	"context"
	"log"
	gosync "sync"
	"time"

	"github.com/ndbelov/planner/internal/auth"
	"github.com/ndbelov/planner/internal/event"
	"github.com/ndbelov/planner/internal/store"
	"github.com/ndbelov/planner/internal/sync"
)

// SessionCookie is the session token cookie name.
const SessionCookie = "planner_session"

// App holds the collaborators of the HTTP layer. One sync flow exists
// per owner; each flow receives its owner explicitly and is the only
// writer of that owner's visible event list.
type App struct {
	Store      store.Store
	Auth       *auth.Service
	WeekStart  event.WeekStart
	DayStart   string
	SessionTTL time.Duration

	mu    gosync.Mutex
	flows map[string]*sync.Flow

	// Embedded shell pages (set by main)
	IndexHTML []byte
	Manifest  []byte
	SWScript  []byte
}

// New creates the app around its collaborators.
func New(st store.Store, authSvc *auth.Service, weekStart event.WeekStart, dayStart string, sessionTTL time.Duration) *App {
	return &App{
		Store:      st,
		Auth:       authSvc,
		WeekStart:  weekStart,
		DayStart:   dayStart,
		SessionTTL: sessionTTL,
		flows:      make(map[string]*sync.Flow),
	}
}

// flowFor returns the owner's sync flow, creating it idle on first use.
// The owner identity is supplied explicitly via SetOwner, either by the
// owner-change watcher on sign-in or lazily on the first request.
func (a *App) flowFor(ownerID string) *sync.Flow {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := a.flows[ownerID]
	if !ok {
		f = sync.New(a.Store)
		a.flows[ownerID] = f
	}
	return f
}

// readyFlow returns the owner's flow, loading it if it has never seen
// its owner yet. A flow stuck in the error state re-issues its load, so
// a transient store failure recovers on the next request instead of
// requiring a fresh sign-in.
func (a *App) readyFlow(ctx context.Context, ownerID string) *sync.Flow {
	f := a.flowFor(ownerID)
	switch state, _, _ := f.Snapshot(); state {
	case sync.StateIdle:
		f.SetOwner(ctx, ownerID)
	case sync.StateError:
		if err := f.Refresh(ctx); err != nil {
			log.Printf("Error refreshing events for %s: %v", ownerID, err)
		}
	}
	return f
}

// evictFlow drops the owner's flow. The next request rebuilds it.
func (a *App) evictFlow(ownerID string) {
	a.mu.Lock()
	delete(a.flows, ownerID)
	a.mu.Unlock()
}

// applyOwnerChange reacts to one owner-identity notification: a sign-in
// preloads the owner's flow, a sign-out releases it.
func (a *App) applyOwnerChange(ctx context.Context, c auth.Change) {
	if c.OwnerID == "" {
		if c.Previous != "" {
			a.evictFlow(c.Previous)
		}
		return
	}
	log.Printf("Owner changed, reloading events for %s", c.OwnerID)
	a.flowFor(c.OwnerID).SetOwner(ctx, c.OwnerID)
}

// WatchOwnerChanges consumes the auth service's owner-change channel, so
// a fresh sign-in starts loading before the first events request arrives
// and a sign-out frees the owner's flow. Runs until ctx is done.
func (a *App) WatchOwnerChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-a.Auth.Changes():
			if !ok {
				return
			}
			a.applyOwnerChange(ctx, c)
		}
	}
}
