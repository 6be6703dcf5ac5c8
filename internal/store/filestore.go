package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ndbelov/planner/internal/event"
)

const (
	backupSuffix    = ".backup"
	tmpSuffix       = ".tmp.json"
	filePermissions = 0644
)

// FileStore is a JSON-file-backed document store. Writes go to a temp
// file first and are renamed over the previous file, with the previous
// version kept as a backup.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	events map[string]event.Event
	now    func() time.Time
}

// NewFileStore opens (or initializes) the store at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		events: make(map[string]event.Event),
		now:    time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

type fileData struct {
	Events map[string]event.Event `json:"events"`
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read event store: %w", err)
	}

	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return fmt.Errorf("failed to parse event store: %w", err)
	}
	if fd.Events != nil {
		s.events = fd.Events
	}
	return nil
}

// saveLocked persists the store (caller must hold the lock).
func (s *FileStore) saveLocked() error {
	data, err := json.MarshalIndent(fileData{Events: s.events}, "", "  ")
	if err != nil {
		return err
	}

	// Keep the previous version as a backup
	if _, err := os.Stat(s.path); err == nil {
		if err := os.Rename(s.path, s.path+backupSuffix); err != nil {
			log.Printf("Warning: failed to create store backup: %v", err)
		}
	}

	// Write to temp file first, then rename into place
	tmpFile := s.path + tmpSuffix
	if err := os.WriteFile(tmpFile, data, filePermissions); err != nil {
		return err
	}
	return os.Rename(tmpFile, s.path)
}

// FetchAll returns the owner's events in storage order.
func (s *FileStore) FetchAll(ctx context.Context, ownerID string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "fetch", Code: CodeUnavailable, Err: err}
	}
	if ownerID == "" {
		return nil, &Error{Op: "fetch", Code: CodeUnauthenticated}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	events := []event.Event{}
	for _, e := range s.events {
		if e.OwnerID == ownerID {
			events = append(events, e)
		}
	}
	return events, nil
}

// Create assigns an ID and server timestamps, persists, and returns the ID.
func (s *FileStore) Create(ctx context.Context, e event.Event) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Op: "create", Code: CodeUnavailable, Err: err}
	}
	if e.OwnerID == "" {
		return "", &Error{Op: "create", Code: CodeUnauthenticated}
	}
	if !e.End.After(e.Start) {
		return "", &Error{Op: "create", Code: CodeFailedPrecondition,
			Err: fmt.Errorf("end %s not after start %s", e.End, e.Start)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.NewString()
	now := s.now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.events[e.ID] = e

	if err := s.saveLocked(); err != nil {
		delete(s.events, e.ID)
		return "", &Error{Op: "create", Code: CodeUnavailable, Err: err}
	}
	return e.ID, nil
}

// Update applies the non-nil patch fields and refreshes updatedAt. The
// event must belong to ownerID.
func (s *FileStore) Update(ctx context.Context, ownerID, id string, p Patch) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "update", Code: CodeUnavailable, Err: err}
	}
	if ownerID == "" {
		return &Error{Op: "update", Code: CodeUnauthenticated}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return &Error{Op: "update", Code: CodeNotFound, Err: fmt.Errorf("event %s", id)}
	}
	if e.OwnerID != ownerID {
		return &Error{Op: "update", Code: CodePermissionDenied, Err: fmt.Errorf("event %s", id)}
	}

	prev := e
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Start != nil {
		start, err := time.Parse(time.RFC3339, *p.Start)
		if err != nil {
			return &Error{Op: "update", Code: CodeFailedPrecondition, Err: err}
		}
		e.Start = start
	}
	if p.End != nil {
		end, err := time.Parse(time.RFC3339, *p.End)
		if err != nil {
			return &Error{Op: "update", Code: CodeFailedPrecondition, Err: err}
		}
		e.End = end
	}
	if p.Category != nil {
		e.Category = *p.Category
		colors := e.Category.Colors()
		e.BackgroundColor = colors.Background
		e.BorderColor = colors.Border
	}
	if p.Participants != nil {
		e.Participants = *p.Participants
	}
	if !e.End.After(e.Start) {
		return &Error{Op: "update", Code: CodeFailedPrecondition,
			Err: fmt.Errorf("end %s not after start %s", e.End, e.Start)}
	}

	e.UpdatedAt = s.now().UTC()
	s.events[id] = e

	if err := s.saveLocked(); err != nil {
		s.events[id] = prev
		return &Error{Op: "update", Code: CodeUnavailable, Err: err}
	}
	return nil
}

// Delete removes the owner's event.
func (s *FileStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "delete", Code: CodeUnavailable, Err: err}
	}
	if ownerID == "" {
		return &Error{Op: "delete", Code: CodeUnauthenticated}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return &Error{Op: "delete", Code: CodeNotFound, Err: fmt.Errorf("event %s", id)}
	}
	if e.OwnerID != ownerID {
		return &Error{Op: "delete", Code: CodePermissionDenied, Err: fmt.Errorf("event %s", id)}
	}
	delete(s.events, id)

	if err := s.saveLocked(); err != nil {
		s.events[id] = e
		return &Error{Op: "delete", Code: CodeUnavailable, Err: err}
	}
	return nil
}
