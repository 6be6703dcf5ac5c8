package app

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ndbelov/planner/internal/auth"
	"github.com/ndbelov/planner/internal/event"
	"github.com/ndbelov/planner/internal/store"
	"github.com/ndbelov/planner/internal/sync"
)

// ServeIndex serves the web shell
func (a *App) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(a.IndexHTML); err != nil {
		log.Printf("Error writing index HTML: %v", err)
	}
}

// ServeManifest serves the installable-app manifest
func (a *App) ServeManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	if _, err := w.Write(a.Manifest); err != nil {
		log.Printf("Error writing manifest: %v", err)
	}
}

// ServeWorker serves the offline-shortcut service worker
func (a *App) ServeWorker(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	if _, err := w.Write(a.SWScript); err != nil {
		log.Printf("Error writing service worker: %v", err)
	}
}

// HandleSignUp registers a user and opens a session.
// POST /api/auth/signup {"email","password","displayName"}
func (a *App) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Некорректные данные", http.StatusBadRequest)
		return
	}

	ownerID, token, err := a.Auth.SignUp(req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeJSONError(w, "Пользователь с таким email уже существует", http.StatusConflict)
			return
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSONError(w, "Укажите email и пароль", http.StatusBadRequest)
			return
		}
		log.Printf("Error signing up %s: %v", req.Email, err)
		writeJSONError(w, sync.KindUnknown.Message(), http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, token, a.SessionTTL)
	writeJSON(w, http.StatusOK, map[string]string{
		"ownerId":     ownerID,
		"displayName": req.DisplayName,
	})
}

// HandleSignIn opens a session for an existing user.
// POST /api/auth/signin {"email","password"}
func (a *App) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Некорректные данные", http.StatusBadRequest)
		return
	}

	ownerID, token, err := a.Auth.SignIn(req.Email, req.Password)
	if err != nil {
		writeJSONError(w, "Неверный email или пароль", http.StatusUnauthorized)
		return
	}

	displayName := ""
	if account, ok := a.Auth.AccountByID(ownerID); ok {
		displayName = account.DisplayName
	}

	setSessionCookie(w, token, a.SessionTTL)
	writeJSON(w, http.StatusOK, map[string]string{
		"ownerId":     ownerID,
		"displayName": displayName,
	})
}

// HandleSignOut closes the session.
// POST /api/auth/signout
func (a *App) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if token := sessionToken(r); token != "" {
		a.Auth.SignOut(token)
	}
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSession returns the current owner.
// GET /api/session
func (a *App) HandleSession(w http.ResponseWriter, r *http.Request, ownerID string) {
	displayName := ""
	if account, ok := a.Auth.AccountByID(ownerID); ok {
		displayName = account.DisplayName
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"ownerId":     ownerID,
		"displayName": displayName,
	})
}

// HandleEvents returns the owner's visible event list, sorted by start.
// GET /api/events?q=
func (a *App) HandleEvents(w http.ResponseWriter, r *http.Request, ownerID string) {
	flow := a.readyFlow(r.Context(), ownerID)
	state, events, errMsg := flow.Snapshot()

	events = event.Filter(events, r.URL.Query().Get("q"))
	if events == nil {
		events = []event.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":  state,
		"events": events,
		"error":  errMsg,
	})
}

// HandleCreateEvent creates an event from a draft form.
// POST /api/events {draft}
func (a *App) HandleCreateEvent(w http.ResponseWriter, r *http.Request, ownerID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var draft event.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSONError(w, "Некорректные данные", http.StatusBadRequest)
		return
	}

	flow := a.readyFlow(r.Context(), ownerID)
	id, err := flow.Create(r.Context(), draft)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "created"})
}

// HandleUpdateEvent applies a partial update to an event.
// POST /api/events/update {"id", fields...}
func (a *App) HandleUpdateEvent(w http.ResponseWriter, r *http.Request, ownerID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		ID string `json:"id"`
		store.Patch
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Некорректные данные", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeJSONError(w, "Не указан идентификатор события", http.StatusBadRequest)
		return
	}

	flow := a.readyFlow(r.Context(), ownerID)
	if err := flow.Update(r.Context(), req.ID, req.Patch); err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleDeleteEvent removes an event.
// POST /api/events/delete {"id"}
func (a *App) HandleDeleteEvent(w http.ResponseWriter, r *http.Request, ownerID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Некорректные данные", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeJSONError(w, "Не указан идентификатор события", http.StatusBadRequest)
		return
	}

	flow := a.readyFlow(r.Context(), ownerID)
	if err := flow.Delete(r.Context(), req.ID); err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleView returns the calendar cells for a view mode.
// GET /api/view?mode=day|week|month&date=YYYY-MM-DD&q=
func (a *App) HandleView(w http.ResponseWriter, r *http.Request, ownerID string) {
	mode, err := event.ParseViewMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeJSONError(w, "Некорректный режим просмотра", http.StatusBadRequest)
		return
	}

	now := time.Now()
	ref := event.KeyOf(now)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		ref, err = event.ParseDateKey(dateStr)
		if err != nil {
			writeJSONError(w, "Некорректная дата", http.StatusBadRequest)
			return
		}
	}

	flow := a.readyFlow(r.Context(), ownerID)
	events := event.Filter(flow.Events(), r.URL.Query().Get("q"))

	cells := event.CellsForView(mode, ref, now, events, a.WeekStart)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mode":  mode,
		"date":  ref,
		"cells": cells,
	})
}

// HandleBuckets partitions the owner's events into today / tomorrow /
// day-after-tomorrow by local calendar day.
// GET /api/buckets
func (a *App) HandleBuckets(w http.ResponseWriter, r *http.Request, ownerID string) {
	flow := a.readyFlow(r.Context(), ownerID)
	writeJSON(w, http.StatusOK, event.BucketByLocalDate(flow.Events(), time.Now()))
}

// HandleDay returns the full, uncapped event list of one calendar day
// (the month view's "+N" affordance resolves through here).
// GET /api/day?date=YYYY-MM-DD
func (a *App) HandleDay(w http.ResponseWriter, r *http.Request, ownerID string) {
	day, err := event.ParseDateKey(r.URL.Query().Get("date"))
	if err != nil {
		writeJSONError(w, "Некорректная дата", http.StatusBadRequest)
		return
	}

	flow := a.readyFlow(r.Context(), ownerID)
	events := event.EventsOnDate(flow.Events(), day)
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":   day,
		"events": events,
	})
}

// HandleSelect normalizes a calendar-surface selection into a draft
// prefill. A start/end pair is a drag range, a bare date is a point
// click, an empty body is the quick-add intent.
// POST /api/select {"start","end"} | {"date"} | {}
func (a *App) HandleSelect(w http.ResponseWriter, r *http.Request, ownerID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Date  string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Некорректные данные", http.StatusBadRequest)
		return
	}

	var sel event.Selection
	switch {
	case req.Start != "" && req.End != "":
		start, err := time.Parse(time.RFC3339, req.Start)
		if err != nil {
			writeJSONError(w, "Некорректная дата начала", http.StatusBadRequest)
			return
		}
		end, err := time.Parse(time.RFC3339, req.End)
		if err != nil {
			writeJSONError(w, "Некорректная дата окончания", http.StatusBadRequest)
			return
		}
		sel = event.FromRange(start, end)
	case req.Date != "":
		day, err := event.ParseDateKey(req.Date)
		if err != nil {
			writeJSONError(w, "Некорректная дата", http.StatusBadRequest)
			return
		}
		sel = event.FromPoint(day, a.DayStart)
	default:
		sel = event.FromNow(time.Now())
	}

	writeJSON(w, http.StatusOK, sel)
}
