package app

import (
	"fmt"
	"log"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/ndbelov/planner/internal/event"
)

const (
	icsProductID = "-//planner//Личный календарь//RU"
	icsCalName   = "Личный календарь"
)

// HandleExport downloads the owner's calendar in ICS or JSON format.
// GET /api/export?format=ics|json
func (a *App) HandleExport(w http.ResponseWriter, r *http.Request, ownerID string) {
	flow := a.readyFlow(r.Context(), ownerID)
	events := flow.Events()

	switch format := r.URL.Query().Get("format"); format {
	case "", "ics":
		generateICS(w, events)
	case "json":
		generateJSON(w, events)
	default:
		writeJSONError(w, "Некорректный формат", http.StatusBadRequest)
	}
}

// generateICS writes the events as an iCalendar download.
func generateICS(w http.ResponseWriter, events []event.Event) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(icsCalName)

	stamp := time.Now().UTC()
	for _, e := range events {
		ve := cal.AddEvent(fmt.Sprintf("%s@planner", e.ID))
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(e.Start.UTC())
		ve.SetEndAt(e.End.UTC())
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if !e.CreatedAt.IsZero() {
			ve.SetCreatedTime(e.CreatedAt.UTC())
		}
		if !e.UpdatedAt.IsZero() {
			ve.SetModifiedAt(e.UpdatedAt.UTC())
		}
		for _, p := range e.Participants {
			ve.AddAttendee(p)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=planner.ics")
	if _, err := fmt.Fprint(w, cal.Serialize()); err != nil {
		log.Printf("Error writing ICS export: %v", err)
	}
}

// generateJSON writes the events as a JSON download.
func generateJSON(w http.ResponseWriter, events []event.Event) {
	w.Header().Set("Content-Disposition", "attachment; filename=planner.json")
	writeJSON(w, http.StatusOK, events)
}
