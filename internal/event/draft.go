package event

import (
	"fmt"
	"strings"
	"time"
)

// Draft is the transient, pre-persistence event form. It lives only
// between "new event" intent and submit/cancel.
type Draft struct {
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Duration     string   `json:"duration"`
	Category     Category `json:"category"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
}

// ValidationError reports a locally-detected draft problem. It is caught
// before any store call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validate checks the required fields and the closed vocabularies.
func (d *Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if d.Date == "" {
		missing = append(missing, "date")
	}
	if d.Time == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return &ValidationError{Reason: "missing required fields: " + strings.Join(missing, ", ")}
	}
	if _, err := ParseDateKey(d.Date); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid date %q", d.Date)}
	}
	if _, err := time.Parse("15:04", d.Time); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid time %q", d.Time)}
	}
	if d.Duration != "" {
		if _, err := LabelToMinutes(d.Duration); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("invalid duration %q", d.Duration)}
		}
	}
	if d.Category != "" && !d.Category.Valid() {
		return &ValidationError{Reason: fmt.Sprintf("invalid category %q", d.Category)}
	}
	return nil
}

// Event converts a validated draft into a persistable event for the given
// owner, computing start from date+time as local wall clock and end from
// the duration label. ID and timestamps stay empty for the store to fill.
func (d *Draft) Event(ownerID string) (Event, error) {
	if err := d.Validate(); err != nil {
		return Event{}, err
	}

	category := d.Category
	if category == "" {
		category = CategoryWork
	}
	duration := DefaultDuration
	if d.Duration != "" {
		duration, _ = LabelToMinutes(d.Duration)
	}

	start, err := time.ParseInLocation("2006-01-02T15:04", d.Date+"T"+d.Time, time.Local)
	if err != nil {
		return Event{}, &ValidationError{Reason: fmt.Sprintf("invalid start %s %s", d.Date, d.Time)}
	}

	colors := category.Colors()
	return Event{
		Title:           strings.TrimSpace(d.Title),
		Description:     d.Description,
		Start:           start,
		End:             start.Add(time.Duration(duration) * time.Minute),
		Category:        category,
		Participants:    d.Participants,
		BackgroundColor: colors.Background,
		BorderColor:     colors.Border,
		OwnerID:         ownerID,
	}, nil
}
