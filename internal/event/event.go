package event

import (
	"sort"
	"strings"
	"time"
)

// Category classifies an event and determines its display colors.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryMeeting  Category = "meeting"
	CategoryOther    Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryMeeting, CategoryOther:
		return true
	}
	return false
}

// ColorPair holds the derived background/border colors of a category.
type ColorPair struct {
	Background string `json:"backgroundColor"`
	Border     string `json:"borderColor"`
}

// Colors returns the fixed color pair for a category. Unknown categories
// get the "other" colors rather than an error.
func (c Category) Colors() ColorPair {
	switch c {
	case CategoryWork:
		return ColorPair{Background: "#6366f1", Border: "#4f46e5"}
	case CategoryPersonal:
		return ColorPair{Background: "#f97316", Border: "#ea580c"}
	case CategoryMeeting:
		return ColorPair{Background: "#3b82f6", Border: "#2563eb"}
	default:
		return ColorPair{Background: "#6b7280", Border: "#4b5563"}
	}
}

// Event represents a single calendar occurrence owned by one user.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Category        Category  `json:"category"`
	Participants    []string  `json:"participants"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	OwnerID         string    `json:"userId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SortByStart sorts events by start time in ascending order. The store's
// own ordering is never trusted; every visible list passes through here.
func SortByStart(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}

// Filter returns the events whose title or description contains the query,
// case-insensitively. An empty or blank query returns the input unchanged.
func Filter(events []Event, query string) []Event {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return events
	}
	var out []Event
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}
	return out
}

// FormatTime renders an instant as HH:MM in the process-local zone.
func FormatTime(t time.Time) string {
	return t.Local().Format("15:04")
}

// DurationBetween returns the whole minutes between start and end,
// rounded to the nearest minute.
func DurationBetween(start, end time.Time) int {
	return int(end.Sub(start).Round(time.Minute) / time.Minute)
}
