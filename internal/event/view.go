package event

import (
	"fmt"
	"time"
)

// ViewMode selects the calendar layout.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ParseViewMode validates a mode string.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewDay, ViewWeek, ViewMonth:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// WeekStart controls which weekday opens a week row.
type WeekStart string

const (
	WeekStartMonday WeekStart = "monday"
	WeekStartSunday WeekStart = "sunday"
)

// maxDots caps the per-cell event indicators in month mode. The cap is a
// display contract only; Cell.EventCount keeps the true total for the
// "+N" affordance and the full list stays on Cell.Events.
const maxDots = 4

// dotPositions is the fixed corner order of the month-cell indicators.
var dotPositions = [maxDots]string{
	"bottom-left",
	"top-left",
	"top-right",
	"bottom-right",
}

// Dot is one month-cell event indicator.
type Dot struct {
	Color    string `json:"color"`
	Position string `json:"position"`
}

// Cell describes one calendar day to render.
type Cell struct {
	Date           DateKey `json:"date"`
	IsToday        bool    `json:"isToday"`
	InCurrentMonth bool    `json:"inCurrentMonth"`
	Events         []Event `json:"events"`
	EventCount     int     `json:"eventCount"`
	Dots           []Dot   `json:"dots,omitempty"`
}

// startOfWeek returns the week-opening day on or before t. For
// Monday-first weeks the offset is (weekday+6)%7 with 0=Sunday, which
// forces Monday regardless of locale.
func startOfWeek(t time.Time, ws WeekStart) time.Time {
	wd := int(t.Weekday())
	var back int
	if ws == WeekStartSunday {
		back = wd
	} else {
		back = (wd + 6) % 7
	}
	return t.AddDate(0, 0, -back)
}

// CellsForView computes the ordered calendar cells for a view mode around
// a reference date, matching each cell's events by local calendar day.
//
//	day:   one cell for the reference date
//	week:  7 cells starting at the week opening the reference date
//	month: 42 cells (6 full weeks) starting at the week opening the 1st
func CellsForView(mode ViewMode, ref DateKey, now time.Time, events []Event, ws WeekStart) []Cell {
	refTime := ref.Time()
	today := KeyOf(now)

	switch mode {
	case ViewDay:
		return []Cell{makeCell(ref, today, true, events)}
	case ViewWeek:
		start := startOfWeek(refTime, ws)
		cells := make([]Cell, 0, 7)
		for i := 0; i < 7; i++ {
			day := KeyOf(start.AddDate(0, 0, i))
			cells = append(cells, makeCell(day, today, true, events))
		}
		return cells
	case ViewMonth:
		first := time.Date(refTime.Year(), refTime.Month(), 1, 0, 0, 0, 0, time.Local)
		start := startOfWeek(first, ws)
		cells := make([]Cell, 0, 42)
		for i := 0; i < 42; i++ {
			d := start.AddDate(0, 0, i)
			c := makeCell(KeyOf(d), today, d.Month() == refTime.Month(), events)
			c.Dots = cellDots(c.Events)
			cells = append(cells, c)
		}
		return cells
	}
	return nil
}

func makeCell(day, today DateKey, inMonth bool, events []Event) Cell {
	matched := EventsOnDate(events, day)
	return Cell{
		Date:           day,
		IsToday:        day == today,
		InCurrentMonth: inMonth,
		Events:         matched,
		EventCount:     len(matched),
	}
}

func cellDots(events []Event) []Dot {
	n := len(events)
	if n == 0 {
		return nil
	}
	if n > maxDots {
		n = maxDots
	}
	dots := make([]Dot, 0, n)
	for i := 0; i < n; i++ {
		dots = append(dots, Dot{
			Color:    events[i].BackgroundColor,
			Position: dotPositions[i],
		})
	}
	return dots
}
