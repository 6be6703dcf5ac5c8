package event

import (
	"fmt"
	"testing"
	"time"
)

func localDate(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func TestKeyOf(t *testing.T) {
	k := KeyOf(localDate(2024, time.August, 15, 23, 59))
	if k != "2024-08-15" {
		t.Errorf("KeyOf() = %s, want 2024-08-15", k)
	}
}

func TestDateKeyAddDaysRollover(t *testing.T) {
	tests := []struct {
		key  DateKey
		days int
		want DateKey
	}{
		{"2024-08-31", 1, "2024-09-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-12-30", 2, "2025-01-01"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2023-02-28", 1, "2023-03-01"},
	}
	for _, tt := range tests {
		if got := tt.key.AddDays(tt.days); got != tt.want {
			t.Errorf("%s.AddDays(%d) = %s, want %s", tt.key, tt.days, got, tt.want)
		}
	}
}

func TestBucketByLocalDate(t *testing.T) {
	now := localDate(2024, time.August, 15, 10, 0)

	events := []Event{
		{ID: "a", Start: localDate(2024, time.August, 15, 9, 0)},   // today, 1h before "now"
		{ID: "b", Start: localDate(2024, time.August, 15, 23, 30)}, // today, late evening
		{ID: "c", Start: localDate(2024, time.August, 16, 0, 15)},  // tomorrow, just past midnight
		{ID: "d", Start: localDate(2024, time.August, 17, 12, 0)},  // day after tomorrow
		{ID: "e", Start: localDate(2024, time.August, 18, 12, 0)},  // out of range
		{ID: "f", Start: localDate(2024, time.August, 14, 12, 0)},  // yesterday
	}

	b := BucketByLocalDate(events, now)

	if len(b.Today) != 2 || b.Today[0].ID != "a" || b.Today[1].ID != "b" {
		t.Errorf("Today = %v, want [a b]", ids(b.Today))
	}
	if len(b.Tomorrow) != 1 || b.Tomorrow[0].ID != "c" {
		t.Errorf("Tomorrow = %v, want [c]", ids(b.Tomorrow))
	}
	if len(b.DayAfterTomorrow) != 1 || b.DayAfterTomorrow[0].ID != "d" {
		t.Errorf("DayAfterTomorrow = %v, want [d]", ids(b.DayAfterTomorrow))
	}
}

// Bucketing is a partition: every event lands in at most one bucket,
// and never in two, regardless of its time of day.
func TestBucketByLocalDatePartition(t *testing.T) {
	now := localDate(2024, time.December, 31, 18, 0) // year boundary

	var events []Event
	days := []time.Time{
		localDate(2024, time.December, 29, 0, 0),
		localDate(2024, time.December, 30, 0, 0),
		localDate(2024, time.December, 31, 0, 0),
		localDate(2025, time.January, 1, 0, 0),
		localDate(2025, time.January, 2, 0, 0),
	}
	for _, day := range days {
		for _, hour := range []int{0, 12, 23} {
			start := day.Add(time.Duration(hour) * time.Hour)
			events = append(events, Event{
				ID:    fmt.Sprintf("%s-%02d", KeyOf(start), hour),
				Start: start,
			})
		}
	}

	b := BucketByLocalDate(events, now)

	seen := map[string]int{}
	for _, e := range b.Today {
		seen[e.ID]++
	}
	for _, e := range b.Tomorrow {
		seen[e.ID]++
	}
	for _, e := range b.DayAfterTomorrow {
		seen[e.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("event %s appears in %d buckets", id, n)
		}
	}

	// Dec 31 -> today, Jan 1 -> tomorrow, Jan 2 -> day after (year rollover)
	if len(b.Today) != 3 {
		t.Errorf("Today has %d events, want 3", len(b.Today))
	}
	if len(b.Tomorrow) != 3 {
		t.Errorf("Tomorrow has %d events, want 3", len(b.Tomorrow))
	}
	if len(b.DayAfterTomorrow) != 3 {
		t.Errorf("DayAfterTomorrow has %d events, want 3", len(b.DayAfterTomorrow))
	}
}

func TestEventsOnDate(t *testing.T) {
	events := []Event{
		{ID: "a", Start: localDate(2024, time.August, 20, 9, 0)},
		{ID: "b", Start: localDate(2024, time.August, 21, 9, 0)},
		{ID: "c", Start: localDate(2024, time.August, 20, 18, 0)},
	}

	got := EventsOnDate(events, "2024-08-20")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("EventsOnDate() = %v, want [a c]", ids(got))
	}
	if got := EventsOnDate(events, "2024-08-22"); len(got) != 0 {
		t.Errorf("EventsOnDate() on empty day = %v, want none", ids(got))
	}
}

func ids(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
