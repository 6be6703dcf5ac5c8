package event

import "time"

// DateKey is a local year-month-day string (YYYY-MM-DD) used for
// date-equality checks independent of time-of-day. Keys are built from
// the calendar fields of the process-local zone on purpose: an event
// near midnight must land in the same bucket the user's wall clock says.
type DateKey string

// KeyOf returns the local calendar-day key of an instant.
func KeyOf(t time.Time) DateKey {
	return DateKey(t.Local().Format("2006-01-02"))
}

// ParseDateKey validates a YYYY-MM-DD string and returns it as a key.
func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.ParseInLocation("2006-01-02", s, time.Local); err != nil {
		return "", err
	}
	return DateKey(s), nil
}

// Time returns local midnight of the key's day.
func (k DateKey) Time() time.Time {
	t, _ := time.ParseInLocation("2006-01-02", string(k), time.Local)
	return t
}

// AddDays returns the key shifted by n calendar days, rolling over month
// and year boundaries.
func (k DateKey) AddDays(n int) DateKey {
	return KeyOf(k.Time().AddDate(0, 0, n))
}

// SameLocalDay reports whether two instants share a local calendar day.
func SameLocalDay(a, b time.Time) bool {
	return KeyOf(a) == KeyOf(b)
}

// Buckets groups events by their semantic distance from "today".
type Buckets struct {
	Today            []Event `json:"today"`
	Tomorrow         []Event `json:"tomorrow"`
	DayAfterTomorrow []Event `json:"dayAfterTomorrow"`
}

// BucketByLocalDate partitions events into today / tomorrow /
// day-after-tomorrow buckets relative to now. An event lands in at most
// one bucket; events outside the three days are dropped. Buckets are
// recomputed on every call.
func BucketByLocalDate(events []Event, now time.Time) Buckets {
	today := KeyOf(now)
	tomorrow := today.AddDays(1)
	dayAfter := today.AddDays(2)

	var b Buckets
	for _, e := range events {
		switch KeyOf(e.Start) {
		case today:
			b.Today = append(b.Today, e)
		case tomorrow:
			b.Tomorrow = append(b.Tomorrow, e)
		case dayAfter:
			b.DayAfterTomorrow = append(b.DayAfterTomorrow, e)
		}
	}
	return b
}

// EventsOnDate returns the events starting on the given calendar day.
func EventsOnDate(events []Event, day DateKey) []Event {
	var out []Event
	for _, e := range events {
		if KeyOf(e.Start) == day {
			out = append(out, e)
		}
	}
	return out
}
