package event

import "time"

// DefaultSlotTime anchors a bare date click with no drag range.
const DefaultSlotTime = "09:00"

// Selection is the normalized result of a user's time-range pick on a
// calendar surface: the draft form is pre-filled from it. The visual
// selection on the client must be unselected once this has been read,
// so a stale highlight never survives into an open modal.
type Selection struct {
	Date     DateKey `json:"date"`
	Time     string  `json:"time"`
	Duration string  `json:"duration"`
}

// FromRange converts a drag selection into a (date, time, duration)
// triple. Degenerate or inverted ranges never fail the interaction; they
// fall back to the default slot length. Ranges of eight hours or more
// are forced to a full day.
func FromRange(start, end time.Time) Selection {
	minutes := DurationBetween(start, end)

	var label string
	switch {
	case minutes <= 0:
		label = DefaultDuration.Label()
	case minutes >= allDayThreshold:
		label = AllDayLabel
	default:
		label = MinutesToLabel(minutes)
	}

	return Selection{
		Date:     KeyOf(start),
		Time:     FormatTime(start),
		Duration: label,
	}
}

// FromPoint converts a bare date click into a default slot at the given
// anchor time (HH:MM). An empty anchor uses DefaultSlotTime.
func FromPoint(day DateKey, anchor string) Selection {
	if anchor == "" {
		anchor = DefaultSlotTime
	}
	return Selection{
		Date:     day,
		Time:     anchor,
		Duration: DefaultDuration.Label(),
	}
}

// FromNow is the quick-add affordance: today, the current wall-clock
// minute, default slot length.
func FromNow(now time.Time) Selection {
	return Selection{
		Date:     KeyOf(now),
		Time:     FormatTime(now),
		Duration: DefaultDuration.Label(),
	}
}
