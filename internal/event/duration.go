package event

import (
	"fmt"
	"math"
)

// Duration is an event length in whole minutes. The UI only ever shows a
// closed vocabulary of localized labels; internally everything is minutes
// and the labels exist only at the codec boundary.
type Duration int

// Minutes per label.
const (
	Minutes15 Duration = 15
	Minutes30 Duration = 30
	Minutes45 Duration = 45
	Hour1     Duration = 60
	Hour15    Duration = 90
	Hours2    Duration = 120
	Hours3    Duration = 180
	Hours4    Duration = 240
	AllDay    Duration = 24 * 60
)

// DefaultDuration is the slot length used when a selection carries no
// usable range.
const DefaultDuration = Minutes30

// allDayThreshold is the elapsed-minutes mark at or above which a
// selection is treated as a full day.
const allDayThreshold = 480

// durationBuckets is the fixed round-up table: the first bucket whose
// upper bound is >= the elapsed minutes wins. Order matters.
var durationBuckets = []struct {
	Max   Duration
	Label string
}{
	{Minutes15, "15 минут"},
	{Minutes30, "30 минут"},
	{Minutes45, "45 минут"},
	{Hour1, "1 час"},
	{Hour15, "1.5 часа"},
	{Hours2, "2 часа"},
	{Hours3, "3 часа"},
	{Hours4, "4 часа"},
}

// AllDayLabel is the label for a full-day event.
const AllDayLabel = "Весь день"

// durationByLabel is the closed label vocabulary.
var durationByLabel = map[string]Duration{
	"15 минут":  Minutes15,
	"30 минут":  Minutes30,
	"45 минут":  Minutes45,
	"1 час":     Hour1,
	"1.5 часа":  Hour15,
	"2 часа":    Hours2,
	"3 часа":    Hours3,
	"4 часа":    Hours4,
	AllDayLabel: AllDay,
}

// FormatError reports a duration label outside the closed vocabulary.
type FormatError struct {
	Label string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unknown duration label %q", e.Label)
}

// LabelToMinutes converts a vocabulary label to minutes. Labels outside
// the closed set fail with *FormatError; the codec never guesses.
func LabelToMinutes(label string) (Duration, error) {
	if d, ok := durationByLabel[label]; ok {
		return d, nil
	}
	return 0, &FormatError{Label: label}
}

// MinutesToLabel converts elapsed minutes to the nearest label, always
// rounding up to the next bucket, never down. Non-positive input falls
// back to the default slot. The 240-480 minute gap gets a generic hour
// label; anything at or past 480 is a full day.
func MinutesToLabel(minutes int) string {
	if minutes <= 0 {
		return durationLabel(DefaultDuration)
	}
	for _, b := range durationBuckets {
		if Duration(minutes) <= b.Max {
			return b.Label
		}
	}
	if minutes >= allDayThreshold {
		return AllDayLabel
	}
	hours := int(math.Round(float64(minutes) / 60))
	return fmt.Sprintf("%d часа", hours)
}

func durationLabel(d Duration) string {
	for _, b := range durationBuckets {
		if d == b.Max {
			return b.Label
		}
	}
	return AllDayLabel
}

// Label returns the vocabulary label for a duration that is itself a
// member of the vocabulary, or the round-up label otherwise.
func (d Duration) Label() string {
	if d == AllDay {
		return AllDayLabel
	}
	return MinutesToLabel(int(d))
}
