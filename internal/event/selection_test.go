package event

import (
	"testing"
	"time"
)

func TestFromRange(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  Selection
	}{
		{
			name:  "90 minute drag",
			start: localDate(2024, time.August, 20, 9, 0),
			end:   localDate(2024, time.August, 20, 10, 30),
			want:  Selection{Date: "2024-08-20", Time: "09:00", Duration: "1.5 часа"},
		},
		{
			name:  "short drag rounds up",
			start: localDate(2024, time.August, 20, 9, 0),
			end:   localDate(2024, time.August, 20, 9, 20),
			want:  Selection{Date: "2024-08-20", Time: "09:00", Duration: "30 минут"},
		},
		{
			name:  "zero-width selection falls back to default",
			start: localDate(2024, time.August, 20, 14, 0),
			end:   localDate(2024, time.August, 20, 14, 0),
			want:  Selection{Date: "2024-08-20", Time: "14:00", Duration: "30 минут"},
		},
		{
			name:  "inverted selection falls back to default",
			start: localDate(2024, time.August, 20, 14, 0),
			end:   localDate(2024, time.August, 20, 13, 0),
			want:  Selection{Date: "2024-08-20", Time: "14:00", Duration: "30 минут"},
		},
		{
			name:  "eight hours forces all day",
			start: localDate(2024, time.August, 20, 8, 0),
			end:   localDate(2024, time.August, 20, 16, 0),
			want:  Selection{Date: "2024-08-20", Time: "08:00", Duration: "Весь день"},
		},
		{
			name:  "overnight drag keeps the start date",
			start: localDate(2024, time.August, 20, 23, 30),
			end:   localDate(2024, time.August, 21, 0, 30),
			want:  Selection{Date: "2024-08-20", Time: "23:30", Duration: "1 час"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromRange(tt.start, tt.end); got != tt.want {
				t.Errorf("FromRange() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromPoint(t *testing.T) {
	got := FromPoint("2024-08-20", "")
	want := Selection{Date: "2024-08-20", Time: "09:00", Duration: "30 минут"}
	if got != want {
		t.Errorf("FromPoint() = %+v, want %+v", got, want)
	}

	got = FromPoint("2024-08-20", "08:30")
	if got.Time != "08:30" {
		t.Errorf("FromPoint() with anchor = %+v, want time 08:30", got)
	}
}

func TestFromNow(t *testing.T) {
	now := localDate(2024, time.August, 20, 17, 42)
	got := FromNow(now)
	want := Selection{Date: "2024-08-20", Time: "17:42", Duration: "30 минут"}
	if got != want {
		t.Errorf("FromNow() = %+v, want %+v", got, want)
	}
}
