package event

import (
	"errors"
	"testing"
	"time"
)

func TestDraftValidate(t *testing.T) {
	valid := Draft{Title: "Встреча", Date: "2024-08-20", Time: "09:00", Duration: "1 час", Category: CategoryMeeting}

	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr bool
	}{
		{"valid", func(d *Draft) {}, false},
		{"empty title", func(d *Draft) { d.Title = "" }, true},
		{"blank title", func(d *Draft) { d.Title = "   " }, true},
		{"missing date", func(d *Draft) { d.Date = "" }, true},
		{"missing time", func(d *Draft) { d.Time = "" }, true},
		{"bad date", func(d *Draft) { d.Date = "20.08.2024" }, true},
		{"bad time", func(d *Draft) { d.Time = "9am" }, true},
		{"unknown duration", func(d *Draft) { d.Duration = "полчаса" }, true},
		{"unknown category", func(d *Draft) { d.Category = "hobby" }, true},
		{"empty duration ok", func(d *Draft) { d.Duration = "" }, false},
		{"empty category ok", func(d *Draft) { d.Category = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("Validate() error = %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestDraftEvent(t *testing.T) {
	d := Draft{
		Title:        "  Планёрка  ",
		Date:         "2024-08-20",
		Time:         "09:00",
		Duration:     "1.5 часа",
		Category:     CategoryMeeting,
		Description:  "еженедельная",
		Participants: []string{"anna", "boris"},
	}

	ev, err := d.Event("owner-1")
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}

	if ev.Title != "Планёрка" {
		t.Errorf("Title = %q, want trimmed", ev.Title)
	}
	wantStart := time.Date(2024, time.August, 20, 9, 0, 0, 0, time.Local)
	if !ev.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", ev.Start, wantStart)
	}
	if !ev.End.Equal(wantStart.Add(90 * time.Minute)) {
		t.Errorf("End = %v, want start+90m", ev.End)
	}
	if ev.OwnerID != "owner-1" {
		t.Errorf("OwnerID = %q", ev.OwnerID)
	}
	if ev.BackgroundColor != "#3b82f6" || ev.BorderColor != "#2563eb" {
		t.Errorf("colors = %s/%s, want meeting pair", ev.BackgroundColor, ev.BorderColor)
	}
	if ev.ID != "" || !ev.CreatedAt.IsZero() || !ev.UpdatedAt.IsZero() {
		t.Error("ID and timestamps must be left for the store to assign")
	}
}

func TestDraftEventDefaults(t *testing.T) {
	d := Draft{Title: "Задача", Date: "2024-08-20", Time: "10:00"}

	ev, err := d.Event("owner-1")
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}
	if ev.Category != CategoryWork {
		t.Errorf("Category = %s, want work default", ev.Category)
	}
	if got := ev.End.Sub(ev.Start); got != 30*time.Minute {
		t.Errorf("duration = %v, want default 30m", got)
	}
}

func TestCategoryColors(t *testing.T) {
	tests := []struct {
		category Category
		bg       string
		border   string
	}{
		{CategoryWork, "#6366f1", "#4f46e5"},
		{CategoryPersonal, "#f97316", "#ea580c"},
		{CategoryMeeting, "#3b82f6", "#2563eb"},
		{CategoryOther, "#6b7280", "#4b5563"},
		{Category("unknown"), "#6b7280", "#4b5563"},
	}
	for _, tt := range tests {
		got := tt.category.Colors()
		if got.Background != tt.bg || got.Border != tt.border {
			t.Errorf("%s colors = %s/%s, want %s/%s", tt.category, got.Background, got.Border, tt.bg, tt.border)
		}
	}
}

func TestFilter(t *testing.T) {
	events := []Event{
		{ID: "a", Title: "Планёрка", Description: "еженедельная встреча"},
		{ID: "b", Title: "Обед", Description: ""},
		{ID: "c", Title: "Зубной", Description: "не забыть планёрку перенести"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"a", "b", "c"}},
		{"   ", []string{"a", "b", "c"}},
		{"планёрк", []string{"a", "c"}}, // matches title and description
		{"ОБЕД", []string{"b"}},
		{"ничего", nil},
	}

	for _, tt := range tests {
		got := Filter(events, tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("Filter(%q) = %v, want %v", tt.query, ids(got), tt.want)
			continue
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("Filter(%q)[%d] = %s, want %s", tt.query, i, got[i].ID, tt.want[i])
			}
		}
	}
}

func TestSortByStart(t *testing.T) {
	events := []Event{
		{ID: "c", Start: localDate(2024, time.August, 22, 9, 0)},
		{ID: "a", Start: localDate(2024, time.August, 20, 9, 0)},
		{ID: "b", Start: localDate(2024, time.August, 20, 18, 0)},
	}
	SortByStart(events)
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if events[i].ID != id {
			t.Fatalf("sorted order = %v, want %v", ids(events), want)
		}
	}
}
