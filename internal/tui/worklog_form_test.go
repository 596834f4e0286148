package tui

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/roeyazroel/jira-tui/internal/jiraapi"
)

// TestWorklogField_Rotation verifies focus wraps in both directions.
func TestWorklogField_Rotation(t *testing.T) {
	if got := FieldComment.Next(); got != FieldDay {
		t.Errorf("FieldComment.Next() = %v, want %v", got, FieldDay)
	}
	if got := FieldDay.Prev(); got != FieldComment {
		t.Errorf("FieldDay.Prev() = %v, want %v", got, FieldComment)
	}
	f := FieldDay
	for i := 0; i < worklogFieldCount; i++ {
		f = f.Next()
	}
	if f != FieldDay {
		t.Errorf("full rotation ended at %v, want %v", f, FieldDay)
	}
}

// TestInputDigit_Rollover checks the overflow rule for every numeric field.
func TestInputDigit_Rollover(t *testing.T) {
	tests := []struct {
		field  WorklogField
		start  int
		digit  int
		expect int
	}{
		{FieldDay, 3, 9, 9},
		{FieldDay, 3, 1, 31},
		{FieldMonth, 1, 2, 12},
		{FieldMonth, 1, 3, 3},
		{FieldYear, 202, 5, 2025},
		{FieldYear, 2025, 1, 1},
		{FieldHour, 2, 3, 23},
		{FieldHour, 2, 4, 4},
		{FieldMinute, 5, 9, 59},
		{FieldMinute, 6, 0, 0},
		{FieldDurationHours, 9, 9, 99},
		{FieldDurationHours, 99, 1, 1},
		{FieldDurationMinutes, 5, 9, 59},
		{FieldDurationMinutes, 7, 5, 5},
	}
	for _, tt := range tests {
		form := WorklogForm{Focus: tt.field}.set(tt.field, tt.start)
		got := form.InputDigit(tt.digit).Value(tt.field)
		if got != tt.expect {
			t.Errorf("%v: %d then %d = %d, want %d", tt.field, tt.start, tt.digit, got, tt.expect)
		}
	}
}

// TestInputChar_NumericFieldsRejectLetters verifies only digits reach numeric fields.
func TestInputChar_NumericFieldsRejectLetters(t *testing.T) {
	form := WorklogForm{Focus: FieldHour, Hour: 1}
	if got := form.InputChar('x'); got != form {
		t.Errorf("InputChar('x') changed form: %+v", got)
	}
	if got := form.InputChar('2').Hour; got != 12 {
		t.Errorf("InputChar('2').Hour = %d, want 12", got)
	}

	comment := WorklogForm{Focus: FieldComment}.InputDigit(4).InputChar('h')
	if comment.Comment != "4h" {
		t.Errorf("comment = %q, want %q", comment.Comment, "4h")
	}
}

// TestDeleteChar verifies backspace on numbers and multi-byte comments.
func TestDeleteChar(t *testing.T) {
	form := WorklogForm{Focus: FieldYear, Year: 2025}
	if got := form.DeleteChar().Year; got != 202 {
		t.Errorf("DeleteChar().Year = %d, want 202", got)
	}

	form = WorklogForm{Focus: FieldComment, Comment: "café"}
	if got := form.DeleteChar().Comment; got != "caf" {
		t.Errorf("DeleteChar().Comment = %q, want %q", got, "caf")
	}
	empty := WorklogForm{Focus: FieldComment}
	if got := empty.DeleteChar().Comment; got != "" {
		t.Errorf("DeleteChar() on empty comment = %q", got)
	}
}

// TestCompose verifies validation and the UTC conversion of the start time.
func TestCompose(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	form := WorklogForm{
		Day: 1, Month: 6, Year: 2025, Hour: 9, Minute: 30,
		DurationHours: 1, DurationMinutes: 30,
		Comment:  "  pairing  ",
		IssueKey: "PROJ-1",
		Location: loc,
	}

	w, err := form.Compose()
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	want := jiraapi.Worklog{
		IssueKey:         "PROJ-1",
		TimeSpentSeconds: 5400,
		Started:          time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC),
		Comment:          "pairing",
	}
	if !w.Started.Equal(want.Started) || w.Started.Location() != time.UTC {
		t.Errorf("Started = %v, want %v", w.Started, want.Started)
	}
	w.Started = want.Started
	if w != want {
		t.Errorf("Compose() = %+v, want %+v", w, want)
	}
}

// TestCompose_Rejects verifies zero durations and impossible dates fail locally.
func TestCompose_Rejects(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}
	valid := WorklogForm{Day: 15, Month: 3, Year: 2025, DurationMinutes: 15, Location: time.UTC}
	tests := []struct {
		name   string
		mutate func(*WorklogForm)
		want   error
	}{
		{"zero duration", func(f *WorklogForm) { f.DurationMinutes = 0 }, ErrZeroDuration},
		{"april 31", func(f *WorklogForm) { f.Day, f.Month = 31, 4 }, ErrInvalidDate},
		{"feb 29 non-leap", func(f *WorklogForm) { f.Day, f.Month, f.Year = 29, 2, 2025 }, ErrInvalidDate},
		{"day zero", func(f *WorklogForm) { f.Day = 0 }, ErrInvalidDate},
		{"month zero", func(f *WorklogForm) { f.Month = 0 }, ErrInvalidDate},
		{"year zero", func(f *WorklogForm) { f.Year = 0 }, ErrInvalidDate},
		{"skipped by spring forward", func(f *WorklogForm) {
			f.Day, f.Month, f.Year, f.Hour, f.Minute, f.Location = 10, 3, 2024, 2, 30, newYork
		}, ErrInvalidDate},
		{"repeated by fall back", func(f *WorklogForm) {
			f.Day, f.Month, f.Year, f.Hour, f.Minute, f.Location = 3, 11, 2024, 1, 30, newYork
		}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			if _, err := form.Compose(); !errors.Is(err, tt.want) {
				t.Errorf("Compose() error = %v, want %v", err, tt.want)
			}
		})
	}

	leap := WorklogForm{Day: 29, Month: 2, Year: 2024, DurationHours: 1, Location: time.UTC}
	if _, err := leap.Compose(); err != nil {
		t.Errorf("Compose() on 29 Feb 2024 error = %v", err)
	}

	afterChange := WorklogForm{Day: 10, Month: 3, Year: 2024, Hour: 3, Minute: 30, DurationHours: 1, Location: newYork}
	w, err := afterChange.Compose()
	if err != nil {
		t.Fatalf("Compose() at 03:30 after spring forward error = %v", err)
	}
	if want := time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC); !w.Started.Equal(want) {
		t.Errorf("Started = %v, want %v", w.Started, want)
	}
}

// TestEditWorklogForm verifies fields are seeded from an existing entry in local time.
func TestEditWorklogForm(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	entry := jiraapi.WorklogEntry{
		ID:               "42",
		TimeSpentSeconds: 2*3600 + 45*60,
		Comment:          "review",
		Started:          time.Date(2025, 1, 1, 3, 15, 0, 0, time.UTC),
	}
	form := editWorklogForm("PROJ-9", entry, loc)

	if form.Day != 31 || form.Month != 12 || form.Year != 2024 || form.Hour != 22 || form.Minute != 15 {
		t.Errorf("date fields = %02d/%02d/%04d %02d:%02d, want 31/12/2024 22:15",
			form.Day, form.Month, form.Year, form.Hour, form.Minute)
	}
	if form.DurationHours != 2 || form.DurationMinutes != 45 {
		t.Errorf("duration = %dh %dm, want 2h 45m", form.DurationHours, form.DurationMinutes)
	}
	if form.Editing == nil || form.Editing.ID != "42" {
		t.Fatalf("Editing = %+v, want entry 42", form.Editing)
	}

	if form.Location != loc {
		t.Errorf("Location = %v, want %v", form.Location, loc)
	}

	w, err := form.Compose()
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !w.Started.Equal(entry.Started) {
		t.Errorf("round trip Started = %v, want %v", w.Started, entry.Started)
	}
}
