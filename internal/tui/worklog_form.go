package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roeyazroel/jira-tui/internal/jiraapi"
)

// WorklogField is a focusable field of the worklog form, in tab order.
type WorklogField int

const (
	FieldDay WorklogField = iota
	FieldMonth
	FieldYear
	FieldHour
	FieldMinute
	FieldDurationHours
	FieldDurationMinutes
	FieldComment
)

const worklogFieldCount = 8

// Next moves focus forward, wrapping after the comment.
func (f WorklogField) Next() WorklogField {
	return (f + 1) % worklogFieldCount
}

// Prev moves focus backward, wrapping before the day.
func (f WorklogField) Prev() WorklogField {
	return (f + worklogFieldCount - 1) % worklogFieldCount
}

// IsNumeric reports whether the field accepts digits only.
func (f WorklogField) IsNumeric() bool {
	return f != FieldComment
}

// Max is the largest value a numeric field holds.
func (f WorklogField) Max() int {
	switch f {
	case FieldDay:
		return 31
	case FieldMonth:
		return 12
	case FieldYear:
		return 9999
	case FieldHour:
		return 23
	case FieldMinute, FieldDurationMinutes:
		return 59
	case FieldDurationHours:
		return 99
	default:
		return 0
	}
}

func (f WorklogField) String() string {
	switch f {
	case FieldDay:
		return "Day"
	case FieldMonth:
		return "Month"
	case FieldYear:
		return "Year"
	case FieldHour:
		return "Hour"
	case FieldMinute:
		return "Minute"
	case FieldDurationHours:
		return "Hours"
	case FieldDurationMinutes:
		return "Minutes"
	default:
		return "Comment"
	}
}

var (
	// ErrZeroDuration is returned when the form has no time spent.
	ErrZeroDuration = errors.New("time spent must be greater than zero")
	// ErrInvalidDate is returned when the date fields do not form a calendar day.
	ErrInvalidDate = errors.New("invalid date")
)

// WorklogForm holds the worklog modal's edit buffers. Date and time are in
// local time.
type WorklogForm struct {
	Day, Month, Year int
	Hour, Minute     int

	DurationHours   int
	DurationMinutes int

	Comment string
	Focus   WorklogField

	IssueKey string
	// Editing is the entry being changed, nil when logging new time.
	Editing *jiraapi.WorklogEntry
	// Location is the zone the date and time fields are entered in; nil means
	// time.Local.
	Location *time.Location
	// Submitting is set while the worklog is being sent.
	Submitting bool
}

// newWorklogForm returns a blank form starting at now.
func newWorklogForm(issueKey string, now time.Time) WorklogForm {
	return WorklogForm{
		Day:      now.Day(),
		Month:    int(now.Month()),
		Year:     now.Year(),
		Hour:     now.Hour(),
		Minute:   now.Minute(),
		IssueKey: issueKey,
		Location: now.Location(),
	}
}

// editWorklogForm returns a form seeded from an existing entry.
func editWorklogForm(issueKey string, entry jiraapi.WorklogEntry, loc *time.Location) WorklogForm {
	if loc == nil {
		loc = time.Local
	}
	started := entry.Started.In(loc)
	editing := entry
	return WorklogForm{
		Day:             started.Day(),
		Month:           int(started.Month()),
		Year:            started.Year(),
		Hour:            started.Hour(),
		Minute:          started.Minute(),
		DurationHours:   entry.TimeSpentSeconds / 3600,
		DurationMinutes: (entry.TimeSpentSeconds % 3600) / 60,
		Comment:         entry.Comment,
		IssueKey:        issueKey,
		Editing:         &editing,
		Location:        loc,
	}
}

// Value returns the numeric value of field.
func (f WorklogForm) Value(field WorklogField) int {
	switch field {
	case FieldDay:
		return f.Day
	case FieldMonth:
		return f.Month
	case FieldYear:
		return f.Year
	case FieldHour:
		return f.Hour
	case FieldMinute:
		return f.Minute
	case FieldDurationHours:
		return f.DurationHours
	case FieldDurationMinutes:
		return f.DurationMinutes
	default:
		return 0
	}
}

func (f WorklogForm) set(field WorklogField, v int) WorklogForm {
	switch field {
	case FieldDay:
		f.Day = v
	case FieldMonth:
		f.Month = v
	case FieldYear:
		f.Year = v
	case FieldHour:
		f.Hour = v
	case FieldMinute:
		f.Minute = v
	case FieldDurationHours:
		f.DurationHours = v
	case FieldDurationMinutes:
		f.DurationMinutes = v
	}
	return f
}

// InputDigit appends d to the focused field. A value that would exceed the
// field's maximum restarts from d. On the comment the digit is typed as text.
func (f WorklogForm) InputDigit(d int) WorklogForm {
	if d < 0 || d > 9 {
		return f
	}
	if !f.Focus.IsNumeric() {
		return f.InputChar(rune('0' + d))
	}
	next := f.Value(f.Focus)*10 + d
	if next > f.Focus.Max() {
		next = d
	}
	return f.set(f.Focus, next)
}

// InputChar appends r to the comment. Numeric fields accept digits only.
func (f WorklogForm) InputChar(r rune) WorklogForm {
	if f.Focus.IsNumeric() {
		if r >= '0' && r <= '9' {
			return f.InputDigit(int(r - '0'))
		}
		return f
	}
	f.Comment += string(r)
	return f
}

// DeleteChar drops the last digit of a numeric field or the last rune of the
// comment.
func (f WorklogForm) DeleteChar() WorklogForm {
	if f.Focus.IsNumeric() {
		return f.set(f.Focus, f.Value(f.Focus)/10)
	}
	if f.Comment == "" {
		return f
	}
	runes := []rune(f.Comment)
	f.Comment = string(runes[:len(runes)-1])
	return f
}

// DurationSeconds is the time spent entered in the form.
func (f WorklogForm) DurationSeconds() int {
	return f.DurationHours*3600 + f.DurationMinutes*60
}

// Started composes the start instant in the form's location. Dates that do not
// exist, such as 31 April, are rejected, and so are wall-clock times skipped or
// repeated by a daylight-saving change.
func (f WorklogForm) Started() (time.Time, error) {
	loc := f.location()
	if f.Month < 1 || f.Month > 12 || f.Day < 1 || f.Year < 1 ||
		f.Hour > 23 || f.Minute > 59 {
		return time.Time{}, fmt.Errorf("%w: %02d/%02d/%04d %02d:%02d", ErrInvalidDate, f.Day, f.Month, f.Year, f.Hour, f.Minute)
	}
	t := time.Date(f.Year, time.Month(f.Month), f.Day, f.Hour, f.Minute, 0, 0, loc)
	if t.Year() != f.Year || int(t.Month()) != f.Month || t.Day() != f.Day {
		return time.Time{}, fmt.Errorf("%w: %02d/%02d/%04d", ErrInvalidDate, f.Day, f.Month, f.Year)
	}
	if t.Hour() != f.Hour || t.Minute() != f.Minute {
		return time.Time{}, fmt.Errorf("%w: %02d:%02d does not exist in %s", ErrInvalidDate, f.Hour, f.Minute, loc)
	}
	for _, shift := range []time.Duration{-time.Hour, time.Hour} {
		if alt := t.Add(shift).In(loc); alt.Hour() == f.Hour && alt.Minute() == f.Minute {
			return time.Time{}, fmt.Errorf("%w: %02d:%02d is ambiguous in %s", ErrInvalidDate, f.Hour, f.Minute, loc)
		}
	}
	return t, nil
}

func (f WorklogForm) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Compose validates the form and builds the gateway payload with the start
// converted to UTC.
func (f WorklogForm) Compose() (jiraapi.Worklog, error) {
	seconds := f.DurationSeconds()
	if seconds <= 0 {
		return jiraapi.Worklog{}, ErrZeroDuration
	}
	started, err := f.Started()
	if err != nil {
		return jiraapi.Worklog{}, err
	}
	return jiraapi.Worklog{
		IssueKey:         f.IssueKey,
		TimeSpentSeconds: seconds,
		Started:          started.UTC(),
		Comment:          strings.TrimSpace(f.Comment),
	}, nil
}
