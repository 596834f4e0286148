package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/roeyazroel/jira-tui/internal/jiraapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this comment is too long", 10, "this co..."},
		{"日本語のコメント", 5, "日本..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n), "truncate(%q, %d)", tt.in, tt.n)
	}
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "fix the build", oneLine("  fix\nthe\t build \n"))
}

// TestBaseScreen verifies modals are drawn over the screen that opened them.
func TestBaseScreen(t *testing.T) {
	backlog := backlogState(3, 3)
	assert.Equal(t, ScreenBacklog, baseScreen(backlog))
	assert.Equal(t, ScreenBacklog, baseScreen(Apply(backlog, OpenFilterModal{})))
	assert.Equal(t, ScreenIssueDetail, baseScreen(worklogListState(1)))
	assert.Equal(t, ScreenIssueDetail, baseScreen(Apply(detailState(), OpenWorklogModal{Now: testStart})))
}

func TestSpinner(t *testing.T) {
	var sp spinner
	first := sp.Next(true)
	second := sp.Next(true)
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.Empty(t, sp.Next(false))
	assert.Equal(t, first, sp.Next(true), "spinner restarts after loading stops")
}

// TestWorklogRow verifies times are shown in the local zone and comments are cut.
func TestWorklogRow(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	entry := jiraapi.WorklogEntry{
		Started:          time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		TimeSpentSeconds: 5400,
		Comment:          strings.Repeat("x", 80),
	}
	row := worklogRow(entry, loc)
	require.Len(t, row, len(worklogColumns))
	assert.Equal(t, "2025-06-01 10:00", row[0])
	assert.Equal(t, "1h 30m", row[1])
	assert.Equal(t, "Unknown", row[2])
	assert.Len(t, []rune(row[3]), maxCommentWidth)
	assert.True(t, strings.HasSuffix(row[3], "..."))
}

// TestIssueInfo verifies placeholders for unset fields.
func TestIssueInfo(t *testing.T) {
	tags := NewThemeTags(DefaultTheme())
	issue := jiraapi.Issue{
		Key:     "PROJ-4",
		Summary: "Broken\nlogin",
		Status:  jiraapi.ParseStatus("In Progress"),
	}
	info := issueInfo(issue, "https://acme.atlassian.net/browse/PROJ-4", tags, testStart, time.UTC)
	assert.Contains(t, info, "PROJ-4")
	assert.Contains(t, info, "Broken login")
	assert.Contains(t, info, "Unassigned")
	assert.Contains(t, info, "None")
	assert.Contains(t, info, "In Progress")
	assert.Contains(t, info, "https://acme.atlassian.net/browse/PROJ-4")
	assert.Equal(t, 7, strings.Count(info, "\n")+1, "one line per field")

	noLink := issueInfo(issue, "", tags, testStart, time.UTC)
	assert.True(t, strings.HasSuffix(noLink, tags.SecondaryText+"-[-]"), "missing link shows a dash")
}

func TestBoardRow(t *testing.T) {
	row := boardRow(jiraapi.Board{ID: 7, Name: "Core [team]", ProjectKey: "CORE", Type: "scrum"})
	require.Len(t, row, len(boardColumns))
	assert.Equal(t, "7", row[0])
	assert.Equal(t, "Core [team[]", row[1], "tview tags are escaped")
}

// TestStatusBarText verifies hints follow the screen's bindings.
func TestStatusBarText(t *testing.T) {
	tags := NewThemeTags(DefaultTheme())

	backlog := statusBarText(backlogState(3, 3), tags)
	assert.Contains(t, backlog, "Enter: details")
	assert.Contains(t, backlog, "F: filter")
	assert.Contains(t, backlog, "Assignee: Me")

	form := statusBarText(Apply(detailState(), OpenWorklogModal{Now: testStart}), tags)
	assert.Contains(t, form, "Enter: submit")
	assert.NotContains(t, form, "quit")
	assert.NotContains(t, form, "Assignee:")
}

func TestNotificationText(t *testing.T) {
	tags := NewThemeTags(DefaultTheme())
	ok := notificationText(Notification{Title: "Worklog added", Success: true}, tags)
	assert.Contains(t, ok, "✓ Worklog added")
	assert.NotContains(t, ok, "\n")

	failed := notificationText(Notification{Title: "Delete failed", Message: "Not found"}, tags)
	assert.Contains(t, failed, "✗ Delete failed")
	assert.True(t, strings.HasSuffix(failed, "\nNot found"))
}

func TestWorklogFormText(t *testing.T) {
	tags := NewThemeTags(DefaultTheme())
	s := Apply(detailState(), OpenWorklogModal{Now: testStart})
	text := worklogFormText(s.Form, tags)
	assert.Contains(t, text, "Log time on PROJ-1")
	assert.Contains(t, text, "/06/2025")
	assert.Contains(t, text, "Duration")
	assert.NotContains(t, text, "Sending")

	s.Form.Submitting = true
	assert.Contains(t, worklogFormText(s.Form, tags), "Sending...")

	edit := Apply(worklogListState(1), SelectWorklogForEdit{})
	assert.Contains(t, worklogFormText(edit.Form, tags), "Edit worklog on PROJ-1")
}

func TestHeaderText(t *testing.T) {
	tags := NewThemeTags(DefaultTheme())
	s := backlogState(20, 45)
	text := headerText(s, tags, "")
	assert.Contains(t, text, "Board 7")
	assert.Contains(t, text, "20/45 issues")
	assert.NotContains(t, text, "loading")

	assert.Contains(t, headerText(s, tags, "⠋"), "⠋ loading")
}
