package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"
	"github.com/roeyazroel/jira-tui/internal/filter"
	"github.com/roeyazroel/jira-tui/internal/jiraapi"
)

const (
	maxCommentWidth = 60
	timeLayout      = "2006-01-02 15:04"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates the loading indicator; it advances one frame per render
// while something is loading.
type spinner struct {
	frame int
}

func (sp *spinner) Next(active bool) string {
	if !active {
		sp.frame = 0
		return ""
	}
	f := spinnerFrames[sp.frame%len(spinnerFrames)]
	sp.frame++
	return f
}

// baseScreen is the non-modal screen drawn underneath s.Screen.
func baseScreen(s State) Screen {
	if !s.Screen.IsModal() {
		return s.Screen
	}
	switch s.Screen {
	case ScreenFilterModal:
		if s.HasPrevious && !s.Previous.IsModal() {
			return s.Previous
		}
		return ScreenBacklog
	default:
		return ScreenIssueDetail
	}
}

// truncate shortens s to n runes, ending with "..." when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// oneLine collapses whitespace so multi-line text fits a table cell.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// relativeTime renders t as "3 hours ago" against now.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// issueRow is the backlog cell text for an issue.
func issueRow(issue jiraapi.Issue, tags ThemeTags, now time.Time) []string {
	return []string{
		issue.Key,
		tags.statusTag(issue.Status) + tview.Escape(issue.Status.String()) + "[-]",
		tview.Escape(orDefault(issue.Priority, "None")),
		tview.Escape(oneLine(issue.Summary)),
		tview.Escape(orDefault(issue.Assignee, "Unassigned")),
		relativeTime(issue.Updated, now),
	}
}

var issueColumns = []string{"Key", "Status", "Priority", "Summary", "Assignee", "Updated"}

var boardColumns = []string{"ID", "Name", "Project", "Type"}

func boardRow(b jiraapi.Board) []string {
	return []string{
		fmt.Sprintf("%d", b.ID),
		tview.Escape(b.Name),
		tview.Escape(b.ProjectKey),
		tview.Escape(b.Type),
	}
}

var worklogColumns = []string{"Started", "Time", "Author", "Comment"}

func worklogRow(w jiraapi.WorklogEntry, loc *time.Location) []string {
	started := "-"
	if !w.Started.IsZero() {
		started = w.Started.In(loc).Format(timeLayout)
	}
	return []string{
		started,
		jiraapi.FormatDuration(w.TimeSpentSeconds),
		tview.Escape(orDefault(w.Author, "Unknown")),
		tview.Escape(truncate(oneLine(w.Comment), maxCommentWidth)),
	}
}

// issueInfo is the metadata block at the top of the detail view.
func issueInfo(issue jiraapi.Issue, link string, tags ThemeTags, now time.Time, loc *time.Location) string {
	label := func(name string) string {
		return fmt.Sprintf("%s%-9s[-]", tags.SecondaryText, name)
	}
	updated := "-"
	if !issue.Updated.IsZero() {
		updated = fmt.Sprintf("%s (%s)", issue.Updated.In(loc).Format(timeLayout), relativeTime(issue.Updated, now))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s%s[-]\n", label("KEY"), tags.Accent, issue.Key)
	fmt.Fprintf(&b, "%s %s%s[-]\n", label("STATUS"), tags.statusTag(issue.Status), tview.Escape(issue.Status.String()))
	fmt.Fprintf(&b, "%s %s\n", label("SUMMARY"), tview.Escape(oneLine(issue.Summary)))
	fmt.Fprintf(&b, "%s %s\n", label("ASSIGNEE"), tview.Escape(orDefault(issue.Assignee, "Unassigned")))
	fmt.Fprintf(&b, "%s %s\n", label("PRIORITY"), tview.Escape(orDefault(issue.Priority, "None")))
	fmt.Fprintf(&b, "%s %s\n", label("UPDATED"), updated)
	fmt.Fprintf(&b, "%s %s%s[-]", label("LINK"), tags.SecondaryText, tview.Escape(orDefault(link, "-")))
	return b.String()
}

// filterText renders the filter modal body with the focused row marked.
func filterText(s State, tags ThemeTags) string {
	fields := []filter.Field{filter.FieldAssignee, filter.FieldStatus, filter.FieldOrderBy}
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n\n")
		}
		marker := "  "
		color := tags.Foreground
		if f == s.FilterFocus {
			marker = tags.Accent + "▸[-] "
			color = tags.Accent
		}
		fmt.Fprintf(&b, "%s%s%-10s[-] ◂ %s ▸", marker, color, f.String(), tview.Escape(s.FilterDraft.Value(f)))
	}
	return b.String()
}

// worklogFormText renders the worklog modal body.
func worklogFormText(form WorklogForm, tags ThemeTags) string {
	field := func(f WorklogField, width int) string {
		var text string
		if f == FieldComment {
			text = tview.Escape(form.Comment)
		} else {
			text = fmt.Sprintf("%0*d", width, form.Value(f))
		}
		if form.Focus == f {
			return fmt.Sprintf("%s[::u]%s[::-]_[-]", tags.Accent, text)
		}
		return text
	}

	title := "Log time"
	if form.Editing != nil {
		title = "Edit worklog"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s on %s[-]\n\n", tags.SecondaryText, title, form.IssueKey)
	fmt.Fprintf(&b, "Date      %s/%s/%s\n", field(FieldDay, 2), field(FieldMonth, 2), field(FieldYear, 4))
	fmt.Fprintf(&b, "Time      %s:%s\n", field(FieldHour, 2), field(FieldMinute, 2))
	fmt.Fprintf(&b, "Duration  %sh %sm\n", field(FieldDurationHours, 1), field(FieldDurationMinutes, 1))
	fmt.Fprintf(&b, "Comment   %s", field(FieldComment, 0))
	if form.Submitting {
		fmt.Fprintf(&b, "\n\n%sSending...[-]", tags.Warning)
	}
	return b.String()
}

// notificationText renders the notification overlay.
func notificationText(n Notification, tags ThemeTags) string {
	color := tags.Success
	icon := "✓"
	if !n.Success {
		color = tags.Error
		icon = "✗"
	}
	text := fmt.Sprintf("%s%s %s[-]", color, icon, tview.Escape(n.Title))
	if n.Message != "" {
		text += "\n" + tview.Escape(n.Message)
	}
	return text
}

// headerText is the breadcrumb line above the body.
func headerText(s State, tags ThemeTags, loading string) string {
	parts := []string{tags.Accent + "jira-tui[-]"}
	switch baseScreen(s) {
	case ScreenBoardList:
		parts = append(parts, fmt.Sprintf("Boards (%d)", len(s.Boards)))
	case ScreenBacklog, ScreenIssueDetail:
		if board, ok := s.ActiveBoard(); ok {
			name := board.Name
			if name == "" {
				name = fmt.Sprintf("Board %d", board.ID)
			}
			parts = append(parts, tview.Escape(name))
		}
		parts = append(parts, fmt.Sprintf("%d/%d issues", len(s.Issues), s.TotalIssues))
		if baseScreen(s) == ScreenIssueDetail {
			if issue, ok := s.CurrentIssue(); ok {
				parts = append(parts, issue.Key)
			}
		}
	}
	text := strings.Join(parts, tags.Border+" › [-]")
	if loading != "" {
		text += fmt.Sprintf("  %s%s loading[-]", tags.Warning, loading)
	}
	return text
}

// statusBarText lists the key hints for the current screen and the applied
// filter.
func statusBarText(s State, tags ThemeTags) string {
	keyColor := tags.SecondaryText
	var hints []string
	for _, cmd := range ScreenCommands(s.Screen) {
		if cmd.Title == "" {
			continue
		}
		hints = append(hints, fmt.Sprintf("%s: %s", cmd.Shortcut(), cmd.Title))
	}
	sep := fmt.Sprintf("%s | [-]", tags.Border)
	text := keyColor + strings.Join(hints, " | ") + "[-]"

	if s.Screen == ScreenBacklog || s.Screen == ScreenIssueDetail {
		f := s.Filter
		text += sep + fmt.Sprintf("%sAssignee: %s · Status: %s · %s[-]",
			tags.Accent, f.Assignee, f.Status, f.Order)
	}
	return text
}
