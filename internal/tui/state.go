package tui

import (
	"github.com/roeyazroel/jira-tui/internal/filter"
	"github.com/roeyazroel/jira-tui/internal/jiraapi"
)

// Screen identifies what the user is looking at.
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenBoardList
	ScreenBacklog
	ScreenIssueDetail
	ScreenFilterModal
	ScreenWorklogModal
	ScreenWorklogListModal
)

func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "dashboard"
	case ScreenBoardList:
		return "boards"
	case ScreenBacklog:
		return "backlog"
	case ScreenIssueDetail:
		return "issue"
	case ScreenFilterModal:
		return "filter"
	case ScreenWorklogModal:
		return "worklog"
	case ScreenWorklogListModal:
		return "worklogs"
	default:
		return "unknown"
	}
}

// IsModal reports whether the screen is drawn over another one.
func (s Screen) IsModal() bool {
	return s == ScreenFilterModal || s == ScreenWorklogModal || s == ScreenWorklogListModal
}

// Notification is a transient message shown after a mutation.
type Notification struct {
	ID      uint64
	Title   string
	Message string
	Success bool
}

// State is the whole application state. It is owned by the controller loop
// and only changes through Apply. Slices are never mutated in place, so a
// State value handed to the renderer stays valid.
type State struct {
	Screen Screen
	// Previous is where a modal returns to when it closes. Modals do not nest,
	// so one slot is enough.
	Previous    Screen
	HasPrevious bool

	Boards        []jiraapi.Board
	SelectedBoard int

	Issues        []jiraapi.Issue
	SelectedIssue int
	TotalIssues   int
	BoardID       uint64
	HasBoard      bool
	// Loading guards board and issue fetches, including infinite scroll.
	Loading bool
	// IssueGen tags issue fetches; responses from an older generation are dropped.
	IssueGen uint64

	Scroll int

	// Filter is the applied selection; FilterDraft is edited in the modal.
	Filter      filter.Selection
	FilterDraft filter.Selection
	FilterFocus filter.Field

	Form WorklogForm

	Worklogs        []jiraapi.WorklogEntry
	SelectedWorklog int
	TotalWorklogs   int
	WorklogsLoading bool
	WorklogGen      uint64

	Notification    *Notification
	NotificationSeq uint64

	Quit bool
}

// NewState returns the startup state: dashboard, nothing loaded, default filter.
func NewState() State {
	return State{
		Screen:      ScreenDashboard,
		Filter:      filter.Default(),
		FilterDraft: filter.Default(),
	}
}

// CurrentBoard returns the highlighted board.
func (s State) CurrentBoard() (jiraapi.Board, bool) {
	if s.SelectedBoard < 0 || s.SelectedBoard >= len(s.Boards) {
		return jiraapi.Board{}, false
	}
	return s.Boards[s.SelectedBoard], true
}

// ActiveBoard returns the board whose backlog is loaded.
func (s State) ActiveBoard() (jiraapi.Board, bool) {
	if !s.HasBoard {
		return jiraapi.Board{}, false
	}
	for _, b := range s.Boards {
		if b.ID == s.BoardID {
			return b, true
		}
	}
	return jiraapi.Board{ID: s.BoardID}, true
}

// CurrentIssue returns the highlighted issue.
func (s State) CurrentIssue() (jiraapi.Issue, bool) {
	if s.SelectedIssue < 0 || s.SelectedIssue >= len(s.Issues) {
		return jiraapi.Issue{}, false
	}
	return s.Issues[s.SelectedIssue], true
}

// CurrentWorklog returns the highlighted worklog entry.
func (s State) CurrentWorklog() (jiraapi.WorklogEntry, bool) {
	if s.SelectedWorklog < 0 || s.SelectedWorklog >= len(s.Worklogs) {
		return jiraapi.WorklogEntry{}, false
	}
	return s.Worklogs[s.SelectedWorklog], true
}

// IssueFilter compiles the applied filter selection.
func (s State) IssueFilter() jiraapi.IssueFilter {
	return s.Filter.Compile()
}

// returnScreen is where the current modal goes back to, falling back to def.
func (s State) returnScreen(def Screen) Screen {
	if s.HasPrevious {
		return s.Previous
	}
	return def
}

// pushModal opens screen on top of the current one.
func (s State) pushModal(screen Screen) State {
	s.Previous = s.Screen
	s.HasPrevious = true
	s.Screen = screen
	return s
}

// popModal closes the current modal.
func (s State) popModal(def Screen) State {
	s.Screen = s.returnScreen(def)
	s.HasPrevious = false
	return s
}
