package tui

import (
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/roeyazroel/jira-tui/internal/filter"
)

// FormatShortcut returns a human-readable string for a shortcut.
func FormatShortcut(r rune) string {
	if r == 0 {
		return ""
	}
	return strings.ToUpper(string(r))
}

// Command is one key binding on a screen.
type Command struct {
	ID              string
	Title           string
	ShortcutRune    rune   // Primary rune, shown in the status bar
	AltRunes        []rune // Extra runes bound to the same command
	Keys            []tcell.Key
	ShortcutDisplay string // Overrides the ShortcutRune display (e.g. "Esc")
	// Build returns the action for the key, or nil when the command does not
	// apply to s.
	Build func(s State, now time.Time) Action
}

// Shortcut is the label shown for the command in the status bar.
func (c Command) Shortcut() string {
	if c.ShortcutDisplay != "" {
		return c.ShortcutDisplay
	}
	return FormatShortcut(c.ShortcutRune)
}

// Matches reports whether ev triggers the command.
func (c Command) Matches(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if c.ShortcutRune != 0 && r == c.ShortcutRune {
			return true
		}
		for _, alt := range c.AltRunes {
			if r == alt {
				return true
			}
		}
		return false
	}
	for _, k := range c.Keys {
		if ev.Key() == k {
			return true
		}
	}
	return false
}

func always(a Action) func(State, time.Time) Action {
	return func(State, time.Time) Action { return a }
}

var (
	cmdQuit = Command{ID: "quit", Title: "quit", ShortcutRune: 'q', Build: always(Quit{})}
	cmdNext = Command{
		ID: "next", Title: "navigate", ShortcutDisplay: "j/k",
		ShortcutRune: 'j', Keys: []tcell.Key{tcell.KeyDown},
		Build: always(SelectNext{}),
	}
	cmdPrev = Command{
		ID: "previous", ShortcutRune: 'k', Keys: []tcell.Key{tcell.KeyUp},
		Build: always(SelectPrevious{}),
	}
	cmdCopyKey = Command{ID: "copy_key", Title: "copy key", ShortcutRune: 'y', Build: always(CopyIssueKey{})}
)

// boardCommands serve the dashboard and the board list.
var boardCommands = []Command{
	{
		ID: "open_backlog", Title: "open backlog", ShortcutDisplay: "Enter",
		Keys: []tcell.Key{tcell.KeyEnter},
		Build: func(s State, _ time.Time) Action {
			board, ok := s.CurrentBoard()
			if !ok {
				return nil
			}
			return LoadIssues{BoardID: board.ID}
		},
	},
	{ID: "load_boards", Title: "reload boards", ShortcutRune: 'b', Build: always(LoadBoards{})},
	cmdNext,
	cmdPrev,
	cmdQuit,
}

var backlogCommands = []Command{
	{
		ID: "view_issue", Title: "details", ShortcutDisplay: "Enter",
		Keys:  []tcell.Key{tcell.KeyEnter},
		Build: always(ViewIssueDetail{}),
	},
	{ID: "filter", Title: "filter", ShortcutRune: 'f', Build: always(OpenFilterModal{})},
	cmdCopyKey,
	{
		ID: "boards", Title: "boards", ShortcutDisplay: "Esc/b",
		ShortcutRune: 'b', Keys: []tcell.Key{tcell.KeyEscape},
		Build: always(GoToBoards{}),
	},
	cmdNext,
	cmdPrev,
	cmdQuit,
}

var issueDetailCommands = []Command{
	{
		ID: "log_time", Title: "log time", ShortcutRune: 'w',
		Build: func(_ State, now time.Time) Action { return OpenWorklogModal{Now: now} },
	},
	{ID: "worklogs", Title: "worklogs", ShortcutRune: 'l', Build: always(OpenWorklogListModal{})},
	cmdCopyKey,
	{
		ID: "back", Title: "back", ShortcutDisplay: "Esc",
		Keys:  []tcell.Key{tcell.KeyEscape},
		Build: always(GoToBacklog{}),
	},
	{
		ID: "scroll_down", Title: "scroll", ShortcutDisplay: "j/k",
		ShortcutRune: 'j', Keys: []tcell.Key{tcell.KeyDown},
		Build: always(SelectNext{}),
	},
	cmdPrev,
	cmdQuit,
}

var filterCommands = []Command{
	{
		ID: "apply_filter", Title: "apply", ShortcutDisplay: "Enter",
		Keys:  []tcell.Key{tcell.KeyEnter},
		Build: always(ApplyFilter{}),
	},
	{
		ID: "next_field", Title: "field", ShortcutDisplay: "Tab/j/k",
		ShortcutRune: 'j', Keys: []tcell.Key{tcell.KeyTab, tcell.KeyDown},
		Build: always(NextFilterField{}),
	},
	{
		ID: "previous_field", ShortcutRune: 'k',
		Keys:  []tcell.Key{tcell.KeyBacktab, tcell.KeyUp},
		Build: always(PreviousFilterField{}),
	},
	{
		ID: "cycle_value", Title: "change", ShortcutDisplay: "h/l",
		ShortcutRune: 'l', AltRunes: []rune{'h'},
		Keys:  []tcell.Key{tcell.KeyLeft, tcell.KeyRight},
		Build: cycleFocusedFilter,
	},
	{
		ID: "close_filter", Title: "close", ShortcutDisplay: "Esc",
		Keys:  []tcell.Key{tcell.KeyEscape},
		Build: always(CloseFilterModal{}),
	},
	cmdQuit,
}

var worklogFormCommands = []Command{
	{
		ID: "submit_worklog", Title: "submit", ShortcutDisplay: "Enter",
		Keys:  []tcell.Key{tcell.KeyEnter},
		Build: always(SubmitWorklog{}),
	},
	{
		ID: "next_field", Title: "field", ShortcutDisplay: "Tab/↑↓",
		Keys:  []tcell.Key{tcell.KeyTab, tcell.KeyDown},
		Build: always(NextWorklogField{}),
	},
	{
		ID:    "previous_field",
		Keys:  []tcell.Key{tcell.KeyBacktab, tcell.KeyUp},
		Build: always(PreviousWorklogField{}),
	},
	{
		ID: "delete_char", Title: "delete", ShortcutDisplay: "Bksp",
		Keys:  []tcell.Key{tcell.KeyBackspace, tcell.KeyBackspace2},
		Build: always(DeleteWorklogChar{}),
	},
	{
		ID: "close_worklog", Title: "cancel", ShortcutDisplay: "Esc",
		Keys:  []tcell.Key{tcell.KeyEscape},
		Build: always(CloseWorklogModal{}),
	},
}

var worklogListCommands = []Command{
	{
		ID: "edit_worklog", Title: "edit", ShortcutDisplay: "Enter/e",
		ShortcutRune: 'e', Keys: []tcell.Key{tcell.KeyEnter},
		Build: func(_ State, now time.Time) Action { return SelectWorklogForEdit{Location: now.Location()} },
	},
	{ID: "delete_worklog", Title: "delete", ShortcutRune: 'd', Build: always(SelectWorklogForDelete{})},
	{
		ID: "close_worklogs", Title: "close", ShortcutDisplay: "Esc",
		Keys:  []tcell.Key{tcell.KeyEscape},
		Build: always(CloseWorklogListModal{}),
	},
	cmdNext,
	cmdPrev,
	cmdQuit,
}

// ScreenCommands returns the key bindings active on screen, in the order they
// are listed in the status bar.
func ScreenCommands(screen Screen) []Command {
	switch screen {
	case ScreenDashboard, ScreenBoardList:
		return boardCommands
	case ScreenBacklog:
		return backlogCommands
	case ScreenIssueDetail:
		return issueDetailCommands
	case ScreenFilterModal:
		return filterCommands
	case ScreenWorklogModal:
		return worklogFormCommands
	case ScreenWorklogListModal:
		return worklogListCommands
	default:
		return nil
	}
}

// cycleFocusedFilter rotates whichever filter field has focus.
func cycleFocusedFilter(s State, _ time.Time) Action {
	switch s.FilterFocus {
	case filter.FieldAssignee:
		return CycleAssignee{}
	case filter.FieldStatus:
		return CycleStatus{}
	default:
		return CycleOrderBy{}
	}
}
