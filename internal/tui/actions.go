package tui

import (
	"time"

	"github.com/roeyazroel/jira-tui/internal/jiraapi"
)

// Action is an intent or a completion event applied to State. The set is
// closed: only types in this file implement it.
type Action interface {
	isAction()
}

// Lifecycle.
type (
	Tick   struct{}
	Quit   struct{}
	Resize struct{ Width, Height int }
)

// Navigation.
type (
	GoToBoards      struct{}
	GoToBacklog     struct{}
	SelectNext      struct{}
	SelectPrevious  struct{}
	ViewIssueDetail struct{}
)

// Boards and issues.
type (
	LoadBoards       struct{}
	BoardsLoaded     struct{ Boards []jiraapi.Board }
	BoardsLoadFailed struct{ Err error }

	LoadIssues struct{ BoardID uint64 }
	// LoadMoreIssues fetches the page after the loaded issues.
	LoadMoreIssues struct{}
	IssuesLoaded   struct {
		Gen  uint64
		Page jiraapi.Page[jiraapi.Issue]
	}
	IssuesLoadFailed struct {
		Gen uint64
		Err error
	}

	CopyIssueKey struct{}
)

// Filter modal.
type (
	OpenFilterModal     struct{}
	CloseFilterModal    struct{}
	NextFilterField     struct{}
	PreviousFilterField struct{}
	CycleAssignee       struct{}
	CycleStatus         struct{}
	CycleOrderBy        struct{}
	ApplyFilter         struct{}
)

// Worklog form.
type (
	// OpenWorklogModal seeds the date and time fields from Now.
	OpenWorklogModal     struct{ Now time.Time }
	CloseWorklogModal    struct{}
	NextWorklogField     struct{}
	PreviousWorklogField struct{}
	InputWorklogDigit    struct{ Digit int }
	InputWorklogChar     struct{ Char rune }
	DeleteWorklogChar    struct{}
	SubmitWorklog        struct{}
	WorklogSubmitted     struct{}
	WorklogUpdated       struct{}
	// WorklogSubmitFailed reopens the form for another attempt.
	WorklogSubmitFailed  struct{}
)

// Worklog list.
type (
	OpenWorklogListModal  struct{}
	CloseWorklogListModal struct{}
	LoadWorklogs          struct{}
	WorklogsLoaded        struct {
		Gen  uint64
		Page jiraapi.Page[jiraapi.WorklogEntry]
	}
	WorklogsLoadFailed struct {
		Gen uint64
		Err error
	}
	// SelectWorklogForEdit seeds the form with the entry's start in Location.
	SelectWorklogForEdit   struct{ Location *time.Location }
	SelectWorklogForDelete struct{}
	WorklogDeleted         struct{}
)

// Notifications.
type (
	ShowNotification struct {
		Title   string
		Message string
		Success bool
	}
	// HideNotification clears the notification with ID, or any notification
	// when ID is zero.
	HideNotification struct{ ID uint64 }
)

func (Tick) isAction()   {}
func (Quit) isAction()   {}
func (Resize) isAction() {}

func (GoToBoards) isAction()      {}
func (GoToBacklog) isAction()     {}
func (SelectNext) isAction()      {}
func (SelectPrevious) isAction()  {}
func (ViewIssueDetail) isAction() {}

func (LoadBoards) isAction()       {}
func (BoardsLoaded) isAction()     {}
func (BoardsLoadFailed) isAction() {}
func (LoadIssues) isAction()       {}
func (LoadMoreIssues) isAction()   {}
func (IssuesLoaded) isAction()     {}
func (IssuesLoadFailed) isAction() {}
func (CopyIssueKey) isAction()     {}

func (OpenFilterModal) isAction()     {}
func (CloseFilterModal) isAction()    {}
func (NextFilterField) isAction()     {}
func (PreviousFilterField) isAction() {}
func (CycleAssignee) isAction()       {}
func (CycleStatus) isAction()         {}
func (CycleOrderBy) isAction()        {}
func (ApplyFilter) isAction()         {}

func (OpenWorklogModal) isAction()     {}
func (CloseWorklogModal) isAction()    {}
func (NextWorklogField) isAction()     {}
func (PreviousWorklogField) isAction() {}
func (InputWorklogDigit) isAction()    {}
func (InputWorklogChar) isAction()     {}
func (DeleteWorklogChar) isAction()    {}
func (SubmitWorklog) isAction()        {}
func (WorklogSubmitted) isAction()     {}
func (WorklogUpdated) isAction()       {}
func (WorklogSubmitFailed) isAction()  {}

func (OpenWorklogListModal) isAction()   {}
func (CloseWorklogListModal) isAction()  {}
func (LoadWorklogs) isAction()           {}
func (WorklogsLoaded) isAction()         {}
func (WorklogsLoadFailed) isAction()     {}
func (SelectWorklogForEdit) isAction()   {}
func (SelectWorklogForDelete) isAction() {}
func (WorklogDeleted) isAction()         {}

func (ShowNotification) isAction() {}
func (HideNotification) isAction() {}
