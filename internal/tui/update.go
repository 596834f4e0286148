package tui

import (
	"slices"

	"github.com/roeyazroel/jira-tui/internal/filter"
)

// Apply returns the state after action. It performs no I/O. Actions that do
// not apply to the current screen leave the state unchanged.
func Apply(s State, action Action) State {
	switch a := action.(type) {
	case Tick, Resize:
		return s
	case Quit:
		s.Quit = true
		return s

	case GoToBoards:
		s.Screen = ScreenBoardList
		s.HasPrevious = false
		s.Scroll = 0
		return s
	case GoToBacklog:
		s.Screen = ScreenBacklog
		s.HasPrevious = false
		s.Scroll = 0
		return s
	case SelectNext:
		return moveSelection(s, 1)
	case SelectPrevious:
		return moveSelection(s, -1)
	case ViewIssueDetail:
		if s.Screen != ScreenBacklog || len(s.Issues) == 0 {
			return s
		}
		s.Screen = ScreenIssueDetail
		s.Scroll = 0
		return s

	case LoadBoards:
		s.Loading = true
		return s
	case BoardsLoaded:
		s.Boards = a.Boards
		s.SelectedBoard = 0
		s.Loading = false
		s.Screen = ScreenBoardList
		s.HasPrevious = false
		return s
	case BoardsLoadFailed:
		s.Loading = false
		return s

	case LoadIssues:
		s.Issues = nil
		s.SelectedIssue = 0
		s.TotalIssues = 0
		s.Scroll = 0
		s.BoardID = a.BoardID
		s.HasBoard = true
		s.Loading = true
		s.IssueGen++
		s.Screen = ScreenBacklog
		s.HasPrevious = false
		return s
	case LoadMoreIssues:
		if !s.HasBoard || s.Loading {
			return s
		}
		s.Loading = true
		return s
	case IssuesLoaded:
		if a.Gen != s.IssueGen {
			return s
		}
		return applyIssuesPage(s, a)
	case IssuesLoadFailed:
		if a.Gen != s.IssueGen {
			return s
		}
		s.Loading = false
		return s
	case CopyIssueKey:
		return s

	case OpenFilterModal:
		if s.Screen != ScreenBacklog {
			return s
		}
		s = s.pushModal(ScreenFilterModal)
		s.FilterDraft = s.Filter
		s.FilterFocus = 0
		return s
	case CloseFilterModal:
		if s.Screen != ScreenFilterModal {
			return s
		}
		return s.popModal(ScreenBacklog)
	case NextFilterField:
		if s.Screen == ScreenFilterModal {
			s.FilterFocus = s.FilterFocus.Next()
		}
		return s
	case PreviousFilterField:
		if s.Screen == ScreenFilterModal {
			s.FilterFocus = s.FilterFocus.Prev()
		}
		return s
	case CycleAssignee:
		return cycleFilter(s, filter.FieldAssignee)
	case CycleStatus:
		return cycleFilter(s, filter.FieldStatus)
	case CycleOrderBy:
		return cycleFilter(s, filter.FieldOrderBy)
	case ApplyFilter:
		if s.Screen != ScreenFilterModal {
			return s
		}
		s = s.popModal(ScreenBacklog)
		s.Filter = s.FilterDraft
		if s.HasBoard {
			s.Loading = true
			s.IssueGen++
			s.Scroll = 0
		}
		return s

	case OpenWorklogModal:
		if s.Screen != ScreenIssueDetail {
			return s
		}
		issue, ok := s.CurrentIssue()
		if !ok {
			return s
		}
		s = s.pushModal(ScreenWorklogModal)
		s.Form = newWorklogForm(issue.Key, a.Now)
		return s
	case CloseWorklogModal, WorklogSubmitted:
		if s.Screen != ScreenWorklogModal {
			return s
		}
		s = s.popModal(ScreenIssueDetail)
		s.Form = WorklogForm{}
		return s
	case WorklogUpdated:
		if s.Screen == ScreenWorklogModal {
			s = s.popModal(ScreenIssueDetail)
			s.Form = WorklogForm{}
		}
		return startWorklogReload(s)
	case NextWorklogField:
		if s.Screen == ScreenWorklogModal {
			s.Form.Focus = s.Form.Focus.Next()
		}
		return s
	case PreviousWorklogField:
		if s.Screen == ScreenWorklogModal {
			s.Form.Focus = s.Form.Focus.Prev()
		}
		return s
	case InputWorklogDigit:
		if s.Screen == ScreenWorklogModal {
			s.Form = s.Form.InputDigit(a.Digit)
		}
		return s
	case InputWorklogChar:
		if s.Screen == ScreenWorklogModal {
			s.Form = s.Form.InputChar(a.Char)
		}
		return s
	case DeleteWorklogChar:
		if s.Screen == ScreenWorklogModal {
			s.Form = s.Form.DeleteChar()
		}
		return s
	case SubmitWorklog:
		if s.Screen != ScreenWorklogModal || s.Form.Submitting {
			return s
		}
		if _, err := s.Form.Compose(); err == nil {
			s.Form.Submitting = true
		}
		return s
	case WorklogSubmitFailed:
		if s.Screen == ScreenWorklogModal {
			s.Form.Submitting = false
		}
		return s

	case OpenWorklogListModal:
		if s.Screen != ScreenIssueDetail {
			return s
		}
		if _, ok := s.CurrentIssue(); !ok {
			return s
		}
		s = s.pushModal(ScreenWorklogListModal)
		s.Worklogs = nil
		s.SelectedWorklog = 0
		s.TotalWorklogs = 0
		s.WorklogsLoading = true
		s.WorklogGen++
		return s
	case CloseWorklogListModal:
		if s.Screen != ScreenWorklogListModal {
			return s
		}
		s.Screen = ScreenIssueDetail
		s.HasPrevious = false
		s.Worklogs = nil
		s.SelectedWorklog = 0
		s.TotalWorklogs = 0
		s.WorklogsLoading = false
		return s
	case LoadWorklogs, WorklogDeleted:
		return startWorklogReload(s)
	case WorklogsLoaded:
		if a.Gen != s.WorklogGen {
			return s
		}
		s.Worklogs = a.Page.Items
		s.TotalWorklogs = max(a.Page.Total, len(a.Page.Items))
		s.SelectedWorklog = clampIndex(s.SelectedWorklog, len(s.Worklogs))
		s.WorklogsLoading = false
		return s
	case WorklogsLoadFailed:
		if a.Gen != s.WorklogGen {
			return s
		}
		s.WorklogsLoading = false
		return s
	case SelectWorklogForEdit:
		if s.Screen != ScreenWorklogListModal {
			return s
		}
		entry, ok := s.CurrentWorklog()
		if !ok {
			return s
		}
		issue, _ := s.CurrentIssue()
		s = s.pushModal(ScreenWorklogModal)
		s.Form = editWorklogForm(issue.Key, entry, a.Location)
		return s
	case SelectWorklogForDelete:
		return s

	case ShowNotification:
		s.NotificationSeq++
		s.Notification = &Notification{
			ID:      s.NotificationSeq,
			Title:   a.Title,
			Message: a.Message,
			Success: a.Success,
		}
		return s
	case HideNotification:
		if s.Notification == nil {
			return s
		}
		if a.ID != 0 && a.ID != s.Notification.ID {
			return s
		}
		s.Notification = nil
		return s
	}
	return s
}

// cycleFilter rotates one field of the draft filter while the modal is open.
func cycleFilter(s State, field filter.Field) State {
	if s.Screen == ScreenFilterModal {
		s.FilterDraft = s.FilterDraft.Cycle(field)
	}
	return s
}

// applyIssuesPage replaces the issues for a first page and appends otherwise.
func applyIssuesPage(s State, a IssuesLoaded) State {
	page := a.Page
	if page.StartAt == 0 {
		s.Issues = page.Items
		s.SelectedIssue = 0
		s.Scroll = 0
	} else {
		// Clip forces a copy so earlier State values keep their slice.
		s.Issues = append(slices.Clip(s.Issues), page.Items...)
	}

	total := page.Total
	if len(page.Items) == 0 || total < len(s.Issues) {
		// An empty page or an undercounted total ends pagination.
		total = len(s.Issues)
	}
	s.TotalIssues = total
	s.SelectedIssue = clampIndex(s.SelectedIssue, len(s.Issues))
	s.Loading = false
	return s
}

// startWorklogReload marks the worklog list as refreshing under a new
// generation when the list is open.
func startWorklogReload(s State) State {
	if s.Screen != ScreenWorklogListModal {
		return s
	}
	s.WorklogsLoading = true
	s.WorklogGen++
	return s
}

// moveSelection moves the cursor of the current list, or scrolls the detail
// view. Cursors clamp at both ends.
func moveSelection(s State, delta int) State {
	switch s.Screen {
	case ScreenDashboard, ScreenBoardList:
		s.SelectedBoard = clampIndex(s.SelectedBoard+delta, len(s.Boards))
	case ScreenBacklog:
		s.SelectedIssue = clampIndex(s.SelectedIssue+delta, len(s.Issues))
	case ScreenIssueDetail:
		s.Scroll = max(s.Scroll+delta, 0)
	case ScreenWorklogListModal:
		s.SelectedWorklog = clampIndex(s.SelectedWorklog+delta, len(s.Worklogs))
	}
	return s
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
