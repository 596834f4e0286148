package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/roeyazroel/jira-tui/internal/clock"
	"github.com/roeyazroel/jira-tui/internal/jiraapi"
	"github.com/roeyazroel/jira-tui/internal/logger"
)

// Gateway is the remote tracker as seen by the controller. *jiraapi.Client
// implements it.
type Gateway interface {
	ListBoards(ctx context.Context) ([]jiraapi.Board, error)
	ListIssues(ctx context.Context, boardID uint64, startAt, maxResults int, filter jiraapi.IssueFilter) (jiraapi.Page[jiraapi.Issue], error)
	AddWorklog(ctx context.Context, w jiraapi.Worklog) error
	ListWorklogs(ctx context.Context, issueKey string, startAt, maxResults int) (jiraapi.Page[jiraapi.WorklogEntry], error)
	UpdateWorklog(ctx context.Context, issueKey, worklogID string, w jiraapi.Worklog) error
	DeleteWorklog(ctx context.Context, issueKey, worklogID string) error
	// BrowseURL is the web link shown for an issue.
	BrowseURL(issueKey string) string
}

const (
	successDismiss = 3 * time.Second
	failureDismiss = 5 * time.Second
)

// EffectOptions configures the effect runner. Zero values take defaults.
type EffectOptions struct {
	PageSize        int
	WorklogPageSize int
	Timeout         time.Duration
	Clock           clock.Clock
	// CopyText writes to the system clipboard.
	CopyText func(string) error
}

func (o EffectOptions) withDefaults() EffectOptions {
	if o.PageSize <= 0 {
		o.PageSize = 20
	}
	if o.WorklogPageSize <= 0 {
		o.WorklogPageSize = 50
	}
	if o.Timeout <= 0 {
		o.Timeout = jiraapi.DefaultTimeout
	}
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.CopyText == nil {
		o.CopyText = clipboard.WriteAll
	}
	return o
}

// effectRunner launches the background work an applied action calls for. Each
// job reports back by sending actions on results; it never touches State.
type effectRunner struct {
	ctx     context.Context
	gateway Gateway
	results chan<- Action
	opts    EffectOptions
	wg      sync.WaitGroup
}

func newEffectRunner(ctx context.Context, gateway Gateway, results chan<- Action, opts EffectOptions) *effectRunner {
	return &effectRunner{
		ctx:     ctx,
		gateway: gateway,
		results: results,
		opts:    opts.withDefaults(),
	}
}

// Run starts the effects for action, given the states before and after it was
// applied. Issue and worklog fetches key off generation changes so every path
// that starts a fresh load is covered.
func (r *effectRunner) Run(action Action, prev, next State) {
	if next.IssueGen != prev.IssueGen && next.HasBoard {
		r.fetchIssues(next.BoardID, 0, next.IssueGen, next.IssueFilter())
	}
	if next.WorklogGen != prev.WorklogGen {
		if issue, ok := next.CurrentIssue(); ok {
			r.fetchWorklogs(issue.Key, next.WorklogGen)
		}
	}

	switch action.(type) {
	case LoadBoards:
		r.fetchBoards()
	case LoadMoreIssues:
		if !prev.Loading && next.Loading {
			r.fetchIssues(next.BoardID, len(next.Issues), next.IssueGen, next.IssueFilter())
		}
	case SubmitWorklog:
		if prev.Screen != ScreenWorklogModal || prev.Form.Submitting {
			return
		}
		if next.Form.Submitting {
			r.submitWorklog(next.Form)
		} else {
			r.rejectWorklog(next.Form)
		}
	case SelectWorklogForDelete:
		if prev.Screen != ScreenWorklogListModal {
			return
		}
		entry, ok := prev.CurrentWorklog()
		issue, hasIssue := prev.CurrentIssue()
		if ok && hasIssue {
			r.deleteWorklog(issue.Key, entry)
		}
	case CopyIssueKey:
		if issue, ok := prev.CurrentIssue(); ok && (prev.Screen == ScreenBacklog || prev.Screen == ScreenIssueDetail) {
			r.copyIssueKey(issue.Key)
		}
	case ShowNotification:
		if next.Notification != nil {
			r.scheduleDismiss(*next.Notification)
		}
	case Quit:
		logger.Info("tui.effects: quit requested")
	}
}

// Wait blocks until every spawned job has returned.
func (r *effectRunner) Wait() {
	r.wg.Wait()
}

// send delivers an action unless the controller has stopped.
func (r *effectRunner) send(a Action) bool {
	select {
	case r.results <- a:
		return true
	case <-r.ctx.Done():
		return false
	}
}

// spawn runs job in a goroutine with a per-call timeout.
func (r *effectRunner) spawn(name string, job func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(r.ctx, r.opts.Timeout)
		defer cancel()
		logger.Debug("tui.effects: start job=%s", name)
		job(ctx)
	}()
}

func (r *effectRunner) fetchBoards() {
	r.spawn("list_boards", func(ctx context.Context) {
		boards, err := r.gateway.ListBoards(ctx)
		if err != nil {
			logger.ErrorWithErr(err, "tui.effects: failed to load boards")
			r.send(BoardsLoadFailed{Err: err})
			return
		}
		logger.Debug("tui.effects: loaded boards count=%d", len(boards))
		r.send(BoardsLoaded{Boards: boards})
	})
}

func (r *effectRunner) fetchIssues(boardID uint64, startAt int, gen uint64, filter jiraapi.IssueFilter) {
	pageSize := r.opts.PageSize
	r.spawn("list_issues", func(ctx context.Context) {
		page, err := r.gateway.ListIssues(ctx, boardID, startAt, pageSize, filter)
		if err != nil {
			logger.ErrorWithErr(err, "tui.effects: failed to load issues board=%d start_at=%d", boardID, startAt)
			r.send(IssuesLoadFailed{Gen: gen, Err: err})
			return
		}
		logger.Debug("tui.effects: loaded issues board=%d start_at=%d count=%d total=%d gen=%d",
			boardID, page.StartAt, len(page.Items), page.Total, gen)
		r.send(IssuesLoaded{Gen: gen, Page: page})
	})
}

func (r *effectRunner) fetchWorklogs(issueKey string, gen uint64) {
	pageSize := r.opts.WorklogPageSize
	r.spawn("list_worklogs", func(ctx context.Context) {
		page, err := r.gateway.ListWorklogs(ctx, issueKey, 0, pageSize)
		if err != nil {
			logger.ErrorWithErr(err, "tui.effects: failed to load worklogs issue=%s", issueKey)
			r.send(WorklogsLoadFailed{Gen: gen, Err: err})
			return
		}
		r.send(WorklogsLoaded{Gen: gen, Page: page})
	})
}

// rejectWorklog reports why a form failed local validation. The notification
// goes out from a job so the controller never sends to its own queue.
func (r *effectRunner) rejectWorklog(form WorklogForm) {
	_, err := form.Compose()
	if err == nil {
		return
	}
	logger.Warning("tui.effects: worklog rejected issue=%s error=%v", form.IssueKey, err)
	r.spawn("reject_worklog", func(context.Context) {
		r.notify(false, "Invalid worklog", err.Error())
	})
}

func (r *effectRunner) submitWorklog(form WorklogForm) {
	worklog, err := form.Compose()
	if err != nil {
		r.spawn("reject_worklog", func(context.Context) {
			r.send(WorklogSubmitFailed{})
			r.notify(false, "Invalid worklog", err.Error())
		})
		return
	}

	if form.Editing != nil {
		id := form.Editing.ID
		r.spawn("update_worklog", func(ctx context.Context) {
			if err := r.gateway.UpdateWorklog(ctx, worklog.IssueKey, id, worklog); err != nil {
				r.send(WorklogSubmitFailed{})
				r.notify(false, "Worklog update failed", errorText(err))
				return
			}
			r.send(WorklogUpdated{})
			r.notify(true, "Worklog updated", fmt.Sprintf("%s on %s", jiraapi.FormatDuration(worklog.TimeSpentSeconds), worklog.IssueKey))
		})
		return
	}

	r.spawn("add_worklog", func(ctx context.Context) {
		if err := r.gateway.AddWorklog(ctx, worklog); err != nil {
			r.send(WorklogSubmitFailed{})
			r.notify(false, "Worklog failed", errorText(err))
			return
		}
		r.send(WorklogSubmitted{})
		r.notify(true, "Worklog added", fmt.Sprintf("%s logged on %s", jiraapi.FormatDuration(worklog.TimeSpentSeconds), worklog.IssueKey))
	})
}

func (r *effectRunner) deleteWorklog(issueKey string, entry jiraapi.WorklogEntry) {
	r.spawn("delete_worklog", func(ctx context.Context) {
		if err := r.gateway.DeleteWorklog(ctx, issueKey, entry.ID); err != nil {
			r.notify(false, "Delete failed", errorText(err))
			return
		}
		r.send(WorklogDeleted{})
		r.notify(true, "Worklog deleted", fmt.Sprintf("%s removed from %s", jiraapi.FormatDuration(entry.TimeSpentSeconds), issueKey))
	})
}

func (r *effectRunner) copyIssueKey(key string) {
	r.spawn("copy_issue_key", func(context.Context) {
		if err := r.opts.CopyText(key); err != nil {
			logger.ErrorWithErr(err, "tui.effects: failed to copy issue key issue=%s", key)
			r.notify(false, "Copy failed", err.Error())
			return
		}
		r.notify(true, "Copied", key)
	})
}

// notify sends a notification from inside a job. The caller's goroutine
// blocks until the loop takes it, which keeps it ordered after any action the
// job sent first.
func (r *effectRunner) notify(success bool, title, message string) {
	a := ShowNotification{Title: title, Message: message, Success: success}
	if !r.send(a) {
		logger.Debug("tui.effects: dropped notification title=%q", title)
	}
}

// scheduleDismiss hides n after the window for its outcome.
func (r *effectRunner) scheduleDismiss(n Notification) {
	delay := successDismiss
	if !n.Success {
		delay = failureDismiss
	}
	id := n.ID
	r.opts.Clock.AfterFunc(delay, func() {
		r.send(HideNotification{ID: id})
	})
}

// errorText is the message shown to the user for a gateway error.
func errorText(err error) string {
	switch {
	case errors.Is(err, jiraapi.ErrUnauthorized):
		return "Unauthorized: check JIRA_EMAIL and JIRA_API_TOKEN"
	case errors.Is(err, jiraapi.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	default:
		return err.Error()
	}
}
