package tui

import (
	"context"
	"testing"
	"time"

	"github.com/roeyazroel/jira-tui/internal/clock"
	"github.com/roeyazroel/jira-tui/internal/jiraapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerHarness struct {
	ctrl   *Controller
	clock  *clock.FakeClock
	states chan State
	done   chan State
	cancel context.CancelFunc
}

func startController(t *testing.T, gw Gateway) *controllerHarness {
	t.Helper()
	h := &controllerHarness{
		clock:  clock.Fake(testStart),
		states: make(chan State, 1024),
		done:   make(chan State, 1),
	}
	h.ctrl = NewController(gw, ControllerOptions{
		Effects: EffectOptions{
			PageSize:        20,
			WorklogPageSize: 50,
			Timeout:         10 * time.Second,
			Clock:           h.clock,
			CopyText:        func(string) error { return nil },
		},
		TickRate: 250 * time.Millisecond,
		Location: time.UTC,
		Render: func(s State) {
			select {
			case h.states <- s:
			default:
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.ctrl.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-h.done:
		case <-time.After(2 * time.Second):
			t.Error("controller did not stop")
		}
	})
	return h
}

// waitFor drains rendered states until one satisfies pred.
func (h *controllerHarness) waitFor(t *testing.T, what string, pred func(State) bool) State {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case s := <-h.states:
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
			return State{}
		}
	}
}

func (h *controllerHarness) dispatch(t *testing.T, actions ...Action) {
	t.Helper()
	for _, a := range actions {
		require.True(t, h.ctrl.Dispatch(a), "dispatch %T", a)
	}
}

// TestController_StartupLoadsBoards verifies the board list is fetched on start.
func TestController_StartupLoadsBoards(t *testing.T) {
	gw := &fakeGateway{boards: []jiraapi.Board{{ID: 7, Name: "Core"}}}
	h := startController(t, gw)

	s := h.waitFor(t, "board list", func(s State) bool { return s.Screen == ScreenBoardList })
	assert.Equal(t, gw.boards, s.Boards)
	assert.False(t, s.Loading)
}

// TestController_InfiniteScrollFiresOnce verifies the scroll guard requests
// exactly one continuation page when the cursor nears the end.
func TestController_InfiniteScrollFiresOnce(t *testing.T) {
	gw := &fakeGateway{boards: []jiraapi.Board{{ID: 7}}, totalIssues: 45}
	h := startController(t, gw)
	h.waitFor(t, "board list", func(s State) bool { return s.Screen == ScreenBoardList })

	h.dispatch(t, LoadIssues{BoardID: 7})
	h.waitFor(t, "first page", func(s State) bool { return len(s.Issues) == 20 && !s.Loading })

	gw.mu.Lock()
	gw.block = make(chan struct{})
	gw.mu.Unlock()

	for i := 0; i < 18; i++ {
		h.dispatch(t, SelectNext{})
	}
	s := h.waitFor(t, "cursor at 18", func(s State) bool { return s.SelectedIssue == 18 })
	assert.True(t, s.Loading, "guard marks loading in the same step")

	h.dispatch(t, SelectNext{}, SelectPrevious{}, SelectNext{})
	h.clock.Advance(time.Second)
	h.waitFor(t, "cursor at 19", func(s State) bool { return s.SelectedIssue == 19 && s.Loading })
	require.Eventually(t, func() bool { return len(gw.issues()) >= 2 }, 2*time.Second, 5*time.Millisecond)

	calls := gw.issues()
	require.Len(t, calls, 2)
	assert.Equal(t, 0, calls[0].StartAt)
	assert.Equal(t, 20, calls[1].StartAt)

	gw.mu.Lock()
	close(gw.block)
	gw.block = nil
	gw.mu.Unlock()

	s = h.waitFor(t, "second page", func(s State) bool { return len(s.Issues) == 40 && !s.Loading })
	assert.Equal(t, 45, s.TotalIssues)
	assert.Equal(t, 19, s.SelectedIssue)
	assert.Len(t, gw.issues(), 2)
}

// TestController_QuitStopsLoop verifies Run returns once Quit is applied.
func TestController_QuitStopsLoop(t *testing.T) {
	h := startController(t, &fakeGateway{})
	h.waitFor(t, "board list", func(s State) bool { return s.Screen == ScreenBoardList })

	h.dispatch(t, Quit{})
	select {
	case final := <-h.done:
		assert.True(t, final.Quit)
		h.done <- final
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

// TestController_NotificationAutoDismiss verifies a failed delete shows an
// error that clears when the fake clock passes five seconds.
func TestController_NotificationAutoDismiss(t *testing.T) {
	gw := &fakeGateway{
		boards:      []jiraapi.Board{{ID: 1}},
		totalIssues: 1,
		worklogs:    worklogEntries(1),
		mutationErr: jiraapi.ErrNotFound,
	}
	h := startController(t, gw)
	h.waitFor(t, "board list", func(s State) bool { return s.Screen == ScreenBoardList })

	h.dispatch(t, LoadIssues{BoardID: 1})
	h.waitFor(t, "issues", func(s State) bool { return len(s.Issues) == 1 && !s.Loading })
	h.dispatch(t, ViewIssueDetail{}, OpenWorklogListModal{})
	h.waitFor(t, "worklogs", func(s State) bool { return len(s.Worklogs) == 1 && !s.WorklogsLoading })

	h.dispatch(t, SelectWorklogForDelete{})
	s := h.waitFor(t, "failure notification", func(s State) bool { return s.Notification != nil })
	assert.False(t, s.Notification.Success)

	// The ticker and the dismiss timer.
	h.clock.WaitForTimers(2)
	h.clock.Advance(5 * time.Second)
	s = h.waitFor(t, "notification hidden", func(s State) bool { return s.Notification == nil })
	assert.Equal(t, ScreenWorklogListModal, s.Screen)
}

// TestController_DispatchDropsWhenFull verifies Dispatch never blocks.
func TestController_DispatchDropsWhenFull(t *testing.T) {
	c := NewController(&fakeGateway{}, ControllerOptions{})
	for i := 0; i < inputBuffer; i++ {
		require.True(t, c.Dispatch(Tick{}))
	}
	assert.False(t, c.Dispatch(Tick{}))
}

// TestNeedsNextPage checks the guard conditions one by one.
func TestNeedsNextPage(t *testing.T) {
	near := backlogState(20, 45)
	near.SelectedIssue = 18
	assert.True(t, needsNextPage(near))

	far := near
	far.SelectedIssue = 17
	assert.False(t, needsNextPage(far))

	loading := near
	loading.Loading = true
	assert.False(t, needsNextPage(loading))

	complete := backlogState(20, 20)
	complete.SelectedIssue = 19
	assert.False(t, needsNextPage(complete))

	detail := near
	detail.Screen = ScreenIssueDetail
	assert.False(t, needsNextPage(detail))

	filterOpen := Apply(near, OpenFilterModal{})
	assert.False(t, needsNextPage(filterOpen))
}

// TestController_EditSeedsInConfiguredZone verifies the zone an edit is seeded
// in is the one its submission is composed in.
func TestController_EditSeedsInConfiguredZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	c := NewController(&fakeGateway{}, ControllerOptions{
		Effects:  EffectOptions{Clock: clock.Fake(testStart)},
		Location: tokyo,
	})
	now := c.Now()
	assert.Equal(t, tokyo, now.Location())

	list := worklogListState(1)
	edit := KeyAction(runeKey('e'), list, now)
	s := Apply(list, edit)
	require.Equal(t, ScreenWorklogModal, s.Screen)
	assert.Equal(t, 17, s.Form.Hour)

	w, err := s.Form.Compose()
	require.NoError(t, err)
	assert.True(t, w.Started.Equal(list.Worklogs[0].Started))
}
