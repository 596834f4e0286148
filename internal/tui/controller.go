package tui

import (
	"context"
	"time"

	"github.com/roeyazroel/jira-tui/internal/clock"
	"github.com/roeyazroel/jira-tui/internal/logger"
)

const (
	defaultTickRate = 250 * time.Millisecond
	inputBuffer     = 64
	resultBuffer    = 64
	// scrollThreshold is how close to the end of the loaded issues the
	// cursor must be before the next page is requested.
	scrollThreshold = 2
)

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Effects  EffectOptions
	TickRate time.Duration
	// Location is the zone worklog dates are entered and shown in. Defaults to
	// time.Local.
	Location *time.Location
	// Render receives a snapshot after every applied action. It is called on
	// the controller goroutine.
	Render func(State)
}

// Controller owns the application state. Its loop applies actions from key
// input, ticks and finished effects one at a time, in arrival order.
type Controller struct {
	gateway Gateway
	opts    ControllerOptions
	clock   clock.Clock

	input   chan Action
	results chan Action

	state   State
	effects *effectRunner
}

// NewController creates a controller in the startup state.
func NewController(gateway Gateway, opts ControllerOptions) *Controller {
	opts.Effects = opts.Effects.withDefaults()
	if opts.TickRate <= 0 {
		opts.TickRate = defaultTickRate
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Render == nil {
		opts.Render = func(State) {}
	}
	return &Controller{
		gateway: gateway,
		opts:    opts,
		clock:   opts.Effects.Clock,
		input:   make(chan Action, inputBuffer),
		results: make(chan Action, resultBuffer),
		state:   NewState(),
	}
}

// Now is the controller's notion of the current time, in its location.
func (c *Controller) Now() time.Time {
	return c.clock.Now().In(c.opts.Location)
}

// Dispatch queues an action from the UI. It never blocks; when the queue is
// full the action is dropped.
func (c *Controller) Dispatch(a Action) bool {
	select {
	case c.input <- a:
		return true
	default:
		logger.Warning("tui.controller: input queue full, dropped action=%T", a)
		return false
	}
}

// Run loads the board list and processes actions until Quit is applied or
// ctx is cancelled. It returns the final state. Effects still in flight are
// abandoned: their context is cancelled before Run returns.
func (c *Controller) Run(ctx context.Context) State {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.effects = newEffectRunner(ctx, c.gateway, c.results, c.opts.Effects)
	ticker := c.clock.NewTicker(c.opts.TickRate)
	defer ticker.Stop()

	logger.Info("tui.controller: started")
	c.opts.Render(c.state)
	c.step(LoadBoards{})

	for !c.state.Quit {
		select {
		case <-ctx.Done():
			logger.Info("tui.controller: context done error=%v", ctx.Err())
			return c.state
		case a := <-c.input:
			c.step(a)
		case a := <-c.results:
			c.step(a)
		case <-ticker.C:
			c.step(Tick{})
		}
	}
	logger.Info("tui.controller: stopped")
	return c.state
}

// step applies one action, starts its effects, runs the infinite-scroll guard
// and renders.
func (c *Controller) step(a Action) {
	c.apply(a)
	if needsNextPage(c.state) {
		logger.Debug("tui.controller: requesting next page loaded=%d total=%d", len(c.state.Issues), c.state.TotalIssues)
		c.apply(LoadMoreIssues{})
	}
	c.opts.Render(c.state)
}

func (c *Controller) apply(a Action) {
	prev := c.state
	c.state = Apply(prev, a)
	if _, ok := a.(Tick); !ok {
		logger.Debug("tui.controller: applied action=%T screen=%s", a, c.state.Screen)
	}
	c.effects.Run(a, prev, c.state)
}

// needsNextPage reports whether the backlog cursor is close enough to the end
// of a partially loaded list to fetch more. Loading is set synchronously by
// LoadMoreIssues, so the guard cannot fire twice for one page.
func needsNextPage(s State) bool {
	return s.Screen == ScreenBacklog &&
		s.HasBoard &&
		!s.Loading &&
		len(s.Issues) > 0 &&
		len(s.Issues) < s.TotalIssues &&
		s.SelectedIssue+scrollThreshold >= len(s.Issues)
}
