package tui

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/roeyazroel/jira-tui/internal/config"
	"github.com/roeyazroel/jira-tui/internal/logger"
)

// Page names.
const (
	pageMain         = "main"
	pageFilter       = "filter"
	pageWorklog      = "worklog"
	pageWorklogs     = "worklogs"
	pageNotification = "notification"

	bodyDashboard = "dashboard"
	bodyBoards    = "boards"
	bodyBacklog   = "backlog"
	bodyDetail    = "detail"
)

// App wires the controller to a tview application. All widget access happens
// on the tview goroutine; the controller only hands over state snapshots.
type App struct {
	app       *tview.Application
	ctrl      *Controller
	browseURL func(issueKey string) string
	config    config.Config
	theme     Theme
	themeTags ThemeTags
	location  *time.Location

	// UI components
	pages             *tview.Pages
	body              *tview.Pages
	header            *tview.TextView
	statusBar         *tview.TextView
	dashboardView     *tview.TextView
	boardsTable       *tview.Table
	issuesTable       *tview.Table
	detailInfo        *tview.TextView
	detailDescription *tview.TextView
	filterView        *tview.TextView
	worklogFormView   *tview.TextView
	worklogsTable     *tview.Table
	notificationView  *tview.TextView

	markdown        *markdownRenderer
	spinner         spinner
	width           int
	lastDescription string

	// Latest state published by the controller (protected by snapshotMu)
	snapshotMu sync.RWMutex
	snapshot   State
	drawQueued atomic.Bool

	queueUpdateDraw func(func())

	// UI update mutex (for test safety when queueUpdateDraw executes immediately)
	uiUpdateMu sync.Mutex
}

// NewApp creates a new application instance.
func NewApp(gateway Gateway, cfg config.Config) *App {
	theme := DefaultTheme()
	a := &App{
		app:       tview.NewApplication(),
		browseURL: gateway.BrowseURL,
		config:    cfg,
		theme:     theme,
		themeTags: NewThemeTags(theme),
		location:  time.Local,
		pages:     tview.NewPages(),
		body:      tview.NewPages(),
		markdown:  newMarkdownRenderer(),
		snapshot:  NewState(),
	}
	a.queueUpdateDraw = func(f func()) {
		a.app.QueueUpdateDraw(f)
	}

	a.ctrl = NewController(gateway, ControllerOptions{
		Effects: EffectOptions{
			PageSize:        cfg.PageSize,
			WorklogPageSize: cfg.WorklogPageSize,
			Timeout:         cfg.Timeout,
		},
		TickRate: cfg.TickRate,
		Location: a.location,
		Render:   a.publish,
	})

	a.buildLayout()
	a.bindKeys()
	return a
}

// Run starts the controller and the terminal UI and blocks until the user
// quits.
func (a *App) Run() error {
	a.app.SetRoot(a.pages, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		final := a.ctrl.Run(ctx)
		logger.Debug("tui.app: controller finished screen=%s", final.Screen)
		a.app.Stop()
	}()

	if err := a.app.Run(); err != nil {
		logger.ErrorWithErr(err, "tui.app: terminal UI failed")
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}

// QueueUpdateDraw queues a UI update function to be run in the main thread.
func (a *App) QueueUpdateDraw(f func()) {
	if a.queueUpdateDraw != nil {
		a.uiUpdateMu.Lock()
		defer a.uiUpdateMu.Unlock()
		a.queueUpdateDraw(f)
		return
	}
	a.app.QueueUpdateDraw(f)
}

// publish stores s and schedules a redraw. At most one redraw is queued at a
// time; it always draws the newest snapshot.
func (a *App) publish(s State) {
	a.snapshotMu.Lock()
	a.snapshot = s
	a.snapshotMu.Unlock()

	if !a.drawQueued.CompareAndSwap(false, true) {
		return
	}
	a.QueueUpdateDraw(func() {
		a.drawQueued.Store(false)
		a.render(a.currentState())
	})
}

func (a *App) currentState() State {
	a.snapshotMu.RLock()
	defer a.snapshotMu.RUnlock()
	return a.snapshot
}

// bindKeys routes every key through the screen key map. Widgets never see
// keys directly, so their cursors only move when the state does.
func (a *App) bindKeys() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		action := KeyAction(event, a.currentState(), a.ctrl.Now())
		if action != nil {
			a.ctrl.Dispatch(action)
		}
		return nil
	})
	a.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		width, height := screen.Size()
		if width != a.width {
			a.width = width
			a.ctrl.Dispatch(Resize{Width: width, Height: height})
		}
		return false
	})
}

func (a *App) buildLayout() {
	a.header = a.newTextView()
	a.header.SetBackgroundColor(a.theme.HeaderBg)

	a.statusBar = a.newTextView()
	a.statusBar.SetBackgroundColor(a.theme.HeaderBg)

	a.dashboardView = a.newTextView()
	a.dashboardView.SetTextAlign(tview.AlignCenter)
	a.dashboardView.SetBorder(true).SetBorderColor(a.theme.Border)

	a.boardsTable = a.newTable(" Boards ")
	a.issuesTable = a.newTable(" Backlog ")

	a.detailInfo = a.newTextView()
	a.detailInfo.SetBorder(true).
		SetBorderColor(a.theme.Border).
		SetTitle(" Issue ").
		SetTitleColor(a.theme.Foreground)
	a.detailDescription = a.newTextView()
	a.detailDescription.SetWrap(true).SetWordWrap(true)
	a.detailDescription.SetBorder(true).
		SetBorderColor(a.theme.Border).
		SetTitle(" Description ").
		SetTitleColor(a.theme.Foreground)
	detail := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.detailInfo, 9, 0, false).
		AddItem(a.detailDescription, 0, 1, false)

	a.body.AddPage(bodyDashboard, a.dashboardView, true, true)
	a.body.AddPage(bodyBoards, a.boardsTable, true, false)
	a.body.AddPage(bodyBacklog, a.issuesTable, true, false)
	a.body.AddPage(bodyDetail, detail, true, false)

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(a.body, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.filterView = a.newModalText(" Filter ")
	a.worklogFormView = a.newModalText(" Worklog ")
	a.worklogsTable = a.newTable(" Worklogs ")
	a.worklogsTable.SetBackgroundColor(a.theme.HeaderBg)
	a.notificationView = a.newModalText("")

	a.pages.AddPage(pageMain, mainLayout, true, true)
	a.pages.AddPage(pageFilter, centered(a.filterView, 50, 9), true, false)
	a.pages.AddPage(pageWorklog, centered(a.worklogFormView, 56, 12), true, false)
	a.pages.AddPage(pageWorklogs, centered(a.worklogsTable, 100, 20), true, false)
	a.pages.AddPage(pageNotification, topRight(a.notificationView, 44, 4), true, false)
}

func (a *App) newTextView() *tview.TextView {
	tv := tview.NewTextView()
	tv.SetDynamicColors(true).
		SetTextColor(a.theme.Foreground).
		SetBackgroundColor(a.theme.Background)
	return tv
}

func (a *App) newModalText(title string) *tview.TextView {
	tv := a.newTextView()
	tv.SetBackgroundColor(a.theme.HeaderBg)
	tv.SetBorder(true).
		SetBorderColor(a.theme.Accent).
		SetBorderPadding(1, 0, 2, 2).
		SetTitle(title).
		SetTitleColor(a.theme.Foreground)
	return tv
}

func (a *App) newTable(title string) *tview.Table {
	table := tview.NewTable().
		SetFixed(1, 0).
		SetSelectable(true, false).
		SetSelectedStyle(tcell.StyleDefault.
			Background(a.theme.SelectionBg).
			Foreground(a.theme.SelectionText))
	table.SetBackgroundColor(a.theme.Background)
	table.SetBorder(true).
		SetBorderColor(a.theme.Border).
		SetTitle(title).
		SetTitleColor(a.theme.Foreground)
	return table
}

// centered places content in the middle of the screen.
func centered(content tview.Primitive, width, height int) *tview.Flex {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(content, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

// topRight places content in the upper right corner, below the header.
func topRight(content tview.Primitive, width, height int) *tview.Flex {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 1, 0, false).
			AddItem(content, height, 0, false).
			AddItem(nil, 0, 1, false), width, 0, false)
}

// render projects s onto the widgets. It runs on the tview goroutine.
func (a *App) render(s State) {
	loading := a.spinner.Next(s.Loading || s.WorklogsLoading)
	a.header.SetText(headerText(s, a.themeTags, loading))
	a.statusBar.SetText(statusBarText(s, a.themeTags))

	now := a.ctrl.Now()
	switch baseScreen(s) {
	case ScreenDashboard:
		a.renderDashboard(s)
	case ScreenBoardList:
		a.renderBoards(s)
	case ScreenBacklog:
		a.renderBacklog(s, now)
	case ScreenIssueDetail:
		a.renderDetail(s, now)
	}

	a.togglePage(pageFilter, s.Screen == ScreenFilterModal)
	if s.Screen == ScreenFilterModal {
		a.filterView.SetText(filterText(s, a.themeTags))
	}
	a.togglePage(pageWorklog, s.Screen == ScreenWorklogModal)
	if s.Screen == ScreenWorklogModal {
		a.worklogFormView.SetText(worklogFormText(s.Form, a.themeTags))
	}
	a.togglePage(pageWorklogs, s.Screen == ScreenWorklogListModal)
	if s.Screen == ScreenWorklogListModal {
		a.renderWorklogs(s)
	}

	a.togglePage(pageNotification, s.Notification != nil)
	if s.Notification != nil {
		a.notificationView.SetText(notificationText(*s.Notification, a.themeTags))
		if s.Notification.Success {
			a.notificationView.SetBorderColor(a.theme.Success)
		} else {
			a.notificationView.SetBorderColor(a.theme.Error)
		}
	}
}

func (a *App) togglePage(name string, visible bool) {
	if visible {
		a.pages.ShowPage(name)
		a.pages.SendToFront(name)
		if name != pageNotification && a.pages.HasPage(pageNotification) {
			a.pages.SendToFront(pageNotification)
		}
		return
	}
	a.pages.HidePage(name)
}

func (a *App) renderDashboard(s State) {
	a.body.SwitchToPage(bodyDashboard)
	text := "\n\n" + a.themeTags.Accent + "jira-tui[-]\n\n"
	if s.Loading {
		text += "Loading boards..."
	} else {
		text += "No boards loaded. Press " + a.themeTags.Accent + "b[-] to load boards, " +
			a.themeTags.Accent + "q[-] to quit."
	}
	a.dashboardView.SetText(text)
}

func (a *App) renderBoards(s State) {
	a.body.SwitchToPage(bodyBoards)
	rows := make([][]string, 0, len(s.Boards))
	for _, b := range s.Boards {
		rows = append(rows, boardRow(b))
	}
	a.boardsTable.SetTitle(fmt.Sprintf(" Boards (%d) ", len(s.Boards)))
	a.fillTable(a.boardsTable, boardColumns, rows, s.SelectedBoard, "No boards found")
}

func (a *App) renderBacklog(s State, now time.Time) {
	a.body.SwitchToPage(bodyBacklog)
	rows := make([][]string, 0, len(s.Issues))
	for _, issue := range s.Issues {
		rows = append(rows, issueRow(issue, a.themeTags, now))
	}
	title := " Backlog "
	if board, ok := s.ActiveBoard(); ok && board.Name != "" {
		title = fmt.Sprintf(" %s ", board.Name)
	}
	a.issuesTable.SetTitle(fmt.Sprintf("%s(%d/%d) ", title, len(s.Issues), s.TotalIssues))
	empty := "No issues match the filter"
	if s.Loading {
		empty = "Loading issues..."
	}
	a.fillTable(a.issuesTable, issueColumns, rows, s.SelectedIssue, empty)
}

func (a *App) renderDetail(s State, now time.Time) {
	a.body.SwitchToPage(bodyDetail)
	issue, ok := s.CurrentIssue()
	if !ok {
		a.detailInfo.SetText("No issue selected")
		a.detailDescription.Clear()
		a.lastDescription = ""
		return
	}
	a.detailInfo.SetText(issueInfo(issue, a.browseURL(issue.Key), a.themeTags, now, a.location))

	description := issue.Description
	if description == "" {
		description = "_No description_"
	}
	width := a.width - 4
	rendered := tview.TranslateANSI(a.markdown.Render(description, width))
	if rendered != a.lastDescription {
		a.detailDescription.SetText(rendered)
		a.lastDescription = rendered
	}
	a.detailDescription.ScrollTo(s.Scroll, 0)
}

func (a *App) renderWorklogs(s State) {
	rows := make([][]string, 0, len(s.Worklogs))
	for _, w := range s.Worklogs {
		rows = append(rows, worklogRow(w, a.location))
	}
	key := ""
	if issue, ok := s.CurrentIssue(); ok {
		key = issue.Key
	}
	a.worklogsTable.SetTitle(fmt.Sprintf(" Worklogs for %s (%d) ", key, s.TotalWorklogs))
	empty := "No worklogs"
	if s.WorklogsLoading {
		empty = "Loading worklogs..."
	}
	a.fillTable(a.worklogsTable, worklogColumns, rows, s.SelectedWorklog, empty)
}

// fillTable rewrites table with a header row and rows, and selects the row at
// index selected.
func (a *App) fillTable(table *tview.Table, columns []string, rows [][]string, selected int, empty string) {
	table.Clear()
	for col, name := range columns {
		table.SetCell(0, col, tview.NewTableCell(name).
			SetTextColor(a.theme.Accent).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
	if len(rows) == 0 {
		table.SetCell(1, 0, tview.NewTableCell(empty).
			SetTextColor(a.theme.SecondaryText).
			SetSelectable(false))
		return
	}
	last := len(columns) - 1
	for r, cells := range rows {
		for col, text := range cells {
			cell := tview.NewTableCell(text).SetTextColor(a.theme.Foreground)
			if col == last || columns[col] == "Summary" {
				cell.SetExpansion(1)
			}
			table.SetCell(r+1, col, cell)
		}
	}
	table.Select(clampIndex(selected, len(rows))+1, 0)
}
