package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/roeyazroel/jira-tui/internal/jiraapi"
	"github.com/stretchr/testify/assert"
)

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func specialKey(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func TestFormatShortcut(t *testing.T) {
	assert.Equal(t, "", FormatShortcut(0))
	assert.Equal(t, "Q", FormatShortcut('q'))
}

// TestKeyAction_CtrlCQuitsEverywhere verifies Ctrl+C is bound on every screen,
// including the worklog form where q is plain text.
func TestKeyAction_CtrlCQuitsEverywhere(t *testing.T) {
	for _, s := range []State{NewState(), backlogState(3, 3), detailState(), worklogListState(1), Apply(detailState(), OpenWorklogModal{Now: testStart})} {
		assert.Equal(t, Quit{}, KeyAction(specialKey(tcell.KeyCtrlC), s, testStart), "screen %s", s.Screen)
	}
}

// TestKeyAction_BoardList verifies Enter opens the highlighted board.
func TestKeyAction_BoardList(t *testing.T) {
	s := Apply(NewState(), BoardsLoaded{Boards: []jiraapi.Board{{ID: 3}, {ID: 7}}})
	s = Apply(s, SelectNext{})

	assert.Equal(t, LoadIssues{BoardID: 7}, KeyAction(specialKey(tcell.KeyEnter), s, testStart))
	assert.Equal(t, LoadBoards{}, KeyAction(runeKey('b'), s, testStart))
	assert.Equal(t, SelectNext{}, KeyAction(runeKey('j'), s, testStart))
	assert.Equal(t, SelectPrevious{}, KeyAction(specialKey(tcell.KeyUp), s, testStart))
	assert.Equal(t, Quit{}, KeyAction(runeKey('q'), s, testStart))
	assert.Nil(t, KeyAction(runeKey('x'), s, testStart))

	empty := Apply(NewState(), BoardsLoaded{})
	assert.Nil(t, KeyAction(specialKey(tcell.KeyEnter), empty, testStart))
}

func TestKeyAction_Backlog(t *testing.T) {
	s := backlogState(3, 3)
	tests := []struct {
		ev   *tcell.EventKey
		want Action
	}{
		{specialKey(tcell.KeyEnter), ViewIssueDetail{}},
		{runeKey('f'), OpenFilterModal{}},
		{runeKey('y'), CopyIssueKey{}},
		{runeKey('b'), GoToBoards{}},
		{specialKey(tcell.KeyEscape), GoToBoards{}},
		{specialKey(tcell.KeyDown), SelectNext{}},
		{runeKey('k'), SelectPrevious{}},
		{runeKey('w'), nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyAction(tt.ev, s, testStart), "key %s", tt.ev.Name())
	}
}

// TestKeyAction_IssueDetail verifies w seeds the worklog form with the given time.
func TestKeyAction_IssueDetail(t *testing.T) {
	s := detailState()
	assert.Equal(t, OpenWorklogModal{Now: testStart}, KeyAction(runeKey('w'), s, testStart))
	assert.Equal(t, OpenWorklogListModal{}, KeyAction(runeKey('l'), s, testStart))
	assert.Equal(t, GoToBacklog{}, KeyAction(specialKey(tcell.KeyEscape), s, testStart))
	assert.Equal(t, SelectNext{}, KeyAction(runeKey('j'), s, testStart))
	assert.Nil(t, KeyAction(runeKey('f'), s, testStart))
}

// TestKeyAction_FilterCyclesFocusedField verifies h/l act on the focused row.
func TestKeyAction_FilterCyclesFocusedField(t *testing.T) {
	s := Apply(backlogState(3, 3), OpenFilterModal{})
	assert.Equal(t, CycleAssignee{}, KeyAction(runeKey('l'), s, testStart))

	s = Apply(s, NextFilterField{})
	assert.Equal(t, CycleStatus{}, KeyAction(runeKey('h'), s, testStart))

	s = Apply(s, NextFilterField{})
	assert.Equal(t, CycleOrderBy{}, KeyAction(specialKey(tcell.KeyRight), s, testStart))

	assert.Equal(t, ApplyFilter{}, KeyAction(specialKey(tcell.KeyEnter), s, testStart))
	assert.Equal(t, NextFilterField{}, KeyAction(specialKey(tcell.KeyTab), s, testStart))
	assert.Equal(t, PreviousFilterField{}, KeyAction(specialKey(tcell.KeyBacktab), s, testStart))
	assert.Equal(t, CloseFilterModal{}, KeyAction(specialKey(tcell.KeyEscape), s, testStart))
}

// TestKeyAction_WorklogForm verifies typed characters are routed by focus.
func TestKeyAction_WorklogForm(t *testing.T) {
	s := Apply(detailState(), OpenWorklogModal{Now: testStart})
	assert.Equal(t, FieldDay, s.Form.Focus)

	assert.Equal(t, InputWorklogDigit{Digit: 7}, KeyAction(runeKey('7'), s, testStart))
	assert.Nil(t, KeyAction(runeKey('a'), s, testStart), "letters are ignored on numeric fields")
	assert.Nil(t, KeyAction(runeKey('q'), s, testStart), "q does not quit from the form")
	assert.Equal(t, SubmitWorklog{}, KeyAction(specialKey(tcell.KeyEnter), s, testStart))
	assert.Equal(t, NextWorklogField{}, KeyAction(specialKey(tcell.KeyTab), s, testStart))
	assert.Equal(t, PreviousWorklogField{}, KeyAction(specialKey(tcell.KeyUp), s, testStart))
	assert.Equal(t, DeleteWorklogChar{}, KeyAction(specialKey(tcell.KeyBackspace2), s, testStart))
	assert.Equal(t, CloseWorklogModal{}, KeyAction(specialKey(tcell.KeyEscape), s, testStart))

	s = Apply(s, PreviousWorklogField{})
	assert.Equal(t, FieldComment, s.Form.Focus)
	assert.Equal(t, InputWorklogChar{Char: 'q'}, KeyAction(runeKey('q'), s, testStart))
	assert.Equal(t, InputWorklogChar{Char: '7'}, KeyAction(runeKey('7'), s, testStart))
	assert.Equal(t, InputWorklogChar{Char: 'é'}, KeyAction(runeKey('é'), s, testStart))
}

func TestKeyAction_WorklogList(t *testing.T) {
	s := worklogListState(2)
	assert.Equal(t, SelectWorklogForEdit{Location: time.UTC}, KeyAction(specialKey(tcell.KeyEnter), s, testStart))
	assert.Equal(t, SelectWorklogForEdit{Location: time.UTC}, KeyAction(runeKey('e'), s, testStart))
	assert.Equal(t, SelectWorklogForDelete{}, KeyAction(runeKey('d'), s, testStart))
	assert.Equal(t, CloseWorklogListModal{}, KeyAction(specialKey(tcell.KeyEscape), s, testStart))
	assert.Equal(t, SelectNext{}, KeyAction(runeKey('j'), s, testStart))
}
