package tui

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// KeyAction maps a key press on the current screen to an action, or nil when
// the key is not bound there.
func KeyAction(ev *tcell.EventKey, s State, now time.Time) Action {
	if ev.Key() == tcell.KeyCtrlC {
		return Quit{}
	}

	for _, cmd := range ScreenCommands(s.Screen) {
		if cmd.Matches(ev) {
			return cmd.Build(s, now)
		}
	}

	if s.Screen == ScreenWorklogModal && ev.Key() == tcell.KeyRune {
		return worklogRune(ev.Rune(), s.Form.Focus)
	}
	return nil
}

// worklogRune routes typed text into the worklog form.
func worklogRune(r rune, focus WorklogField) Action {
	if focus.IsNumeric() {
		if r < '0' || r > '9' {
			return nil
		}
		return InputWorklogDigit{Digit: int(r - '0')}
	}
	if !unicode.IsPrint(r) {
		return nil
	}
	return InputWorklogChar{Char: r}
}
