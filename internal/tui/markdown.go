package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/roeyazroel/jira-tui/internal/logger"
)

const minMarkdownWidth = 20

// markdownRenderer renders issue descriptions to ANSI text. Renderers are
// built once per wrap width and the last result is kept, since the detail view
// redraws the same description on every tick.
type markdownRenderer struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer

	lastText   string
	lastWidth  int
	lastResult string
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{renderers: make(map[int]*glamour.TermRenderer)}
}

// Render returns text formatted for a TextView with ANSI support. It falls
// back to the raw text when glamour fails.
func (m *markdownRenderer) Render(text string, width int) string {
	width = max(width, minMarkdownWidth)
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if text == m.lastText && width == m.lastWidth {
		return m.lastResult
	}

	r, ok := m.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logger.ErrorWithErr(err, "tui.markdown: failed to create renderer width=%d", width)
			return text
		}
		m.renderers[width] = r
	}

	out, err := r.Render(text)
	if err != nil {
		logger.ErrorWithErr(err, "tui.markdown: render failed")
		return text
	}
	out = strings.Trim(out, "\n")
	m.lastText, m.lastWidth, m.lastResult = text, width, out
	return out
}
