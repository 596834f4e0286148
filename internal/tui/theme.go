package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/roeyazroel/jira-tui/internal/jiraapi"
)

// Theme is the color palette used by every view.
type Theme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	SecondaryText tcell.Color
	HeaderBg      tcell.Color
	Border        tcell.Color
	Accent        tcell.Color
	SelectionBg   tcell.Color
	SelectionText tcell.Color
	Success       tcell.Color
	Warning       tcell.Color
	Error         tcell.Color
}

// ThemeTags holds tview color tags for inline styling.
type ThemeTags struct {
	Foreground    string
	SecondaryText string
	Border        string
	Accent        string
	Success       string
	Warning       string
	Error         string
}

// DefaultTheme is a dark palette that reads well on most terminals.
func DefaultTheme() Theme {
	return Theme{
		Background:    tcell.NewHexColor(0x1e1e2e),
		Foreground:    tcell.NewHexColor(0xcdd6f4),
		SecondaryText: tcell.NewHexColor(0x7f849c),
		HeaderBg:      tcell.NewHexColor(0x181825),
		Border:        tcell.NewHexColor(0x45475a),
		Accent:        tcell.NewHexColor(0x89b4fa),
		SelectionBg:   tcell.NewHexColor(0x313244),
		SelectionText: tcell.NewHexColor(0xf5e0dc),
		Success:       tcell.NewHexColor(0xa6e3a1),
		Warning:       tcell.NewHexColor(0xf9e2af),
		Error:         tcell.NewHexColor(0xf38ba8),
	}
}

// NewThemeTags builds the tag strings for theme.
func NewThemeTags(theme Theme) ThemeTags {
	return ThemeTags{
		Foreground:    colorTag(theme.Foreground),
		SecondaryText: colorTag(theme.SecondaryText),
		Border:        colorTag(theme.Border),
		Accent:        colorTag(theme.Accent),
		Success:       colorTag(theme.Success),
		Warning:       colorTag(theme.Warning),
		Error:         colorTag(theme.Error),
	}
}

func colorTag(c tcell.Color) string {
	return fmt.Sprintf("[#%06x]", c.Hex())
}

// statusTag picks the color for an issue status.
func (t ThemeTags) statusTag(status jiraapi.Status) string {
	switch status.Kind {
	case jiraapi.StatusDone:
		return t.Success
	case jiraapi.StatusInProgress:
		return t.Warning
	case jiraapi.StatusTodo:
		return t.Accent
	default:
		return t.SecondaryText
	}
}
