// Package theme holds the color palette and pre-built lipgloss styles of
// the terminal UI.
package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Borders
	BorderDefault string
	BorderFocused string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	currentMu sync.RWMutex
	current   = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetCurrent replaces the active theme.
func SetCurrent(t *Theme) {
	if t == nil {
		return
	}
	currentMu.Lock()
	defer currentMu.Unlock()
	current = t
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// ProgressGradient returns the color of a progress bar cell at pos (0..1).
func (t *Theme) ProgressGradient(pos float64) string {
	return InterpolateColor(t.Primary, t.Secondary, pos)
}

func (t *Theme) buildStyles() *Styles {
	color := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}

	return &Styles{
		HeaderTitle: color(t.Primary).Bold(true),
		StepLabel:   color(t.FgSubtle),
		Instruction: color(t.FgBase).MarginBottom(1),
		Label:       color(t.FgBright).Bold(true),
		Muted:       color(t.FgMuted),
		Required:    color(t.Warning).Bold(true),
		Checked:     color(t.Success),
		Unchecked:   color(t.FgMuted),
		Cursor:      color(t.Primary).Bold(true),
		ErrorTitle:  color(t.Error).Bold(true).MarginBottom(1),
		ErrorText:   color(t.FgBase),
		Success:     color(t.Success).Bold(true),

		InputBox: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderDefault)),
		InputBoxFocused: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocused)),

		Modal: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderDefault)),
		ErrorModal: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Error)),

		HintKey:       color(t.FgSubtle).Bold(true),
		HintDesc:      color(t.FgMuted),
		HintSeparator: color(t.BgSurface2),

		ButtonNormal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgBase)).
			Background(lipgloss.Color(t.BgSurface0)).
			Padding(0, 2).
			Margin(0, 1),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)).
			Background(lipgloss.Color(t.BgMantle)).
			Padding(0, 2).
			Margin(0, 1),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Tertiary)).
			Bold(true).
			Padding(0, 2).
			Margin(0, 1),

		CodeBlock: lipgloss.NewStyle().
			Background(lipgloss.Color(t.BgSurface0)).
			Padding(0, 1),
	}
}
