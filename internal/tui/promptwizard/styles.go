package promptwizard

import (
	"strings"

	"github.com/mark3labs/promptsmith/internal/tui/theme"
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "space", "toggle")
// Returns: "↑↓ navigate • space toggle"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.HintSeparator.Render("•") + " ")
		}
		b.WriteString(s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1]))
	}
	return b.String()
}

// renderProgressBar draws a gradient bar filled to percent (0..100).
func renderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	t := theme.Current()
	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			pos := 0.0
			if width > 1 {
				pos = float64(i) / float64(width-1)
			}
			b.WriteString(colorize(t.ProgressGradient(pos), "█"))
			continue
		}
		b.WriteString(colorize(t.BgSurface1, "░"))
	}
	return b.String()
}
