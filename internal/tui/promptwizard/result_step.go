package promptwizard

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	"github.com/aymanbagabas/go-udiff/lcs"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/tui/theme"
)

// ResultStep shows the generated system prompt with edit and save actions.
type ResultStep struct {
	viewport viewport.Model
	content  string
	width    int
	height   int
	tmpFile  string

	added, removed int // line changes from the last edit
	edited         bool

	savedPath        string
	confirmOverwrite string // path awaiting an overwrite decision
	summary          string
}

// NewResultStep creates the result step for content.
func NewResultStep(content string) *ResultStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	vp.SetContent(renderMarkdown(content, 60))

	return &ResultStep{
		viewport: vp,
		content:  content,
		width:    60,
		height:   20,
	}
}

// renderMarkdown renders markdown with glamour, falling back to plain text.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

// diffStats counts added and removed lines between before and after.
// Lines are compared whole, so a changed line counts once on each side.
func diffStats(before, after string) (added, removed int) {
	if before == after {
		return 0, 0
	}
	ids := make(map[string]rune)
	a := lineRunes(before, ids)
	b := lineRunes(after, ids)
	for _, d := range lcs.DiffRunes(a, b) {
		removed += d.End - d.Start
		added += d.ReplEnd - d.ReplStart
	}
	return added, removed
}

// lineRunes maps every line of s to one rune, shared across calls through ids.
func lineRunes(s string, ids map[string]rune) []rune {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	out := make([]rune, len(lines))
	for i, line := range lines {
		id, ok := ids[line]
		if !ok {
			id = rune(len(ids))
			ids[line] = id
		}
		out[i] = id
	}
	return out
}

// Init initializes the result step.
func (r *ResultStep) Init() tea.Cmd {
	return nil
}

// Update handles messages for the result step.
func (r *ResultStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if r.confirmOverwrite != "" {
			switch msg.String() {
			case "y", "Y":
				r.confirmOverwrite = ""
				return func() tea.Msg { return SaveRequestedMsg{Overwrite: true} }
			case "n", "N", "esc":
				r.confirmOverwrite = ""
			}
			return nil
		}
		switch msg.String() {
		case "e":
			if os.Getenv("EDITOR") != "" {
				return r.openEditor()
			}
		case "s":
			return func() tea.Msg { return SaveRequestedMsg{} }
		case "r":
			return func() tea.Msg { return ResetRequestedMsg{} }
		case "tab":
			return func() tea.Msg { return TabExitForwardMsg{} }
		case "shift+tab":
			return func() tea.Msg { return TabExitBackwardMsg{} }
		}

	case PromptEditedMsg:
		r.added, r.removed = diffStats(r.content, msg.Content)
		r.edited = true
		r.content = msg.Content
		r.savedPath = ""
		r.viewport.SetContent(renderMarkdown(r.content, r.width))
		r.viewport.GotoTop()
		if r.tmpFile != "" {
			_ = os.Remove(r.tmpFile)
			r.tmpFile = ""
		}
		return nil
	}

	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return cmd
}

// openEditor launches $EDITOR on a temp copy of the prompt.
func (r *ResultStep) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "promptsmith_prompt_*.md")
	if err != nil {
		logger.Warn("Failed to create temp file for editor: %v", err)
		return nil
	}
	if _, err := tmpfile.WriteString(r.content); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()
	r.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("promptsmith", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			logger.Warn("Editor exited with error: %v", err)
			return nil
		}
		content, err := os.ReadFile(tmpfile.Name())
		if err != nil {
			return nil
		}
		return PromptEditedMsg{Content: string(content)}
	})
}

// Content returns the prompt, including any edits.
func (r *ResultStep) Content() string {
	return r.content
}

// WasEdited reports whether the prompt was changed in the editor.
func (r *ResultStep) WasEdited() bool {
	return r.edited
}

// DiffStats returns the line changes of the last edit.
func (r *ResultStep) DiffStats() (added, removed int) {
	return r.added, r.removed
}

// SetSaved records the path the prompt was written to.
func (r *ResultStep) SetSaved(path string) {
	r.savedPath = path
	r.confirmOverwrite = ""
}

// ConfirmOverwrite asks whether the existing file at path may be replaced.
func (r *ResultStep) ConfirmOverwrite(path string) {
	r.confirmOverwrite = path
}

// SetSummary sets the session summary line.
func (r *ResultStep) SetSummary(text string) {
	r.summary = text
}

// Submit saves the prompt.
func (r *ResultStep) Submit() tea.Cmd {
	return func() tea.Msg { return SaveRequestedMsg{} }
}

// Focus is a no-op.
func (r *ResultStep) Focus() tea.Cmd { return nil }

// Blur is a no-op.
func (r *ResultStep) Blur() {}

// SetSize updates the dimensions for the result step.
func (r *ResultStep) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.viewport.SetWidth(width)
	vh := height - 3
	if vh < 5 {
		vh = 5
	}
	r.viewport.SetHeight(vh)
	r.viewport.SetContent(renderMarkdown(r.content, width))
}

// View renders the result step.
func (r *ResultStep) View() string {
	s := theme.Current().S()
	parts := []string{r.viewport.View()}

	var status []string
	if r.edited {
		status = append(status, s.Muted.Render(fmt.Sprintf("edited: +%d -%d lines", r.added, r.removed)))
	}
	if r.savedPath != "" {
		status = append(status, s.Success.Render("✓ saved to "+r.savedPath))
	}
	if r.summary != "" {
		status = append(status, s.Muted.Render(r.summary))
	}
	if len(status) > 0 {
		parts = append(parts, strings.Join(status, s.HintSeparator.Render(" • ")))
	}

	if r.confirmOverwrite != "" {
		parts = append(parts, s.Required.Render(fmt.Sprintf("%s exists. Overwrite? (y/n)", r.confirmOverwrite)))
	} else if os.Getenv("EDITOR") != "" {
		parts = append(parts, renderHintBar("↑↓", "scroll", "e", "edit", "s", "save", "r", "start over"))
	} else {
		parts = append(parts, renderHintBar("↑↓", "scroll", "s", "save", "r", "start over"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
