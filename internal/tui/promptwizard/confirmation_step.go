package promptwizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/promptsmith/internal/tui/theme"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// ConfirmationStep shows the execution plan before the final generation.
type ConfirmationStep struct {
	viewport viewport.Model
	form     wizard.FormState
	width    int
	height   int
}

// NewConfirmationStep creates the confirmation step from the current form.
func NewConfirmationStep(ctrl *wizard.Controller) *ConfirmationStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &ConfirmationStep{
		viewport: vp,
		form:     ctrl.Form(),
		width:    60,
		height:   20,
	}
	c.viewport.SetContent(c.renderBody())
	return c
}

func (c *ConfirmationStep) renderBody() string {
	s := theme.Current().S()
	var b strings.Builder

	b.WriteString(s.Label.Render("Plan"))
	b.WriteString("\n")
	if len(c.form.AIPlan) == 0 {
		b.WriteString(s.Muted.Render("The plan is empty; the prompt will follow the selected sections."))
		b.WriteString("\n")
	}
	for i, step := range c.form.AIPlan {
		b.WriteString(fmt.Sprintf("%s %s\n", s.StepLabel.Render(fmt.Sprintf("%2d.", i+1)), step))
	}

	b.WriteString("\n")
	b.WriteString(s.Label.Render("Sections"))
	b.WriteString("\n")
	for _, h := range wizard.SelectedOnly(c.form.SelectedHeaders) {
		b.WriteString(s.Checked.Render("• ") + h.Label + "\n")
	}

	if strings.TrimSpace(c.form.WorkflowJSON) != "" {
		b.WriteString("\n")
		b.WriteString(s.Label.Render("Workflow"))
		b.WriteString("\n")
		b.WriteString(truncateLines(highlightJSON(c.form.WorkflowJSON), 20))
		b.WriteString("\n")
	}
	return b.String()
}

// Init initializes the confirmation step.
func (c *ConfirmationStep) Init() tea.Cmd {
	return nil
}

// Update handles messages for the confirmation step.
func (c *ConfirmationStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			return c.Submit()
		case "tab":
			return func() tea.Msg { return TabExitForwardMsg{} }
		case "shift+tab":
			return func() tea.Msg { return TabExitBackwardMsg{} }
		}
	}
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return cmd
}

// Submit requests the final prompt.
func (c *ConfirmationStep) Submit() tea.Cmd {
	return func() tea.Msg { return AdvanceRequestedMsg{} }
}

// Focus is a no-op.
func (c *ConfirmationStep) Focus() tea.Cmd { return nil }

// Blur is a no-op.
func (c *ConfirmationStep) Blur() {}

// SetSize updates the size of the confirmation step.
func (c *ConfirmationStep) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.viewport.SetWidth(width)
	vh := height - 3
	if vh < 5 {
		vh = 5
	}
	c.viewport.SetHeight(vh)
	c.viewport.SetContent(c.renderBody())
}

// View renders the confirmation step.
func (c *ConfirmationStep) View() string {
	s := theme.Current().S()
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Instruction.Render("Review the plan, then generate the system prompt."),
		c.viewport.View(),
		renderHintBar("↑↓", "scroll", "enter", "generate", "ctrl+r", "start over"),
	)
}
