package promptwizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/promptsmith/internal/tui/theme"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// HeadersStep is the checklist of prompt sections.
type HeadersStep struct {
	ctrl    *wizard.Controller
	headers []wizard.PromptHeader
	cursor  int
	offset  int // first visible row
	editing bool
	input   textinput.Model
	width   int
	height  int
}

// NewHeadersStep creates the header checklist from the current form.
func NewHeadersStep(ctrl *wizard.Controller) *HeadersStep {
	ti := textinput.New()
	ti.Placeholder = "Describe the output structure, e.g. a JSON schema"
	ti.CharLimit = 2000
	ti.SetWidth(56)

	return &HeadersStep{
		ctrl:    ctrl,
		headers: ctrl.Form().SelectedHeaders,
		input:   ti,
		width:   60,
		height:  20,
	}
}

// Init initializes the headers step.
func (h *HeadersStep) Init() tea.Cmd {
	return nil
}

// Update handles messages for the headers step.
func (h *HeadersStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if h.editing {
		if ok {
			switch key.String() {
			case "enter", "esc":
				h.finishEditing()
				return nil
			}
		}
		var cmd tea.Cmd
		h.input, cmd = h.input.Update(msg)
		return cmd
	}
	if !ok || len(h.headers) == 0 {
		return nil
	}

	switch key.String() {
	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
		}
	case "down", "j":
		if h.cursor < len(h.headers)-1 {
			h.cursor++
		}
	case "home", "g":
		h.cursor = 0
	case "end", "G":
		h.cursor = len(h.headers) - 1
	case "space", " ":
		h.toggle()
	case "enter":
		cur := h.headers[h.cursor]
		if cur.RequiresInput && cur.Selected {
			return h.startEditing()
		}
		h.toggle()
	case "tab":
		return func() tea.Msg { return TabExitForwardMsg{} }
	case "shift+tab":
		return func() tea.Msg { return TabExitBackwardMsg{} }
	}
	h.scrollToCursor()
	return nil
}

func (h *HeadersStep) toggle() {
	cur := h.headers[h.cursor]
	selected, ok := h.ctrl.ToggleHeader(cur.ID)
	if !ok {
		return
	}
	h.refresh()
	// A newly selected header that needs input opens its editor.
	if selected && cur.RequiresInput && strings.TrimSpace(cur.InputValue) == "" {
		h.startEditing()
	}
}

func (h *HeadersStep) startEditing() tea.Cmd {
	h.editing = true
	h.input.SetValue(h.headers[h.cursor].InputValue)
	return h.input.Focus()
}

func (h *HeadersStep) finishEditing() {
	h.editing = false
	h.input.Blur()
	h.ctrl.SetHeaderInput(h.headers[h.cursor].ID, h.input.Value())
	h.refresh()
}

func (h *HeadersStep) refresh() {
	h.headers = h.ctrl.Form().SelectedHeaders
}

// Cursor returns the index of the highlighted header.
func (h *HeadersStep) Cursor() int {
	return h.cursor
}

// Editing reports whether the input box of a header is open.
func (h *HeadersStep) Editing() bool {
	return h.editing
}

func (h *HeadersStep) visibleRows() int {
	rows := h.height - 8
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (h *HeadersStep) scrollToCursor() {
	rows := h.visibleRows()
	if h.cursor < h.offset {
		h.offset = h.cursor
	}
	if h.cursor >= h.offset+rows {
		h.offset = h.cursor - rows + 1
	}
}

// Submit stores a pending header input and requests an advance.
func (h *HeadersStep) Submit() tea.Cmd {
	if h.editing {
		h.finishEditing()
	}
	return func() tea.Msg { return AdvanceRequestedMsg{} }
}

// Focus is a no-op; the checklist is always navigable.
func (h *HeadersStep) Focus() tea.Cmd { return nil }

// Blur closes the input box.
func (h *HeadersStep) Blur() {
	if h.editing {
		h.finishEditing()
	}
}

// SetSize updates the size of the headers step.
func (h *HeadersStep) SetSize(width, height int) {
	h.width = width
	h.height = height
	h.input.SetWidth(width - 6)
	h.scrollToCursor()
}

// View renders the headers step.
func (h *HeadersStep) View() string {
	s := theme.Current().S()

	selected := len(wizard.SelectedOnly(h.headers))
	parts := []string{
		s.Instruction.Render("Choose the sections of your system prompt."),
		s.StepLabel.Render(fmt.Sprintf("%d of %d selected  %s recommended", selected, len(h.headers), s.Required.Render("*"))),
	}

	rows := h.visibleRows()
	end := h.offset + rows
	if end > len(h.headers) {
		end = len(h.headers)
	}
	for i := h.offset; i < end; i++ {
		hd := h.headers[i]
		pointer := "  "
		if i == h.cursor {
			pointer = s.Cursor.Render("› ")
		}
		box := s.Unchecked.Render("[ ]")
		if hd.Selected {
			box = s.Checked.Render("[✓]")
		}
		label := hd.Label
		if hd.Required {
			label += s.Required.Render(" *")
		}
		if hd.RequiresInput && hd.Selected && hd.InputValue != "" {
			label += s.Muted.Render(": " + truncateText(hd.InputValue, h.width/2))
		}
		parts = append(parts, fmt.Sprintf("%s%s %s", pointer, box, label))
	}
	if h.offset > 0 || end < len(h.headers) {
		parts = append(parts, s.Muted.Render(fmt.Sprintf("  %d-%d of %d", h.offset+1, end, len(h.headers))))
	}

	if h.editing {
		parts = append(parts,
			"",
			s.Label.Render(h.headers[h.cursor].Label),
			s.InputBoxFocused.Width(h.width).Render(h.input.View()),
			renderHintBar("enter", "done", "esc", "done"),
		)
	} else {
		parts = append(parts, "", renderHintBar("↑↓", "navigate", "space", "toggle", "enter", "edit input", "ctrl+n", "continue"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
