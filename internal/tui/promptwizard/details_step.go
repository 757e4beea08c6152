package promptwizard

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/promptsmith/internal/tui/theme"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// ErrIntentRequired is shown when step 1 is submitted without an intent.
var ErrIntentRequired = errors.New("describe what you want to build first")

// Field indexes of the details step, in focus order.
const (
	fieldIntent = iota
	fieldWorkflow
	fieldModel
	fieldCharacters
	fieldTools
	fieldInput
	fieldOutput
	fieldCount
)

// detailField is either a multi-line area or a single-line input.
type detailField struct {
	label string
	area  *textarea.Model
	input *textinput.Model
}

func (f *detailField) value() string {
	if f.area != nil {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *detailField) focus() tea.Cmd {
	if f.area != nil {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *detailField) blur() {
	if f.area != nil {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f *detailField) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.area != nil {
		*f.area, cmd = f.area.Update(msg)
		return cmd
	}
	*f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *detailField) view() string {
	if f.area != nil {
		return f.area.View()
	}
	return f.input.View()
}

func (f *detailField) setWidth(w int) {
	if f.area != nil {
		f.area.SetWidth(w)
		return
	}
	f.input.SetWidth(w)
}

// DetailsStep collects the step 1 fields. Every edit is written to the
// controller immediately.
type DetailsStep struct {
	ctrl    *wizard.Controller
	fields  [fieldCount]*detailField
	focused int
	width   int
	height  int
	err     string
}

// NewDetailsStep creates the details step prefilled from the current form.
func NewDetailsStep(ctrl *wizard.Controller) *DetailsStep {
	form := ctrl.Form()
	d := &DetailsStep{ctrl: ctrl, width: 60}

	d.fields[fieldIntent] = newAreaField("What do you want to build?", form.BuildIntent,
		"e.g. An agent that triages support emails and drafts replies", 4)
	d.fields[fieldWorkflow] = newAreaField("n8n workflow JSON (optional)", form.WorkflowJSON,
		"Paste the exported workflow JSON", 4)
	d.fields[fieldModel] = newInputField("Chat model", form.Model, "e.g. gpt-4o")
	d.fields[fieldCharacters] = newInputField("Prompt length (characters)", form.CharacterCount, "e.g. 4000")
	d.fields[fieldTools] = newInputField("Tools", form.Tools, "e.g. Gmail, Google Sheets, HTTP Request")
	d.fields[fieldInput] = newInputField("Expected input", form.ExpectedInput, "e.g. A raw email body")
	d.fields[fieldOutput] = newInputField("Expected output", form.ExpectedOutput, "e.g. JSON with category and reply")

	d.fields[fieldIntent].focus()
	return d
}

func newAreaField(label, value, placeholder string, height int) *detailField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 0 // workflow exports can be large
	ta.ShowLineNumbers = false
	ta.SetHeight(height)
	ta.SetWidth(60)
	ta.SetValue(value)
	return &detailField{label: label, area: &ta}
}

func newInputField(label, value, placeholder string) *detailField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 500
	ti.SetWidth(60)
	ti.SetValue(value)
	return &detailField{label: label, input: &ti}
}

// Init initializes the details step.
func (d *DetailsStep) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the details step.
func (d *DetailsStep) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "tab":
			if d.focused == fieldCount-1 {
				return func() tea.Msg { return TabExitForwardMsg{} }
			}
			return d.setFocus(d.focused + 1)
		case "shift+tab":
			if d.focused == 0 {
				return func() tea.Msg { return TabExitBackwardMsg{} }
			}
			return d.setFocus(d.focused - 1)
		case "enter":
			// Single-line inputs move on; areas keep newlines.
			if d.fields[d.focused].input != nil {
				if d.focused == fieldCount-1 {
					return func() tea.Msg { return TabExitForwardMsg{} }
				}
				return d.setFocus(d.focused + 1)
			}
		}
		d.err = ""
	}

	cmd := d.fields[d.focused].update(msg)
	d.sync()
	return cmd
}

// sync writes every field to the controller.
func (d *DetailsStep) sync() {
	d.ctrl.UpdateFields(d.FormUpdate())
}

// FormUpdate returns the step 1 fields as a partial update.
func (d *DetailsStep) FormUpdate() wizard.FormUpdate {
	return wizard.FormUpdate{
		BuildIntent:    wizard.Ptr(d.fields[fieldIntent].value()),
		WorkflowJSON:   wizard.Ptr(d.fields[fieldWorkflow].value()),
		Model:          wizard.Ptr(d.fields[fieldModel].value()),
		CharacterCount: wizard.Ptr(d.fields[fieldCharacters].value()),
		Tools:          wizard.Ptr(d.fields[fieldTools].value()),
		ExpectedInput:  wizard.Ptr(d.fields[fieldInput].value()),
		ExpectedOutput: wizard.Ptr(d.fields[fieldOutput].value()),
	}
}

// Submit validates the step and requests an advance.
func (d *DetailsStep) Submit() tea.Cmd {
	d.sync()
	if strings.TrimSpace(d.fields[fieldIntent].value()) == "" {
		d.err = ErrIntentRequired.Error()
		return nil
	}
	d.err = ""
	return func() tea.Msg { return AdvanceRequestedMsg{} }
}

func (d *DetailsStep) setFocus(i int) tea.Cmd {
	d.fields[d.focused].blur()
	d.focused = i
	return d.fields[i].focus()
}

// Focus focuses the first field.
func (d *DetailsStep) Focus() tea.Cmd {
	return d.setFocus(0)
}

// FocusLast focuses the last field.
func (d *DetailsStep) FocusLast() tea.Cmd {
	return d.setFocus(fieldCount - 1)
}

// Blur blurs every field.
func (d *DetailsStep) Blur() {
	for _, f := range d.fields {
		f.blur()
	}
}

// SetSize updates the size of the details step.
func (d *DetailsStep) SetSize(width, height int) {
	d.width = width
	d.height = height
	for _, f := range d.fields {
		f.setWidth(width - 4)
	}
}

// View renders the details step.
func (d *DetailsStep) View() string {
	s := theme.Current().S()

	parts := []string{s.Instruction.Render("Tell us about the agent you want a system prompt for.")}
	for i, f := range d.fields {
		label := f.label
		if i == fieldIntent {
			label += s.Required.Render(" *")
		}
		box := s.InputBox
		if i == d.focused {
			box = s.InputBoxFocused
		}
		body := f.view()
		// Show the parsed workflow once the user moves on.
		if i == fieldWorkflow && i != d.focused && strings.TrimSpace(f.value()) != "" {
			body = truncateLines(highlightJSON(f.value()), 6)
		}
		parts = append(parts, s.Label.Render(label), box.Width(d.width).Render(body))
	}

	if d.err != "" {
		parts = append(parts, s.ErrorTitle.Render("✗ "+d.err))
	}
	parts = append(parts, renderHintBar("tab", "next field", "ctrl+n", "continue"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
