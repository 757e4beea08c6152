// Package promptwizard is the terminal UI for building an n8n system
// prompt. It renders one component per wizard step and drives the
// session exclusively through a wizard.Controller.
package promptwizard

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/promptsmith/internal/journal"
	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/promptfile"
	"github.com/mark3labs/promptsmith/internal/tui/theme"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// Modal layout constants
const (
	modalWidth        = 80
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2) // 74
)

// Journal records UI-level events and summarizes the session.
type Journal interface {
	RecordSaved(ctx context.Context, path string) error
	RecordEdited(ctx context.Context, added, removed int) error
	Summary(ctx context.Context) (*journal.Summary, error)
}

// Options configures the wizard UI.
type Options struct {
	OutputDir string  // where prompts are saved
	Model     string  // generation model, shown in the prompt index
	Journal   Journal // optional
}

// stepComponent is implemented by every step view.
type stepComponent interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	Submit() tea.Cmd
	Focus() tea.Cmd
	Blur()
}

// Model is the main BubbleTea model for the prompt wizard.
type Model struct {
	ctx  context.Context
	ctrl *wizard.Controller
	opts Options

	step    wizard.Step
	current stepComponent
	result  *ResultStep // set on the result step

	width     int
	height    int
	cancelled bool

	busy    bool
	spinner Spinner
	notice  *wizard.Notice // shown until the next key press

	buttonBar     *ButtonBar
	buttonFocused bool

	saveError string
}

// New creates the wizard model. The view starts at the controller's
// current step.
func New(ctx context.Context, ctrl *wizard.Controller, opts Options) *Model {
	if opts.OutputDir == "" {
		opts.OutputDir = "prompts"
	}
	m := &Model{
		ctx:     ctx,
		ctrl:    ctrl,
		opts:    opts,
		spinner: NewSpinner(),
	}
	m.enterStep(ctrl.Step())
	return m
}

// Run is the entry point for the prompt wizard.
func Run(ctx context.Context, ctrl *wizard.Controller, opts Options) error {
	m := New(ctx, ctrl, opts)
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	wizModel, ok := finalModel.(*Model)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}
	if wizModel.cancelled {
		logger.Debug("Wizard cancelled at %s", wizModel.step)
	}
	return nil
}

// Step returns the step being displayed.
func (m *Model) Step() wizard.Step {
	return m.step
}

// Busy reports whether a generation is running.
func (m *Model) Busy() bool {
	return m.busy
}

// Notice returns the failure banner, or nil.
func (m *Model) Notice() *wizard.Notice {
	return m.notice
}

// Init initializes the wizard model.
func (m *Model) Init() tea.Cmd {
	return m.current.Init()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		m.notice = nil

		if m.saveError != "" {
			switch msg.String() {
			case "y", "Y":
				m.saveError = ""
				return m, func() tea.Msg { return SaveRequestedMsg{} }
			case "ctrl+c":
			default:
				m.saveError = ""
				return m, nil
			}
		}

		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "ctrl+r":
			return m, func() tea.Msg { return ResetRequestedMsg{} }
		}

		if m.busy {
			return m, nil
		}

		if m.buttonFocused && m.buttonBar != nil {
			switch msg.String() {
			case "tab", "right":
				if !m.buttonBar.FocusNext() {
					m.buttonFocused = false
					m.buttonBar.Blur()
					return m, m.current.Focus()
				}
				return m, nil
			case "shift+tab", "left":
				if !m.buttonBar.FocusPrev() {
					m.buttonFocused = false
					m.buttonBar.Blur()
					return m, m.focusLast()
				}
				return m, nil
			case "enter", "space", " ":
				return m, m.activateButton(m.buttonBar.FocusedButton())
			case "esc":
				m.buttonFocused = false
				m.buttonBar.Blur()
				return m, m.current.Focus()
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+n":
			return m, m.current.Submit()
		case "esc":
			if m.step == wizard.StepInitialDetails {
				m.cancelled = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSize()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		return m, m.spinner.Update(msg)

	case AdvanceRequestedMsg:
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.buttonFocused = false
		m.current.Blur()
		return m, tea.Batch(m.spinner.Tick(), m.advance())

	case AdvanceDoneMsg:
		m.busy = false
		if msg.Result.Notice != nil {
			m.notice = msg.Result.Notice
		}
		if step := m.ctrl.Step(); step != m.step {
			return m, m.enterStep(step)
		}
		return m, m.current.Focus()

	case ResetRequestedMsg:
		m.ctrl.Reset()
		m.notice = nil
		m.saveError = ""
		return m, m.enterStep(wizard.StepInitialDetails)

	case SaveRequestedMsg:
		return m, m.save(msg.Overwrite)

	case PromptSavedMsg:
		logger.Info("Prompt saved to %s", msg.Path)
		if m.result != nil {
			m.result.SetSaved(msg.Path)
		}
		return m, m.recordSaved(msg.Path)

	case SaveErrorMsg:
		if errors.Is(msg.Err, promptfile.ErrExists) {
			if m.result != nil {
				m.result.ConfirmOverwrite(msg.Path)
			}
			return m, nil
		}
		logger.Error("Failed to save prompt: %v", msg.Err)
		m.saveError = msg.Err.Error()
		return m, nil

	case PromptEditedMsg:
		if m.result == nil {
			return m, nil
		}
		cmd := m.result.Update(msg)
		added, removed := m.result.DiffStats()
		return m, tea.Batch(cmd, m.recordEdited(added, removed))

	case SummaryMsg:
		if m.result != nil {
			m.result.SetSummary(msg.Text)
		}
		return m, nil

	case TabExitForwardMsg:
		m.focusButtons(true)
		return m, nil

	case TabExitBackwardMsg:
		m.focusButtons(false)
		return m, nil
	}

	if m.busy {
		return m, nil
	}
	return m, m.current.Update(msg)
}

// advance runs Controller.Advance off the UI loop.
func (m *Model) advance() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return AdvanceDoneMsg{Result: ctrl.Advance(ctx)}
	}
}

func (m *Model) save(overwrite bool) tea.Cmd {
	form := m.ctrl.Form()
	content := m.ctrl.FinalPrompt()
	if m.result != nil {
		content = m.result.Content()
	}
	model := form.Model
	if model == "" {
		model = m.opts.Model
	}
	entry := promptfile.Entry{Intent: form.BuildIntent, Model: model, Content: content}
	dir := m.opts.OutputDir

	return func() tea.Msg {
		path, err := promptfile.Save(dir, entry, overwrite)
		if err != nil {
			return SaveErrorMsg{Path: path, Err: err}
		}
		return PromptSavedMsg{Path: path}
	}
}

func (m *Model) recordSaved(path string) tea.Cmd {
	j, ctx := m.opts.Journal, m.ctx
	if j == nil {
		return nil
	}
	return func() tea.Msg {
		if err := j.RecordSaved(ctx, path); err != nil {
			logger.Warn("Failed to journal save: %v", err)
		}
		return summaryMsg(ctx, j)
	}
}

func (m *Model) recordEdited(added, removed int) tea.Cmd {
	j, ctx := m.opts.Journal, m.ctx
	if j == nil {
		return nil
	}
	return func() tea.Msg {
		if err := j.RecordEdited(ctx, added, removed); err != nil {
			logger.Warn("Failed to journal edit: %v", err)
		}
		return summaryMsg(ctx, j)
	}
}

func (m *Model) loadSummary() tea.Cmd {
	j, ctx := m.opts.Journal, m.ctx
	if j == nil {
		return nil
	}
	return func() tea.Msg { return summaryMsg(ctx, j) }
}

func summaryMsg(ctx context.Context, j Journal) tea.Msg {
	sum, err := j.Summary(ctx)
	if err != nil {
		logger.Warn("Failed to load session summary: %v", err)
		return nil
	}
	return SummaryMsg{Text: sum.String()}
}

// enterStep builds the component for step and returns its init commands.
func (m *Model) enterStep(step wizard.Step) tea.Cmd {
	m.step = step
	m.buttonFocused = false
	m.result = nil

	switch step {
	case wizard.StepAIQuestions:
		m.current = NewQuestionsStep(m.ctrl)
	case wizard.StepHeaderSelection:
		m.current = NewHeadersStep(m.ctrl)
	case wizard.StepConfirmation:
		m.current = NewConfirmationStep(m.ctrl)
	case wizard.StepResult:
		m.result = NewResultStep(m.ctrl.FinalPrompt())
		m.current = m.result
	default:
		m.current = NewDetailsStep(m.ctrl)
	}
	m.buttonBar = NewButtonBar(buttonsFor(step))
	m.updateSize()

	if step == wizard.StepResult {
		return tea.Batch(m.current.Init(), m.loadSummary())
	}
	return m.current.Init()
}

func buttonsFor(step wizard.Step) []Button {
	reset := Button{ID: ButtonReset, Label: "Start over"}
	switch step {
	case wizard.StepInitialDetails:
		return []Button{{ID: ButtonNext, Label: "Next →"}}
	case wizard.StepConfirmation:
		return []Button{reset, {ID: ButtonNext, Label: "Generate prompt"}}
	case wizard.StepResult:
		return []Button{reset, {ID: ButtonEdit, Label: "Edit"}, {ID: ButtonSave, Label: "Save"}}
	}
	return []Button{reset, {ID: ButtonNext, Label: "Next →"}}
}

func (m *Model) activateButton(id ButtonID) tea.Cmd {
	m.buttonFocused = false
	m.buttonBar.Blur()
	switch id {
	case ButtonReset:
		return func() tea.Msg { return ResetRequestedMsg{} }
	case ButtonNext, ButtonSave:
		return m.current.Submit()
	case ButtonEdit:
		if m.result != nil {
			return m.result.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
		}
	}
	return nil
}

func (m *Model) focusButtons(first bool) {
	if m.buttonBar == nil {
		return
	}
	m.current.Blur()
	if first {
		m.buttonBar.FocusFirst()
	} else {
		m.buttonBar.FocusLast()
	}
	m.buttonFocused = m.buttonBar.Focused()
}

func (m *Model) focusLast() tea.Cmd {
	if f, ok := m.current.(interface{ FocusLast() tea.Cmd }); ok {
		return f.FocusLast()
	}
	return m.current.Focus()
}

// getModalContentSize returns the internal content dimensions for the modal.
func (m *Model) getModalContentSize() (width, height int) {
	width = modalContentWidth

	height = m.height - 4
	if height < 20 {
		height = 20
	}
	if height > 44 {
		height = 44
	}
	// Modal chrome: padding, border, header, progress and buttons.
	height -= 12
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *Model) updateSize() {
	w, h := m.getModalContentSize()
	if m.current != nil {
		m.current.SetSize(w, h)
	}
	if m.buttonBar != nil {
		m.buttonBar.SetWidth(w)
	}
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	centered := lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.renderContent(),
	)

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// renderContent renders the modal for the current step.
func (m *Model) renderContent() string {
	if m.saveError != "" {
		return m.renderSaveErrorModal()
	}

	t := theme.Current()
	s := t.S()
	w, _ := m.getModalContentSize()

	title := s.HeaderTitle.Render("promptsmith · " + m.step.Title())
	progress := lipgloss.JoinHorizontal(lipgloss.Center,
		s.StepLabel.Render(m.step.Progress()+"  "),
		renderProgressBar(w-len(m.step.Progress())-2, m.step.Percent()),
	)

	parts := []string{title, progress, ""}
	if m.notice != nil {
		parts = append(parts, m.renderNotice(w), "")
	}
	parts = append(parts, m.current.View(), "")

	if m.busy {
		parts = append(parts, m.spinner.View()+" "+s.Muted.Render(busyLabel(m.step)))
	} else {
		parts = append(parts, m.buttonBar.Render())
	}

	modal := s.Modal.Width(modalWidth)
	return modal.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *Model) renderNotice(width int) string {
	s := theme.Current().S()
	text := m.notice.Message
	if m.notice.Err != nil {
		text += "\n" + s.Muted.Render(m.notice.Err.Error())
	}
	return s.ErrorModal.Padding(0, 1).Width(width).Render(s.ErrorTitle.MarginBottom(0).Render("⚠ ") + text)
}

func busyLabel(step wizard.Step) string {
	switch step {
	case wizard.StepInitialDetails:
		return "Generating clarifying questions..."
	case wizard.StepHeaderSelection:
		return "Planning the prompt..."
	case wizard.StepConfirmation:
		return "Writing the system prompt..."
	}
	return "Working..."
}

// renderSaveErrorModal renders an error modal for save failures.
func (m *Model) renderSaveErrorModal() string {
	s := theme.Current().S()
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.ErrorTitle.Render("⚠ Save Failed"),
		s.ErrorText.Render(fmt.Sprintf("Failed to save prompt: %s", m.saveError)),
		"",
		s.Muted.Render("Press Y to retry, any other key to dismiss"),
	)
	return s.ErrorModal.Width(60).Render(content)
}
