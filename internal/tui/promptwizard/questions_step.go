package promptwizard

import (
	"fmt"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/promptsmith/internal/tui/theme"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// QuestionsStep shows the generated clarifying questions one at a time.
// Unanswered questions are allowed.
type QuestionsStep struct {
	ctrl      *wizard.Controller
	questions []string
	answers   []textarea.Model
	current   int
	width     int
	height    int
}

// NewQuestionsStep creates the questions step from the current form.
func NewQuestionsStep(ctrl *wizard.Controller) *QuestionsStep {
	form := ctrl.Form()
	q := &QuestionsStep{
		ctrl:      ctrl,
		questions: form.AIQuestions,
		answers:   make([]textarea.Model, len(form.AIQuestions)),
		width:     60,
	}
	for i := range form.AIQuestions {
		ta := textarea.New()
		ta.Placeholder = "Type your answer..."
		ta.CharLimit = 2000
		ta.ShowLineNumbers = false
		ta.SetHeight(4)
		ta.SetWidth(60)
		ta.SetValue(form.Answer(i))
		q.answers[i] = ta
	}
	if len(q.answers) > 0 {
		q.answers[0].Focus()
	}
	return q
}

// Init initializes the questions step.
func (q *QuestionsStep) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the questions step.
func (q *QuestionsStep) Update(msg tea.Msg) tea.Cmd {
	if len(q.answers) == 0 {
		if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "tab" {
			return func() tea.Msg { return TabExitForwardMsg{} }
		}
		return nil
	}

	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab", "pgdown":
			if q.current == len(q.answers)-1 {
				return func() tea.Msg { return TabExitForwardMsg{} }
			}
			return q.setCurrent(q.current + 1)
		case "shift+tab", "pgup":
			if q.current == 0 {
				return func() tea.Msg { return TabExitBackwardMsg{} }
			}
			return q.setCurrent(q.current - 1)
		}
	}

	before := q.answers[q.current].Value()
	var cmd tea.Cmd
	q.answers[q.current], cmd = q.answers[q.current].Update(msg)
	if after := q.answers[q.current].Value(); after != before {
		q.ctrl.SetAnswer(q.current, after)
	}
	return cmd
}

func (q *QuestionsStep) setCurrent(i int) tea.Cmd {
	q.answers[q.current].Blur()
	q.current = i
	return q.answers[i].Focus()
}

// Current returns the index of the question being answered.
func (q *QuestionsStep) Current() int {
	return q.current
}

// Focus focuses the first question.
func (q *QuestionsStep) Focus() tea.Cmd {
	if len(q.answers) == 0 {
		return nil
	}
	return q.setCurrent(0)
}

// FocusLast focuses the last question.
func (q *QuestionsStep) FocusLast() tea.Cmd {
	if len(q.answers) == 0 {
		return nil
	}
	return q.setCurrent(len(q.answers) - 1)
}

// Blur blurs the current answer.
func (q *QuestionsStep) Blur() {
	if len(q.answers) > 0 {
		q.answers[q.current].Blur()
	}
}

// Submit requests an advance. Answers are already stored.
func (q *QuestionsStep) Submit() tea.Cmd {
	return func() tea.Msg { return AdvanceRequestedMsg{} }
}

// SetSize updates the size of the questions step.
func (q *QuestionsStep) SetSize(width, height int) {
	q.width = width
	q.height = height
	for i := range q.answers {
		q.answers[i].SetWidth(width - 4)
	}
}

// View renders the questions step.
func (q *QuestionsStep) View() string {
	s := theme.Current().S()

	if len(q.questions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Instruction.Render("No clarifying questions were needed."),
			renderHintBar("ctrl+n", "continue"),
		)
	}

	parts := []string{
		s.Instruction.Render("Answer what you can. Skipped questions are fine."),
		s.StepLabel.Render(fmt.Sprintf("Question %d of %d", q.current+1, len(q.questions))),
		s.Label.Width(q.width).Render(q.questions[q.current]),
		s.InputBoxFocused.Width(q.width).Render(q.answers[q.current].View()),
	}

	// Compact overview of the remaining questions.
	for i, question := range q.questions {
		if i == q.current {
			continue
		}
		mark := s.Unchecked.Render("○")
		if q.answers[i].Value() != "" {
			mark = s.Checked.Render("●")
		}
		parts = append(parts, fmt.Sprintf("%s %s", mark, s.Muted.Render(truncateText(question, q.width-4))))
	}

	parts = append(parts, "", renderHintBar("tab", "next question", "shift+tab", "previous", "ctrl+n", "continue"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
