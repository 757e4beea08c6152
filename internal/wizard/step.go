package wizard

import "fmt"

// Step is one of the five ordered wizard screens.
type Step int

const (
	StepInitialDetails Step = iota + 1
	StepAIQuestions
	StepHeaderSelection
	StepConfirmation
	StepResult
)

// StepCount is the number of steps shown in the progress indicator.
const StepCount = 5

var stepTitles = map[Step]string{
	StepInitialDetails:  "Project Details",
	StepAIQuestions:     "AI Clarification",
	StepHeaderSelection: "Prompt Structure",
	StepConfirmation:    "Review Plan",
	StepResult:          "Final Result",
}

// String returns a stable identifier for logs and journal events.
func (s Step) String() string {
	switch s {
	case StepInitialDetails:
		return "initial_details"
	case StepAIQuestions:
		return "ai_questions"
	case StepHeaderSelection:
		return "header_selection"
	case StepConfirmation:
		return "confirmation"
	case StepResult:
		return "result"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Title returns the human-readable screen title.
func (s Step) Title() string {
	if t, ok := stepTitles[s]; ok {
		return t
	}
	return ""
}

// Progress returns the "Step N of 5" label.
func (s Step) Progress() string {
	return fmt.Sprintf("Step %d of %d", int(s), StepCount)
}

// Percent returns completion as a percentage of the step count.
func (s Step) Percent() float64 {
	return float64(s) / float64(StepCount) * 100
}

// Valid reports whether s is one of the five defined steps.
func (s Step) Valid() bool {
	return s >= StepInitialDetails && s <= StepResult
}
