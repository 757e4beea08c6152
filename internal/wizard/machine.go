package wizard

// Event drives the step machine.
type Event int

const (
	EventAdvance Event = iota
	EventReset
)

// Effect is the side effect the controller must perform for a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectGenerateQuestions
	EffectGeneratePlan
	EffectGenerateFinalPrompt
	EffectClearSession
)

// String returns the effect name used in logs.
func (e Effect) String() string {
	switch e {
	case EffectGenerateQuestions:
		return "generate_questions"
	case EffectGeneratePlan:
		return "generate_plan"
	case EffectGenerateFinalPrompt:
		return "generate_final_prompt"
	case EffectClearSession:
		return "clear_session"
	default:
		return "none"
	}
}

// NeedsGateway reports whether the effect calls the AI gateway.
func (e Effect) NeedsGateway() bool {
	switch e {
	case EffectGenerateQuestions, EffectGeneratePlan, EffectGenerateFinalPrompt:
		return true
	}
	return false
}

// Transition is the pure step function. It never moves backward; the only
// way back to the first step is EventReset.
func Transition(from Step, ev Event) (Step, Effect) {
	if ev == EventReset {
		return StepInitialDetails, EffectClearSession
	}

	switch from {
	case StepInitialDetails:
		return StepAIQuestions, EffectGenerateQuestions
	case StepAIQuestions:
		return StepHeaderSelection, EffectNone
	case StepHeaderSelection:
		return StepConfirmation, EffectGeneratePlan
	case StepConfirmation:
		return StepResult, EffectGenerateFinalPrompt
	default:
		return from, EffectNone
	}
}
