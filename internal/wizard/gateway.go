package wizard

import (
	"context"
	"errors"
	"fmt"
)

// Gateway is the boundary to the generative AI service.
// Implementations may be slow and may fail for reasons outside the
// controller's control; any error is treated as a recoverable failure of
// that single attempt.
type Gateway interface {
	GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error)
	GenerateExecutionPlan(ctx context.Context, form FormState) ([]string, error)
	GenerateFinalSystemPrompt(ctx context.Context, form FormState) (string, error)
}

// Gateway operation names, used in errors, logs and journal events.
const (
	OpClarifyingQuestions = "generate_clarifying_questions"
	OpExecutionPlan       = "generate_execution_plan"
	OpFinalSystemPrompt   = "generate_final_system_prompt"
)

// OpForEffect returns the gateway operation an effect triggers.
func OpForEffect(e Effect) string {
	switch e {
	case EffectGenerateQuestions:
		return OpClarifyingQuestions
	case EffectGeneratePlan:
		return OpExecutionPlan
	case EffectGenerateFinalPrompt:
		return OpFinalSystemPrompt
	}
	return ""
}

// GenerationError is the single failure kind surfaced by the controller.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError wraps err unless it already is a GenerationError.
func NewGenerationError(op string, err error) *GenerationError {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge
	}
	return &GenerationError{Op: op, Err: err}
}

// IsGenerationError reports whether err is or wraps a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
