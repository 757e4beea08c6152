package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from   Step
		event  Event
		to     Step
		effect Effect
	}{
		{StepInitialDetails, EventAdvance, StepAIQuestions, EffectGenerateQuestions},
		{StepAIQuestions, EventAdvance, StepHeaderSelection, EffectNone},
		{StepHeaderSelection, EventAdvance, StepConfirmation, EffectGeneratePlan},
		{StepConfirmation, EventAdvance, StepResult, EffectGenerateFinalPrompt},
		{StepResult, EventAdvance, StepResult, EffectNone},
		{StepInitialDetails, EventReset, StepInitialDetails, EffectClearSession},
		{StepConfirmation, EventReset, StepInitialDetails, EffectClearSession},
		{StepResult, EventReset, StepInitialDetails, EffectClearSession},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.effect.String(), func(t *testing.T) {
			to, effect := Transition(tt.from, tt.event)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.effect, effect)
		})
	}
}

func TestTransition_NeverMovesBackward(t *testing.T) {
	for s := StepInitialDetails; s <= StepResult; s++ {
		to, _ := Transition(s, EventAdvance)
		assert.GreaterOrEqual(t, int(to), int(s))
	}
}

func TestEffect_NeedsGateway(t *testing.T) {
	assert.True(t, EffectGenerateQuestions.NeedsGateway())
	assert.True(t, EffectGeneratePlan.NeedsGateway())
	assert.True(t, EffectGenerateFinalPrompt.NeedsGateway())
	assert.False(t, EffectNone.NeedsGateway())
	assert.False(t, EffectClearSession.NeedsGateway())
}

func TestStep_Labels(t *testing.T) {
	assert.Equal(t, "Step 1 of 5", StepInitialDetails.Progress())
	assert.Equal(t, "Step 5 of 5", StepResult.Progress())
	assert.Equal(t, "Prompt Structure", StepHeaderSelection.Title())
	assert.InDelta(t, 60.0, StepHeaderSelection.Percent(), 0.001)
	assert.False(t, Step(0).Valid())
	assert.Equal(t, "step(9)", Step(9).String())
}
