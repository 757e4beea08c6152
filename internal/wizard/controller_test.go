package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advanceTo(t *testing.T, c *Controller, target Step) {
	t.Helper()
	for c.Step() != target {
		res := c.Advance(context.Background())
		require.NoError(t, res.Err())
		require.True(t, res.Advanced(), "stuck at %s", res.From)
	}
}

func TestController_EndToEnd(t *testing.T) {
	gw := &fakeGateway{
		questions: []string{"What ERP system?", "What currency?"},
		plan:      []string{"Validate input", "Call ERP API", "Format output"},
		prompt:    "SYSTEM: ...",
	}
	c := NewController(gw)
	ctx := context.Background()

	require.Equal(t, StepInitialDetails, c.Step())
	c.UpdateFields(FormUpdate{BuildIntent: Ptr("Automate invoice processing")})

	res := c.Advance(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, StepAIQuestions, c.Step())
	assert.Len(t, c.Form().AIQuestions, 2)

	res = c.Advance(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, StepHeaderSelection, c.Step())
	assert.Equal(t, 1, gw.callCount(), "step 2 -> 3 must not call the gateway")

	selected, ok := c.ToggleHeader(3)
	require.True(t, ok)
	assert.True(t, selected)

	res = c.Advance(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, StepConfirmation, c.Step())
	assert.Len(t, c.Form().AIPlan, 3)

	res = c.Advance(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, StepResult, c.Step())
	assert.Equal(t, "SYSTEM: ...", c.FinalPrompt())

	c.Reset()
	assert.Equal(t, StepInitialDetails, c.Step())
	assert.Equal(t, "", c.Form().BuildIntent)
	assert.Equal(t, "", c.FinalPrompt())
}

func TestController_AdvanceFromResultIsNoop(t *testing.T) {
	gw := &fakeGateway{questions: []string{"q"}, plan: []string{"p"}, prompt: "done"}
	c := NewController(gw)
	advanceTo(t, c, StepResult)
	calls := gw.callCount()

	res := c.Advance(context.Background())
	assert.False(t, res.Advanced())
	assert.Nil(t, res.Notice)
	assert.Equal(t, StepResult, c.Step())
	assert.Equal(t, calls, gw.callCount())
	assert.Equal(t, "done", c.FinalPrompt())
}

func TestController_FailureLeavesStateUntouched(t *testing.T) {
	gw := &fakeGateway{questions: []string{"q1"}}
	var notices []Notice
	c := NewController(gw, WithNotifier(func(n Notice) { notices = append(notices, n) }))
	advanceTo(t, c, StepHeaderSelection)

	before := c.Form()
	gw.err = errors.New("quota exceeded")

	res := c.Advance(context.Background())
	require.NotNil(t, res.Notice)
	assert.False(t, res.Advanced())
	assert.Equal(t, StepHeaderSelection, c.Step())
	assert.Empty(t, c.Form().AIPlan)
	assert.Equal(t, before, c.Form())
	assert.False(t, c.Busy())
	require.Len(t, notices, 1)
	assert.Equal(t, FailureMessage, notices[0].Message)
	assert.Equal(t, OpExecutionPlan, notices[0].Op)

	var gerr *GenerationError
	require.ErrorAs(t, res.Err(), &gerr)
	assert.Equal(t, OpExecutionPlan, gerr.Op)
	assert.ErrorContains(t, gerr, "quota exceeded")

	// Retry by resubmission succeeds once the gateway recovers.
	gw.err = nil
	gw.plan = []string{"step"}
	res = c.Advance(context.Background())
	require.NoError(t, res.Err())
	assert.Equal(t, StepConfirmation, c.Step())
	assert.Len(t, notices, 1)
}

func TestController_FailureEachStep(t *testing.T) {
	tests := []struct {
		name string
		at   Step
		op   string
	}{
		{"questions", StepInitialDetails, OpClarifyingQuestions},
		{"plan", StepHeaderSelection, OpExecutionPlan},
		{"final prompt", StepConfirmation, OpFinalSystemPrompt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{questions: []string{"q"}, plan: []string{"p"}, prompt: "x"}
			c := NewController(gw)
			advanceTo(t, c, tt.at)
			before := c.Status()

			gw.err = errors.New("boom")
			res := c.Advance(context.Background())

			require.Error(t, res.Err())
			assert.True(t, IsGenerationError(res.Err()))
			assert.Equal(t, tt.op, res.Notice.Op)
			assert.Equal(t, before, c.Status())
		})
	}
}

func TestController_PlanRequestCarriesSelectionsAndAnswers(t *testing.T) {
	gw := &fakeGateway{questions: []string{"How often?"}, plan: []string{"ok"}}
	c := NewController(gw)
	advanceTo(t, c, StepHeaderSelection)

	want := map[int]bool{1: true, 2: true, 7: true, 23: true}
	for _, h := range c.Form().SelectedHeaders {
		c.SetHeaderSelected(h.ID, want[h.ID])
	}
	require.True(t, c.SetHeaderInput(OutputParserHeaderID, "JSON schema X"))
	c.SetAnswer(0, "daily")

	res := c.Advance(context.Background())
	require.NoError(t, res.Err())
	require.Len(t, gw.planInputs, 1)

	sent := gw.planInputs[0]
	assert.Equal(t, map[int]string{0: "daily"}, sent.UserAnswers)

	var ids []int
	for _, h := range SelectedOnly(sent.SelectedHeaders) {
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []int{1, 2, 7, 23}, ids)

	parser, ok := sent.Header(OutputParserHeaderID)
	require.True(t, ok)
	assert.Equal(t, "JSON schema X", parser.InputValue)
}

func TestController_BusyGuardsOverlap(t *testing.T) {
	gw := &fakeGateway{
		questions: []string{"q"},
		block:     make(chan struct{}),
		started:   make(chan struct{}, 1),
	}
	c := NewController(gw)
	assert.False(t, c.Busy())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Advance(context.Background())
	}()

	<-gw.started
	assert.True(t, c.Busy())

	res := c.Advance(context.Background())
	assert.True(t, res.Skipped)
	assert.Equal(t, StepInitialDetails, c.Step())

	// Edits while busy are still accepted.
	c.UpdateFields(FormUpdate{Tools: Ptr("Gmail")})

	close(gw.block)
	wg.Wait()

	assert.False(t, c.Busy())
	assert.Equal(t, StepAIQuestions, c.Step())
	assert.Equal(t, 1, gw.maxInFlight)
	assert.Equal(t, 1, gw.callCount())
	assert.Equal(t, "Gmail", c.Form().Tools)
}

func TestController_ResetDuringGenerationDiscardsResult(t *testing.T) {
	gw := &fakeGateway{
		questions: []string{"q"},
		block:     make(chan struct{}),
		started:   make(chan struct{}, 1),
	}
	c := NewController(gw)
	c.UpdateFields(FormUpdate{BuildIntent: Ptr("intent")})

	done := make(chan AdvanceResult, 1)
	go func() { done <- c.Advance(context.Background()) }()
	<-gw.started

	c.Reset()
	assert.True(t, c.Busy(), "in-flight call still holds the guard")

	close(gw.block)
	res := <-done

	assert.False(t, res.Advanced())
	assert.True(t, res.Discarded)
	assert.False(t, c.Busy())
	assert.Equal(t, StepInitialDetails, c.Step())
	assert.Equal(t, NewFormState(), c.Form())
}

func TestController_ResetDuringLaterGenerationIsNotAnAdvance(t *testing.T) {
	gw := &fakeGateway{questions: []string{"q"}, plan: []string{"p"}}
	c := NewController(gw)
	c.UpdateFields(FormUpdate{BuildIntent: Ptr("intent")})
	require.True(t, c.Advance(context.Background()).Advanced())
	require.True(t, c.Advance(context.Background()).Advanced())
	require.Equal(t, StepHeaderSelection, c.Step())

	gw.block = make(chan struct{})
	gw.started = make(chan struct{}, 1)
	done := make(chan AdvanceResult, 1)
	go func() { done <- c.Advance(context.Background()) }()
	<-gw.started

	c.Reset()
	close(gw.block)
	res := <-done

	assert.False(t, res.Advanced())
	assert.True(t, res.Discarded)
	assert.Equal(t, StepHeaderSelection, res.From)
	assert.Equal(t, StepHeaderSelection, res.To)
	assert.Equal(t, EffectGeneratePlan, res.Effect)
	assert.NoError(t, res.Err())
	assert.Equal(t, StepInitialDetails, c.Step())
	assert.Empty(t, c.Form().AIPlan)
}

func TestController_ResetLaw(t *testing.T) {
	steps := []Step{StepInitialDetails, StepAIQuestions, StepHeaderSelection, StepConfirmation, StepResult}
	for _, target := range steps {
		t.Run(target.String(), func(t *testing.T) {
			gw := &fakeGateway{questions: []string{"a", "b"}, plan: []string{"p"}, prompt: "final"}
			c := NewController(gw)
			c.UpdateFields(FormUpdate{
				BuildIntent:    Ptr("intent"),
				WorkflowJSON:   Ptr(`{"nodes":[]}`),
				Model:          Ptr("gpt-4o"),
				CharacterCount: Ptr("2000"),
			})
			advanceTo(t, c, target)
			c.SetAnswer(1, "answer")
			c.ToggleHeader(1)
			c.SetHeaderInput(OutputParserHeaderID, "schema")

			c.Reset()

			assert.Equal(t, StepInitialDetails, c.Step())
			assert.Equal(t, NewFormState(), c.Form())
			assert.Equal(t, "", c.FinalPrompt())
			assert.False(t, c.Busy())
		})
	}
}

func TestController_UpdateFieldsMergeLaw(t *testing.T) {
	c := NewController(&fakeGateway{})

	first := FormUpdate{BuildIntent: Ptr("one"), Model: Ptr("gemini")}
	second := FormUpdate{BuildIntent: Ptr("two"), Tools: Ptr("Slack")}

	c.UpdateFields(first)
	c.UpdateFields(second)
	got := c.Form()

	assert.Equal(t, "two", got.BuildIntent)
	assert.Equal(t, "gemini", got.Model)
	assert.Equal(t, "Slack", got.Tools)
	assert.Equal(t, second.Apply(first.Apply(NewFormState())), got)

	// Applying the same update again changes nothing.
	c.UpdateFields(second)
	assert.Equal(t, got, c.Form())
	assert.Equal(t, StepInitialDetails, c.Step())
}

func TestController_UpdateFieldsDoesNotAliasCaller(t *testing.T) {
	c := NewController(&fakeGateway{})
	answers := map[int]string{0: "first"}
	c.UpdateFields(FormUpdate{UserAnswers: &answers})

	answers[0] = "mutated"
	assert.Equal(t, "first", c.Form().Answer(0))

	form := c.Form()
	form.SelectedHeaders[0].Selected = false
	assert.True(t, c.Form().SelectedHeaders[0].Selected)
}

func TestController_RequiredHeadersCanBeDeselected(t *testing.T) {
	c := NewController(&fakeGateway{})

	selected, ok := c.ToggleHeader(1)
	require.True(t, ok)
	assert.False(t, selected)

	h, _ := c.Form().Header(1)
	assert.True(t, h.Required)
	assert.False(t, h.Selected)

	_, ok = c.ToggleHeader(99)
	assert.False(t, ok)
}

func TestController_EmptyResultsAreValid(t *testing.T) {
	gw := &fakeGateway{questions: []string{}, plan: []string{}, prompt: ""}
	c := NewController(gw)

	advanceTo(t, c, StepResult)
	assert.Empty(t, c.Form().AIQuestions)
	assert.Empty(t, c.Form().AIPlan)
	assert.Equal(t, "", c.FinalPrompt())
}

type slowGateway struct{ fakeGateway }

func (s *slowGateway) GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestController_TimeoutFailsAttempt(t *testing.T) {
	c := NewController(&slowGateway{}, WithTimeout(20*time.Millisecond))

	res := c.Advance(context.Background())
	require.Error(t, res.Err())
	assert.ErrorIs(t, res.Err(), context.DeadlineExceeded)
	assert.Equal(t, StepInitialDetails, c.Step())
	assert.False(t, c.Busy())
}

type panicGateway struct{ fakeGateway }

func (p *panicGateway) GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error) {
	panic("bad response")
}

func TestController_PanicReleasesBusy(t *testing.T) {
	c := NewController(&panicGateway{})

	res := c.Advance(context.Background())
	require.Error(t, res.Err())
	assert.Contains(t, res.Err().Error(), "bad response")
	assert.False(t, c.Busy())
	assert.Equal(t, StepInitialDetails, c.Step())
}

func TestController_ObserverSeesChanges(t *testing.T) {
	gw := &fakeGateway{questions: []string{"q"}}
	var kinds []ChangeKind
	c := NewController(gw, WithObserver(func(ch Change) { kinds = append(kinds, ch.Kind) }))

	c.Advance(context.Background())
	gw.err = errors.New("nope")
	c.Advance(context.Background()) // step 2 -> 3 is local and succeeds
	c.Advance(context.Background())
	c.Reset()

	assert.Equal(t, []ChangeKind{ChangeAdvanced, ChangeAdvanced, ChangeFailed, ChangeReset}, kinds)
}
