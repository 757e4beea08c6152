package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/promptsmith/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGateway struct {
	calls int
	err   error
}

func (c *countingGateway) GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []string{"q for " + intent}, nil
}

func (c *countingGateway) GenerateExecutionPlan(ctx context.Context, form wizard.FormState) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []string{"plan for " + form.BuildIntent}, nil
}

func (c *countingGateway) GenerateFinalSystemPrompt(ctx context.Context, form wizard.FormState) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "prompt for " + form.BuildIntent, nil
}

func TestWrap_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next wizard.Gateway) wizard.Gateway {
			order = append(order, name)
			return next
		}
	}

	Wrap(&countingGateway{}, mark("A"), nil, mark("B"))
	assert.Equal(t, []string{"B", "A"}, order, "innermost middleware is applied first")
}

func TestWithCache(t *testing.T) {
	inner := &countingGateway{}
	gw := Wrap(inner, WithCache(8))
	ctx := context.Background()

	form := wizard.NewFormState()
	form.BuildIntent = "bot"
	plan1, err := gw.GenerateExecutionPlan(ctx, form)
	require.NoError(t, err)
	plan2, err := gw.GenerateExecutionPlan(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, plan1, plan2)
	assert.Equal(t, 1, inner.calls)

	// Returned slices are copies.
	plan2[0] = "mutated"
	plan3, _ := gw.GenerateExecutionPlan(ctx, form)
	assert.Equal(t, plan1[0], plan3[0])

	form.UserAnswers = map[int]string{0: "daily"}
	_, err = gw.GenerateExecutionPlan(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "a changed form is a different request")

	p1, _ := gw.GenerateFinalSystemPrompt(ctx, form)
	p2, _ := gw.GenerateFinalSystemPrompt(ctx, form)
	assert.Equal(t, p1, p2)
	assert.Equal(t, 3, inner.calls)
}

func TestWithCache_QuestionsAlwaysRegenerated(t *testing.T) {
	inner := &countingGateway{}
	gw := Wrap(inner, WithCache(8))
	ctx := context.Background()

	for range 3 {
		got, err := gw.GenerateClarifyingQuestions(ctx, "bot", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"q for bot"}, got)
	}
	assert.Equal(t, 3, inner.calls)
}

func TestWithCache_FailuresNotCached(t *testing.T) {
	inner := &countingGateway{err: errors.New("quota")}
	gw := Wrap(inner, WithCache(8))
	form := wizard.FormState{BuildIntent: "bot"}

	_, err := gw.GenerateFinalSystemPrompt(context.Background(), form)
	require.Error(t, err)

	inner.err = nil
	got, err := gw.GenerateFinalSystemPrompt(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "prompt for bot", got)
	assert.Equal(t, 2, inner.calls)
}

func TestWithCache_Disabled(t *testing.T) {
	inner := &countingGateway{}
	gw := WithCache(0)(inner)
	assert.Same(t, inner, gw)
}

func TestWithLogging_PassesThrough(t *testing.T) {
	inner := &countingGateway{}
	gw := Wrap(inner, WithLogging())

	got, err := gw.GenerateFinalSystemPrompt(context.Background(), wizard.FormState{BuildIntent: "x"})
	require.NoError(t, err)
	assert.Equal(t, "prompt for x", got)

	inner.err = errors.New("down")
	_, err = gw.GenerateExecutionPlan(context.Background(), wizard.FormState{})
	assert.EqualError(t, err, "down")
}

func TestWithRateLimit(t *testing.T) {
	inner := &countingGateway{}
	assert.Same(t, inner, WithRateLimit(0, 1)(inner))

	gw := WithRateLimit(1000, 1)(inner)
	_, err := gw.GenerateClarifyingQuestions(context.Background(), "a", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = WithRateLimit(0.001, 1)(inner).GenerateExecutionPlan(ctx, wizard.FormState{})
	assert.Error(t, err)
}

func TestOffline_DrivesControllerToResult(t *testing.T) {
	c := wizard.NewController(NewOffline())
	c.UpdateFields(wizard.FormUpdate{
		BuildIntent: wizard.Ptr("Triage support email"),
		Tools:       wizard.Ptr("Gmail, Zendesk"),
	})
	c.SetHeaderInput(wizard.OutputParserHeaderID, `{"priority": "string"}`)
	c.SetHeaderSelected(wizard.OutputParserHeaderID, true)

	for c.Step() != wizard.StepResult {
		res := c.Advance(context.Background())
		require.NoError(t, res.Err())
	}

	form := c.Form()
	assert.Len(t, form.AIQuestions, 4)
	assert.Len(t, form.AIPlan, 8)

	prompt := c.FinalPrompt()
	assert.Contains(t, prompt, "## Role / Identity")
	assert.Contains(t, prompt, "Triage support email")
	assert.Contains(t, prompt, "Gmail, Zendesk")
	assert.Contains(t, prompt, `{"priority": "string"}`)
	assert.NotContains(t, prompt, "## Scope of Work")
}
