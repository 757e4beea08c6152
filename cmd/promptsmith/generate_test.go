package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/promptsmith/internal/gateway"
	"github.com/mark3labs/promptsmith/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrief(t *testing.T) {
	b, err := parseBrief([]byte(`
build_intent: Billing support agent
tools: Stripe, Gmail
answers:
  - EU customers
  - Friendly
headers: [1, 2, 23]
output_parser: '{"reply": "string"}'
`))
	require.NoError(t, err)
	assert.Equal(t, "Billing support agent", b.BuildIntent)
	assert.Equal(t, "Stripe, Gmail", b.Tools)
	assert.Equal(t, []string{"EU customers", "Friendly"}, b.Answers)
	assert.Equal(t, []int{1, 2, 23}, b.Headers)
	assert.Equal(t, `{"reply": "string"}`, b.OutputParser)
}

func TestParseBrief_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing intent", "tools: Slack\n", "build_intent is required"},
		{"blank intent", "build_intent: '   '\n", "build_intent is required"},
		{"unknown header", "build_intent: x\nheaders: [99]\n", "unknown header id 99"},
		{"bad yaml", "build_intent: [\n", "failed to parse brief"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseBrief([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadBrief_MissingFile(t *testing.T) {
	_, err := loadBrief(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read brief")
}

func TestRunBrief_Offline(t *testing.T) {
	ctrl := wizard.NewController(gateway.NewOffline())
	b := &Brief{
		BuildIntent:  "Billing support agent",
		Tools:        "Stripe",
		Answers:      []string{"EU customers", "Friendly", "Ask once", "Webhook", "ignored"},
		Headers:      []int{1, 2, 7},
		OutputParser: `{"reply": "string"}`,
	}

	prompt, err := runBrief(context.Background(), ctrl, b)
	require.NoError(t, err)

	assert.Equal(t, wizard.StepResult, ctrl.Step())
	assert.Contains(t, prompt, "## Role / Identity")
	assert.Contains(t, prompt, "Billing support agent")
	assert.Contains(t, prompt, "Use only these tools: Stripe.")
	assert.Contains(t, prompt, `{"reply": "string"}`)
	assert.Contains(t, prompt, "A1: EU customers")
	assert.NotContains(t, prompt, "ignored")
	// Required sections left out of the brief stay unselected.
	assert.NotContains(t, prompt, "## Rules & Constraints")

	form := ctrl.Form()
	selected := wizard.SelectedOnly(form.SelectedHeaders)
	require.Len(t, selected, 4)
	assert.Equal(t, wizard.OutputParserHeaderID, selected[3].ID)
	assert.Len(t, form.AIPlan, 4)
}

func TestRunBrief_DefaultHeaders(t *testing.T) {
	ctrl := wizard.NewController(gateway.NewOffline())

	prompt, err := runBrief(context.Background(), ctrl, &Brief{BuildIntent: "Triage agent"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "## Rules & Constraints")
	assert.Len(t, wizard.SelectedOnly(ctrl.Form().SelectedHeaders), 7)
}

func TestRunBrief_ResetsPreviousSession(t *testing.T) {
	ctrl := wizard.NewController(gateway.NewOffline())
	ctrl.UpdateFields(wizard.FormUpdate{Tools: wizard.Ptr("Slack")})

	_, err := runBrief(context.Background(), ctrl, &Brief{BuildIntent: "Triage agent"})
	require.NoError(t, err)
	assert.Empty(t, ctrl.Form().Tools)
}

func TestRunBrief_CancelledContext(t *testing.T) {
	ctrl := wizard.NewController(gateway.NewOffline())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runBrief(ctx, ctrl, &Brief{BuildIntent: "Triage agent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), wizard.StepInitialDetails.Title())
	assert.Equal(t, wizard.StepInitialDetails, ctrl.Step())
}

func TestRunHeaders(t *testing.T) {
	out := new(bytes.Buffer)
	headersCmd.SetOut(out)
	t.Cleanup(func() { headersCmd.SetOut(os.Stdout) })

	require.NoError(t, runHeaders(headersCmd, nil))
	assert.Contains(t, out.String(), " 1 * Role / Identity")
	assert.Contains(t, out.String(), "23   Output Structure Parser (takes input)")
}
