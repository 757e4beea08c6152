package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/promptsmith/internal/template"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// Offline is a deterministic Gateway that never leaves the process. It is
// used when no API key is configured and in demos.
type Offline struct{}

// NewOffline returns an offline gateway.
func NewOffline() *Offline {
	return &Offline{}
}

func (o *Offline) GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	questions := []string{
		"Who will interact with this agent, and in what channel?",
		"Which systems or APIs must the agent read from or write to?",
		"What should the agent do when required information is missing?",
	}
	if strings.TrimSpace(workflowJSON) == "" {
		questions = append(questions, "Which trigger starts the workflow?")
	}
	return questions, nil
}

func (o *Offline) GenerateExecutionPlan(ctx context.Context, form wizard.FormState) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var plan []string
	for _, h := range wizard.SelectedOnly(form.SelectedHeaders) {
		plan = append(plan, fmt.Sprintf("Write the %s section", h.Label))
	}
	return plan, nil
}

func (o *Offline) GenerateFinalSystemPrompt(ctx context.Context, form wizard.FormState) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# System Prompt\n\n")
	for _, h := range wizard.SelectedOnly(form.SelectedHeaders) {
		sb.WriteString("## ")
		sb.WriteString(h.Label)
		sb.WriteString("\n\n")
		sb.WriteString(offlineSection(h, form))
		sb.WriteString("\n\n")
	}
	if answers := template.FormatAnswers(form.AIQuestions, form.UserAnswers); answers != "" {
		sb.WriteString("## Clarifications\n\n")
		sb.WriteString(answers)
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

func offlineSection(h wizard.PromptHeader, form wizard.FormState) string {
	switch h.ID {
	case 1:
		return "You are an AI agent running inside an n8n workflow."
	case 2:
		return strings.TrimSpace(form.BuildIntent)
	case 7:
		if form.Tools != "" {
			return "Use only these tools: " + form.Tools + "."
		}
		return "Use only the tools connected to this agent."
	case 9:
		if form.ExpectedInput != "" {
			return "You will receive: " + form.ExpectedInput + "."
		}
	case 14:
		if form.ExpectedOutput != "" {
			return "Respond with: " + form.ExpectedOutput + "."
		}
	case wizard.OutputParserHeaderID:
		if h.InputValue != "" {
			return "Your output must match this structure:\n\n" + h.InputValue
		}
	}
	return "Follow the " + strings.ToLower(h.Label) + " guidance agreed with the user."
}
