// Package template renders the prompts sent to the generation service.
package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// Kind selects one of the three request templates.
type Kind string

const (
	KindQuestions Kind = "questions"
	KindPlan      Kind = "plan"
	KindFinal     Kind = "final"
)

// Variables holds the data to be injected into template placeholders.
type Variables struct {
	Intent     string // What the user wants to build
	Workflow   string // n8n workflow JSON, if any
	Model      string // Target chat model
	Characters string // Desired prompt length
	Tools      string // Tools available to the agent
	Input      string // Expected agent input
	Output     string // Expected agent output
	Answers    string // Formatted clarifying Q&A
	Headers    string // Formatted selected headers
	Plan       string // Formatted execution plan
}

// Render replaces {{variable}} placeholders in template with actual values.
// Supports the following variables:
// - {{intent}}, {{workflow}}, {{model}}, {{characters}}
// - {{tools}}, {{input}}, {{output}}
// - {{answers}} - Q&A pairs (empty if no questions)
// - {{headers}} - selected headers, one per line
// - {{plan}} - numbered execution plan
func Render(template string, vars Variables) string {
	result := template

	replacements := map[string]string{
		"{{intent}}":     vars.Intent,
		"{{workflow}}":   vars.Workflow,
		"{{model}}":      vars.Model,
		"{{characters}}": vars.Characters,
		"{{tools}}":      vars.Tools,
		"{{input}}":      vars.Input,
		"{{output}}":     vars.Output,
		"{{answers}}":    vars.Answers,
		"{{headers}}":    vars.Headers,
		"{{plan}}":       vars.Plan,
	}

	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// LoadFromFile loads a template from a file.
func LoadFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", path, err)
	}
	return string(data), nil
}

// Default returns the embedded template for kind.
func Default(kind Kind) (string, error) {
	switch kind {
	case KindQuestions:
		return QuestionsTemplate, nil
	case KindPlan:
		return PlanTemplate, nil
	case KindFinal:
		return FinalTemplate, nil
	}
	return "", fmt.Errorf("unknown template kind %q", kind)
}

// GetTemplate returns the template for kind. When dir is non-empty and
// contains <kind>.md, that file wins over the embedded default.
func GetTemplate(dir string, kind Kind) (string, error) {
	if dir != "" {
		path := filepath.Join(dir, string(kind)+".md")
		content, err := LoadFromFile(path)
		if err == nil {
			logger.Debug("Using custom %s template: %s", kind, path)
			return content, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return Default(kind)
}

// FromForm builds the variables for a form snapshot.
func FromForm(form wizard.FormState) Variables {
	return Variables{
		Intent:     form.BuildIntent,
		Workflow:   orNone(form.WorkflowJSON),
		Model:      orNone(form.Model),
		Characters: orNone(form.CharacterCount),
		Tools:      orNone(form.Tools),
		Input:      orNone(form.ExpectedInput),
		Output:     orNone(form.ExpectedOutput),
		Answers:    FormatAnswers(form.AIQuestions, form.UserAnswers),
		Headers:    FormatHeaders(form.SelectedHeaders),
		Plan:       FormatPlan(form.AIPlan),
	}
}

// Build renders the template of the given kind for form.
func Build(dir string, kind Kind, form wizard.FormState) (string, error) {
	content, err := GetTemplate(dir, kind)
	if err != nil {
		return "", fmt.Errorf("failed to get template: %w", err)
	}
	result := Render(content, FromForm(form))
	logger.Debug("Rendered %s prompt: %d characters", kind, len(result))
	return result, nil
}

// FormatAnswers pairs every question with its answer. Questions without an
// answer are kept and marked so the model knows they were skipped.
func FormatAnswers(questions []string, answers map[int]string) string {
	if len(questions) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, q := range questions {
		answer := strings.TrimSpace(answers[i])
		if answer == "" {
			answer = "(no answer)"
		}
		sb.WriteString(fmt.Sprintf("Q%d: %s\nA%d: %s\n", i+1, q, i+1, answer))
	}
	return sb.String()
}

// FormatHeaders lists the selected headers in catalog order. Headers that
// take input carry it after a colon.
func FormatHeaders(headers []wizard.PromptHeader) string {
	var sb strings.Builder
	for _, h := range wizard.SelectedOnly(headers) {
		sb.WriteString("- ")
		sb.WriteString(h.Label)
		if h.RequiresInput && strings.TrimSpace(h.InputValue) != "" {
			sb.WriteString(": ")
			sb.WriteString(h.InputValue)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatPlan numbers the plan steps.
func FormatPlan(plan []string) string {
	var sb strings.Builder
	for i, step := range plan {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	return sb.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}
