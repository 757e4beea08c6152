package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/promptfile"
	"github.com/mark3labs/promptsmith/internal/wizard"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Brief is the YAML input of a headless generate run. It carries
// everything the interactive wizard would ask for.
type Brief struct {
	BuildIntent    string `yaml:"build_intent"`
	WorkflowJSON   string `yaml:"workflow_json"`
	Model          string `yaml:"model"`
	CharacterCount string `yaml:"character_count"`
	Tools          string `yaml:"tools"`
	ExpectedInput  string `yaml:"expected_input"`
	ExpectedOutput string `yaml:"expected_output"`

	// Answers are matched to the generated questions by position.
	Answers []string `yaml:"answers"`

	// Headers, when set, is the exact list of selected section ids.
	// Otherwise the default selection is kept.
	Headers      []int  `yaml:"headers"`
	OutputParser string `yaml:"output_parser"`
}

var generateFlags struct {
	brief     string
	out       string
	stdout    bool
	overwrite bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a system prompt from a brief without the interactive wizard",
	Long: `Run all five wizard steps from a YAML brief and save the result.

Example brief:

  build_intent: Support agent that answers billing questions
  tools: Stripe, Gmail
  answers:
    - Customers of the EU store
    - Friendly but brief
  headers: [1, 2, 7, 8, 9, 11, 14, 23]
  output_parser: '{"reply": "string"}'

Answers are matched to the generated questions in order; extra answers are
ignored and missing ones are left blank.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFlags.brief, "brief", "b", "", "Path to the YAML brief (required)")
	generateCmd.Flags().StringVarP(&generateFlags.out, "out", "o", "", "Directory to save the prompt in (defaults to output_dir)")
	generateCmd.Flags().BoolVar(&generateFlags.stdout, "stdout", false, "Print the prompt instead of saving it")
	generateCmd.Flags().BoolVarP(&generateFlags.overwrite, "force", "f", false, "Overwrite an existing prompt file")
	_ = generateCmd.MarkFlagRequired("brief")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	brief, err := loadBrief(generateFlags.brief)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	prompt, err := runBrief(ctx, a.ctrl, brief)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if generateFlags.stdout {
		fmt.Fprintln(out, prompt)
		return nil
	}

	dir := generateFlags.out
	if dir == "" {
		dir = a.cfg.OutputDir
	}
	path, err := promptfile.Save(dir, promptfile.Entry{
		Intent:  brief.BuildIntent,
		Model:   a.model,
		Content: prompt,
	}, generateFlags.overwrite)
	if errors.Is(err, promptfile.ErrExists) {
		return fmt.Errorf("%s already exists\n\nUse --force to overwrite", path)
	}
	if err != nil {
		return err
	}
	if a.journal != nil {
		if err := a.journal.RecordSaved(ctx, path); err != nil {
			logger.Warn("Failed to record save: %v", err)
		}
	}
	fmt.Fprintf(out, "Prompt saved to: %s\n", path)
	return nil
}

// loadBrief reads and decodes a brief file.
func loadBrief(path string) (*Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brief: %w", err)
	}
	return parseBrief(data)
}

func parseBrief(data []byte) (*Brief, error) {
	var b Brief
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse brief: %w", err)
	}
	if strings.TrimSpace(b.BuildIntent) == "" {
		return nil, fmt.Errorf("brief: build_intent is required")
	}
	for _, id := range b.Headers {
		if _, ok := wizard.LookupHeader(id); !ok {
			return nil, fmt.Errorf("brief: unknown header id %d", id)
		}
	}
	return &b, nil
}

// runBrief drives ctrl from the first step to the result and returns the
// final prompt.
func runBrief(ctx context.Context, ctrl *wizard.Controller, b *Brief) (string, error) {
	ctrl.Reset()
	ctrl.UpdateFields(wizard.FormUpdate{
		BuildIntent:    wizard.Ptr(b.BuildIntent),
		WorkflowJSON:   wizard.Ptr(b.WorkflowJSON),
		Model:          wizard.Ptr(b.Model),
		CharacterCount: wizard.Ptr(b.CharacterCount),
		Tools:          wizard.Ptr(b.Tools),
		ExpectedInput:  wizard.Ptr(b.ExpectedInput),
		ExpectedOutput: wizard.Ptr(b.ExpectedOutput),
	})

	if err := advance(ctx, ctrl); err != nil {
		return "", err
	}

	questions := ctrl.Form().AIQuestions
	for i, answer := range b.Answers {
		if i >= len(questions) {
			logger.Warn("Brief has %d answers for %d questions, ignoring the rest", len(b.Answers), len(questions))
			break
		}
		ctrl.SetAnswer(i, answer)
	}

	if b.Headers != nil {
		want := make(map[int]bool, len(b.Headers))
		for _, id := range b.Headers {
			want[id] = true
		}
		for _, h := range wizard.Catalog() {
			ctrl.SetHeaderSelected(h.ID, want[h.ID])
		}
	}
	if b.OutputParser != "" {
		ctrl.SetHeaderSelected(wizard.OutputParserHeaderID, true)
		ctrl.SetHeaderInput(wizard.OutputParserHeaderID, b.OutputParser)
	}

	// Questions -> headers -> confirmation -> result.
	for range 3 {
		if err := advance(ctx, ctrl); err != nil {
			return "", err
		}
	}
	if ctrl.Step() != wizard.StepResult {
		return "", fmt.Errorf("wizard stopped at %s", ctrl.Step())
	}
	return ctrl.FinalPrompt(), nil
}

func advance(ctx context.Context, ctrl *wizard.Controller) error {
	res := ctrl.Advance(ctx)
	if res.Skipped {
		return fmt.Errorf("%s: generation already in progress", res.From)
	}
	if res.Discarded {
		return fmt.Errorf("%s: session was reset during generation", res.From.Title())
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("%s: %w", res.From.Title(), err)
	}
	logger.Info("%s done", res.From.Title())
	return nil
}
