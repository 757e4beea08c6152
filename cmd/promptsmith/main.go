package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/tui/promptwizard"
	"github.com/mark3labs/promptsmith/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀█ █▀█ █▀█ █▀▄▀█ █▀█ ▀█▀ █▀ █▀▄▀█ █ ▀█▀ █ █"
	logoText2 = "█▀▀ █▀▄ █▄█ █ ▀ █ █▀▀  █  ▄█ █ ▀ █ █  █  █▀█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "promptsmith",
	Short: "Build n8n agent system prompts with AI clarifying questions",
	RunE:  runWizard,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

promptsmith walks you through five steps to a finished system prompt for an
n8n AI Agent node: describe the agent, answer AI-generated clarifying
questions, pick the prompt sections, review the plan, then edit and save the
result.

Without an API key the wizard runs on a built-in offline generator.`

	pf := rootCmd.PersistentFlags()
	pf.StringP("model", "m", "", "Gemini model used for generation")
	pf.Bool("offline", false, "Use the built-in offline generator instead of Gemini")
	pf.String("output-dir", "", "Directory prompts are saved to")
	pf.String("templates-dir", "", "Directory with questions.md, plan.md and final.md overrides")
	pf.Duration("timeout", 0, "Bound on each generation call")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-file", "", "Write logs to this file")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(headersCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
}

func runWizard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := promptwizard.Options{
		OutputDir: a.cfg.OutputDir,
		Model:     a.model,
	}
	if a.journal != nil {
		opts.Journal = a.journal
	}
	return promptwizard.Run(ctx, a.ctrl, opts)
}
