package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/promptsmith/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
	apiKey  string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create promptsmith configuration file",
	Long: `Create a promptsmith configuration file with sensible defaults.

By default, creates a global config at ~/.config/promptsmith/promptsmith.yml.
Use --project to create a project-local config in the current directory.

The Gemini API key can also come from GEMINI_API_KEY, GOOGLE_API_KEY or a
.env file, in which case it does not need to be stored here.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVar(&setupFlags.apiKey, "api-key", "", "Gemini API key to store in the config")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Defaults()
	cfg.APIKey = setupFlags.apiKey
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config written to: %s\n\n", targetPath)
	if cfg.APIKey == "" {
		fmt.Fprintln(out, "No API key stored; set GEMINI_API_KEY or run with --offline.")
	}
	fmt.Fprintln(out, "Run 'promptsmith' to get started.")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
