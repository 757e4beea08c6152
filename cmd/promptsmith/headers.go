package main

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/promptsmith/internal/wizard"
	"github.com/spf13/cobra"
)

var headersFlags struct {
	json bool
}

var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "List the prompt sections that can be selected",
	Long: `List the prompt sections of the header catalog with their ids.

Ids are used by the headers field of a generate brief and by the MCP
toggle-header tool. Sections marked * are selected by default.`,
	RunE: runHeaders,
}

func init() {
	headersCmd.Flags().BoolVar(&headersFlags.json, "json", false, "Print the catalog as JSON")
}

func runHeaders(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	catalog := wizard.DefaultHeaders()

	if headersFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog)
	}

	for _, h := range catalog {
		mark := " "
		if h.Required {
			mark = "*"
		}
		line := fmt.Sprintf("%2d %s %s", h.ID, mark, h.Label)
		if h.RequiresInput {
			line += " (takes input)"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
