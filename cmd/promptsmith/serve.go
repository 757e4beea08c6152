package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/mcpserver"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	http string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the wizard as MCP tools",
	Long: `Serve one wizard session over the Model Context Protocol.

By default the server speaks MCP over stdin/stdout so an agent can launch it
directly. Use --http to listen on an address instead; the endpoint is /mcp.
Logs go to --log-file only, stdout is reserved for the protocol.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.http, "http", "", "Listen for streamable HTTP on this address (e.g. 127.0.0.1:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var opts []mcpserver.Option
	if a.journal != nil {
		opts = append(opts, mcpserver.WithHistory(a.journal))
	}
	srv := mcpserver.New(a.ctrl, opts...)

	if serveFlags.http == "" {
		logger.Info("Serving MCP over stdio")
		return srv.ServeStdio()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := srv.Start(ctx, serveFlags.http); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on %s\n", srv.URL())

	<-ctx.Done()
	return srv.Stop()
}
