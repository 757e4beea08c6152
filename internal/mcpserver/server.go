// Package mcpserver exposes a wizard session as MCP tools, over stdio or
// streamable HTTP, so agents can drive the same Controller the TUI uses.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mark3labs/promptsmith/internal/journal"
	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

const (
	serverName    = "promptsmith"
	serverVersion = "1.0.0"
)

// History loads the recorded events of the session.
type History interface {
	Load(ctx context.Context) ([]journal.Event, error)
}

// Option configures a Server.
type Option func(*Server)

// WithHistory enables the wizard-history tool.
func WithHistory(h History) Option {
	return func(s *Server) { s.history = h }
}

// Server wraps an MCP server whose tools operate on one Controller.
type Server struct {
	ctrl      *wizard.Controller
	history   History
	mcpServer *server.MCPServer
	tools     []string

	mu        sync.Mutex
	stdServer *http.Server
	port      int
}

// New creates the MCP server and registers its tools.
func New(ctrl *wizard.Controller, opts ...Option) *Server {
	s := &Server{ctrl: ctrl}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	logger.Debug("Serving MCP tools on stdio")
	return server.ServeStdio(s.mcpServer)
}

// Start serves the tools over streamable HTTP at addr under /mcp. An empty
// addr picks a random local port. Returns the bound port.
func (s *Server) Start(ctx context.Context, addr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	))
	s.stdServer = &http.Server{Handler: mux}

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server listening on %s", listener.Addr())
	return s.port, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}
	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	return nil
}

// URL returns the HTTP URL for the MCP server endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
