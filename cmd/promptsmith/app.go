package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/promptsmith/internal/config"
	"github.com/mark3labs/promptsmith/internal/gateway"
	"github.com/mark3labs/promptsmith/internal/gemini"
	"github.com/mark3labs/promptsmith/internal/journal"
	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/wizard"
	"github.com/spf13/cobra"
)

// app bundles what every command needs to run a wizard session.
type app struct {
	cfg     *config.Config
	ctrl    *wizard.Controller
	journal *journal.Journal // nil when disabled
	model   string
}

// newApp loads configuration (flags included), sets up logging and builds
// the controller with its gateway stack.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	gw, model, err := newGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, model: model}
	opts := []wizard.Option{
		wizard.WithTimeout(cfg.Timeout),
		wizard.WithNotifier(func(n wizard.Notice) {
			logger.Warn("Step %s: %s (%v)", n.Step, n.Message, n.Err)
		}),
	}

	if cfg.Journal {
		j, err := journal.Open(ctx)
		if err != nil {
			// The wizard works without history.
			logger.Warn("Journal disabled: %v", err)
		} else {
			a.journal = j
			opts = append(opts, wizard.WithObserver(j.Observe))
		}
	}

	a.ctrl = wizard.NewController(gw, opts...)
	return a, nil
}

// newGateway picks Gemini or the offline generator and wraps it with
// logging, rate limiting and caching.
func newGateway(ctx context.Context, cfg *config.Config) (wizard.Gateway, string, error) {
	var (
		inner wizard.Gateway
		model string
	)
	if cfg.UseOffline() {
		if !cfg.Offline {
			logger.Info("No API key configured, using the offline generator")
		}
		inner = gateway.NewOffline()
		model = "offline"
	} else {
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			TemplatesDir: cfg.TemplatesDir,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to create gemini client: %w", err)
		}
		inner = client
		model = client.Model()
	}

	gw := gateway.Wrap(inner,
		gateway.WithLogging(),
		gateway.WithCache(cfg.CacheSize),
		gateway.WithRateLimit(cfg.RateLimit, 1),
	)
	return gw, model, nil
}

// Close releases the journal.
func (a *app) Close() {
	if a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		logger.Warn("Failed to close journal: %v", err)
	}
}
