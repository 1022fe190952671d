package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/cli/config"
	"github.com/octofit/octofit/internal/cli/output"
	"github.com/octofit/octofit/internal/resource"
)

// userAgent identifies the CLI to the backend.
const userAgent = "octofit-cli"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output),
	}
}

// PanelOptions returns the options every panel is built with.
func (c *CommandContext) PanelOptions() resource.Options {
	return panelOptions(c.Cfg, c.Logger)
}

func panelOptions(cfg *config.Config, logger *slog.Logger) resource.Options {
	return resource.Options{
		API: cfg.API,
		Fetcher: backend.NewClient(backend.ClientOptions{
			Timeout:   cfg.API.Timeout,
			Logger:    logger,
			UserAgent: userAgent,
		}),
		Logger: logger,
	}
}

// getConfig returns the current configuration, or the defaults when none
// has been loaded (commands constructed outside the root command).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

// refreshAndWait refreshes p and blocks until the attempt settles or ctx ends.
func refreshAndWait(ctx context.Context, p *resource.Panel) error {
	select {
	case <-p.Refresh():
		return nil
	case <-ctx.Done():
		p.Dispose()
		return ctx.Err()
	}
}

// refreshAllAndWait is refreshAndWait for every panel of set.
func refreshAllAndWait(ctx context.Context, set *resource.Set) error {
	select {
	case <-set.RefreshAll():
		return nil
	case <-ctx.Done():
		set.Dispose()
		return ctx.Err()
	}
}
