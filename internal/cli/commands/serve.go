package commands

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/cli/config"
	"github.com/octofit/octofit/internal/resource"
	"github.com/octofit/octofit/internal/ui"
)

// sessionSecretEnv overrides the per-process session secret.
const sessionSecretEnv = "OCTOFIT_SESSION_SECRET"

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	NoBrowser bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the panels in the browser",
		Long: `Start a local web server showing the leaderboard, teams and workouts
panels. Pages update live as lists load; filters are remembered per browser.

When a config file is in use and watching is on, edits to it are picked up
without a restart: every panel is pointed at the new backend and reloaded.`,
		Example: `  # Serve on the default port
  octofit serve

  # Serve on a custom port without opening a browser
  octofit serve --port 3000 --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	// --port and --watch land in ui.port and ui.watch through the config loader.
	cmd.Flags().Int("port", config.DefaultUIPort, "Port to serve on")
	cmd.Flags().Bool("watch", true, "Reload when the config file changes")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg

	set := resource.NewSet(cc.PanelOptions())
	defer set.Dispose()
	set.RefreshAll()

	cfgFile, _ := cmd.Flags().GetString("config")
	flags := cmd.Flags()
	reload := func() (resource.Options, error) {
		next, err := config.LoadConfig(cfgFile, flags)
		if err != nil {
			return resource.Options{}, err
		}
		return panelOptions(next, cc.Logger), nil
	}

	server := ui.NewServer(ui.Config{
		Panels:        set,
		Port:          cfg.UI.Port,
		Watch:         cfg.UI.Watch,
		ConfigFile:    config.GetConfigFileUsed(),
		Reload:        reload,
		SessionSecret: sessionSecret(),
		Logger:        cc.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.UI.Port)
	if !opts.NoBrowser {
		go openBrowser(url)
	}

	cc.Renderer.Printf("Serving OctoFit on %s\n", url)
	if !cfg.API.Configured() {
		cc.Renderer.Warning(backend.ConfigHint)
	}
	cc.Renderer.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// sessionSecret returns the configured secret, or a random one. Sessions
// only hold filters, so losing them on restart is harmless.
func sessionSecret() string {
	if secret := os.Getenv(sessionSecretEnv); secret != "" {
		return secret
	}
	return uuid.NewString()
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
