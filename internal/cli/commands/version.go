package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/cli/output"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	if info.GoVersion == "" {
		info.GoVersion = runtime.Version()
	}

	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display OctoFit client version information.

With --output json or yaml the build details are printed as a document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContext(cmd).Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(info)
			case output.ModeYAML:
				return renderYAMLValue(r, info)
			}
			r.Printf("OctoFit v%s\n", info.Version)
			r.Println("Terminal and web client for the OctoFit Tracker API")
			if info.Commit != "" && info.Commit != "unknown" {
				r.Printf("commit %s, built %s, %s\n", info.Commit, info.BuildDate, info.GoVersion)
			}
			return nil
		},
	}
}
