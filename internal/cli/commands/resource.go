package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/resource"
)

// ResourceOptions holds options for the leaderboard, teams and workouts commands.
type ResourceOptions struct {
	Filter string
}

// NewResourceCommand creates the command that fetches and prints one kind.
func NewResourceCommand(kind resource.Kind) *cobra.Command {
	opts := &ResourceOptions{}
	singular := strings.TrimSuffix(kind.Name, "s")

	cmd := &cobra.Command{
		Use:   kind.Name,
		Short: fmt.Sprintf("Show the %s list", strings.ToLower(kind.Title)),
		Long: fmt.Sprintf(`Fetch the %s list from the OctoFit backend and print it.

%s.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table

Use --output to override: auto, text, markdown, json, csv, yaml`, strings.ToLower(kind.Title), kind.Subtitle),
		Example: fmt.Sprintf(`  # Show the full list
  octofit %[1]s

  # Only entries whose name contains "blue" (case-insensitive)
  octofit %[1]s --filter blue

  # Machine-readable output
  octofit %[1]s --output json`, kind.Name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResource(cmd, kind, opts)
		},
	}
	if singular != kind.Name {
		cmd.Aliases = []string{singular}
	}

	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "Case-insensitive substring filter")

	return cmd
}

func runResource(cmd *cobra.Command, kind resource.Kind, opts *ResourceOptions) error {
	cmdCtx := NewCommandContext(cmd)

	panel := resource.NewPanel(kind, cmdCtx.PanelOptions())
	defer panel.Dispose()

	panel.SetFilter(opts.Filter)
	if err := refreshAndWait(cmd.Context(), panel); err != nil {
		return err
	}

	return renderPanel(cmdCtx.Renderer, panel)
}
