package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/resource"
	"github.com/octofit/octofit/internal/tui"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"tui"},
		Short:   "Browse all panels in an interactive terminal dashboard",
		Long: `Open a full-screen dashboard with one tab per list: leaderboard, teams
and workouts. All lists load on start.

Keys: tab/shift+tab or 1-3 switch tabs, / filters, esc clears the filter,
r reloads the current list, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd)
		},
	}
}

func runDashboard(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)
	if !cc.Renderer.IsTTY() {
		return errors.New("dashboard needs an interactive terminal; use 'octofit leaderboard', 'octofit teams' or 'octofit workouts' instead")
	}

	// Log records would draw over the alternate screen.
	set := resource.NewSet(panelOptions(cc.Cfg, slog.New(slog.DiscardHandler)))
	defer set.Dispose()

	program := tea.NewProgram(
		tui.New(set),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
