package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/cli/output"
	"github.com/octofit/octofit/internal/resource"
)

// KindInfo describes one resource kind and where it is fetched from.
type KindInfo struct {
	Name     string `json:"name" yaml:"name"`
	Title    string `json:"title" yaml:"title"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the resource kinds and their endpoints",
		Long: `List the resource kinds (leaderboard, teams, workouts) with the endpoint
each one is fetched from. No request is made.

An empty endpoint means the backend host is not configured.`,
		Example: `  # List kinds
  octofit list

  # As JSON
  octofit list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

func buildKindInfos(api backend.APIConfig) []KindInfo {
	kinds := resource.Kinds()
	infos := make([]KindInfo, len(kinds))
	for i, k := range kinds {
		infos[i] = KindInfo{
			Name:     k.Name,
			Title:    k.Title,
			Endpoint: backend.ResolveEndpoint(api, k.Path),
		}
	}
	return infos
}

func runList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	infos := buildKindInfos(cmdCtx.Cfg.API)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeYAML:
		return renderYAMLValue(r, infos)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Title", "Endpoint"})
	for _, info := range infos {
		endpoint := info.Endpoint
		if endpoint == "" {
			endpoint = "(not configured)"
		}
		t.AppendRow(table.Row{info.Name, info.Title, endpoint})
	}

	switch r.EffectiveMode() {
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Resource kinds"))
		r.Println("")
		t.RenderMarkdown()
	case output.ModeCSV:
		t.RenderCSV()
	default:
		r.Header(1, "Resource kinds")
		t.Render()
	}

	if !cmdCtx.Cfg.API.Configured() {
		r.Warning(backend.ConfigHint)
	}
	return nil
}
