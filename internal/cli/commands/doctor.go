package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/cli/config"
	"github.com/octofit/octofit/internal/cli/output"
	"github.com/octofit/octofit/internal/listview"
	"github.com/octofit/octofit/internal/resource"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and backend endpoints",
		Long: `Check that the backend host is configured and that every list endpoint
answers with a usable payload.

For each resource kind the doctor performs one refresh and reports the
resulting state, the number of entries and the error kind, if any.`,
		Example: `  # Run the checks
  octofit doctor

  # Check a specific backend
  octofit doctor --base-url http://localhost:8000/api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	ConfigFile string          `json:"config_file" yaml:"config_file"`
	BaseURL    string          `json:"base_url" yaml:"base_url"`
	Configured bool            `json:"configured" yaml:"configured"`
	Checks     []EndpointCheck `json:"checks" yaml:"checks"`
	Healthy    bool            `json:"healthy" yaml:"healthy"`
}

// EndpointCheck is the result of refreshing one panel.
type EndpointCheck struct {
	Kind      string `json:"kind" yaml:"kind"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	Status    string `json:"status" yaml:"status"`
	Items     int    `json:"items" yaml:"items"`
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func runDoctor(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	set := resource.NewSet(cmdCtx.PanelOptions())
	defer set.Dispose()

	if err := refreshAllAndWait(cmd.Context(), set); err != nil {
		return err
	}

	out := buildDoctorOutput(cmdCtx.Cfg, set)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeYAML:
		return renderYAMLValue(r, out)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, out)
	default:
		renderDoctorText(r, out)
	}
	return nil
}

func buildDoctorOutput(cfg *config.Config, set *resource.Set) *DoctorOutput {
	out := &DoctorOutput{
		ConfigFile: config.GetConfigFileUsed(),
		BaseURL:    cfg.API.Base(),
		Configured: cfg.API.Configured(),
		Healthy:    true,
	}

	for _, p := range set.Panels() {
		state := p.State()
		check := EndpointCheck{
			Kind:     p.Kind.Name,
			Endpoint: p.Endpoint(),
			Status:   state.Phase.String(),
			Items:    len(state.Items),
		}
		if state.Phase == listview.PhaseFailed {
			out.Healthy = false
			check.ErrorKind = state.Kind().String()
			check.Message = p.ErrorMessage()
			if state.Kind() == listview.ErrorKindFetch {
				check.Detail = state.Err.Error()
			}
		}
		out.Checks = append(out.Checks, check)
	}

	return out
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()
	titleCaser := cases.Title(language.English)

	r.Println("")
	r.Println(styles.Header1.Render("OctoFit Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Configuration"))
	configFile := out.ConfigFile
	if configFile == "" {
		configFile = "(none, using defaults and environment)"
	}
	r.Printf("   Config file: %s\n", configFile)
	if out.Configured {
		r.Printf("   Backend:     %s\n", styles.Endpoint.Render(out.BaseURL))
	} else {
		r.Printf("   Backend:     %s\n", styles.Warning.Render(backend.ConfigHint))
	}
	r.Println("")

	r.Println(styles.Header2.Render("Endpoints"))
	for _, check := range out.Checks {
		icon := styles.StatusSuccess.String()
		if check.ErrorKind != "" {
			icon = styles.StatusFailed.String()
		}

		status := fmt.Sprintf("%s %s", icon, titleCaser.String(check.Kind))
		if check.ErrorKind == "" {
			status += styles.Muted.Render(fmt.Sprintf(" (%d entries)", check.Items))
		} else {
			status += " " + styles.Error.Render(check.ErrorKind)
		}
		r.Println("   " + status)
		if check.Endpoint != "" {
			r.Println(styles.Muted.Render("       " + check.Endpoint))
		}
		if check.Message != "" {
			r.Println(styles.Muted.Render("       - " + check.Message))
		}
		if check.Detail != "" {
			r.Println(styles.Muted.Render("       - " + check.Detail))
		}
	}
	r.Println("")

	if out.Healthy {
		r.Success("All endpoints healthy")
	} else {
		r.Println(styles.Error.Render("Some endpoints failed"))
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# OctoFit Health Report")
	r.Println("")

	r.Println("## Configuration")
	r.Println("")
	configFile := out.ConfigFile
	if configFile == "" {
		configFile = "(none)"
	}
	r.Println(output.FormatKeyValue("Config file", configFile))
	if out.Configured {
		r.Println(output.FormatKeyValue("Backend", out.BaseURL))
	} else {
		r.Println(output.FormatKeyValue("Backend", backend.ConfigHint))
	}
	r.Println("")

	r.Println("## Endpoints")
	r.Println("")
	for _, check := range out.Checks {
		status := "PASS"
		if check.ErrorKind != "" {
			status = "FAIL"
		}
		r.Printf("- **[%s]** %s: %s", status, check.Kind, check.Status)
		if check.ErrorKind == "" {
			r.Printf(" (%d entries)", check.Items)
		} else {
			r.Printf(" (%s)", check.ErrorKind)
		}
		r.Println("")
		if check.Endpoint != "" {
			r.Printf("  - `%s`\n", check.Endpoint)
		}
		if check.Message != "" {
			r.Printf("  - %s\n", check.Message)
		}
		if check.Detail != "" {
			r.Printf("  - %s\n", check.Detail)
		}
	}
	r.Println("")
}
