package commands

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/cli/config"
	"github.com/octofit/octofit/internal/cli/output"
	"github.com/octofit/octofit/internal/testutil"
)

func doctorReport(t *testing.T, cfg *config.Config) *DoctorOutput {
	t.Helper()
	config.ResetConfig()
	set := newTestSet(t, cfg)
	<-set.RefreshAll()
	return buildDoctorOutput(cfg, set)
}

func TestBuildDoctorOutput(t *testing.T) {
	srv := testutil.NewBackend(t, nil)
	srv.SetStatus("teams", http.StatusBadGateway)

	out := doctorReport(t, testConfig(srv))

	assert.True(t, out.Configured)
	assert.Equal(t, srv.BaseURL(), out.BaseURL)
	assert.False(t, out.Healthy)
	require.Len(t, out.Checks, 3)

	board := out.Checks[0]
	assert.Equal(t, "leaderboard", board.Kind)
	assert.Equal(t, "loaded", board.Status)
	assert.Equal(t, 2, board.Items)
	assert.Equal(t, srv.BaseURL()+"/leaderboard/", board.Endpoint)
	assert.Empty(t, board.ErrorKind)

	teams := out.Checks[1]
	assert.Equal(t, "failed", teams.Status)
	assert.Equal(t, "FetchError", teams.ErrorKind)
	assert.Equal(t, "Failed to load teams.", teams.Message)
	assert.Contains(t, teams.Detail, "502")
}

func TestBuildDoctorOutput_NotConfigured(t *testing.T) {
	out := doctorReport(t, testConfig(nil))

	assert.False(t, out.Configured)
	assert.False(t, out.Healthy)
	for _, check := range out.Checks {
		assert.Equal(t, "ConfigMissing", check.ErrorKind)
		assert.Equal(t, backend.ConfigHint, check.Message)
		assert.Empty(t, check.Endpoint)
		assert.Empty(t, check.Detail)
	}
}

func TestRenderDoctor(t *testing.T) {
	healthy := doctorReport(t, testConfig(testutil.NewBackend(t, nil)))
	broken := doctorReport(t, testConfig(nil))

	tests := []struct {
		name    string
		out     *DoctorOutput
		render  func(*output.Renderer, *DoctorOutput)
		wantOut []string
	}{
		{
			name:    "text healthy",
			out:     healthy,
			render:  renderDoctorText,
			wantOut: []string{"OctoFit Health Report", "✓ Leaderboard", "(2 entries)", "✓ All endpoints healthy"},
		},
		{
			name:    "text broken",
			out:     broken,
			render:  renderDoctorText,
			wantOut: []string{"(none, using defaults and environment)", "✗ Teams", "ConfigMissing", "Some endpoints failed"},
		},
		{
			name:    "markdown",
			out:     broken,
			render:  renderDoctorMarkdown,
			wantOut: []string{"# OctoFit Health Report", "- **Backend**: " + backend.ConfigHint, "- **[FAIL]** workouts: failed (ConfigMissing)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf, _ := newTestRenderer(output.ModeText)
			tt.render(r, tt.out)
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestDoctorOutput_JSON(t *testing.T) {
	out := doctorReport(t, testConfig(testutil.NewBackend(t, nil)))

	r, buf, _ := newTestRenderer(output.ModeJSON)
	require.NoError(t, r.JSON(out))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["healthy"])
	assert.Len(t, decoded["checks"], 3)
	assert.NotContains(t, buf.String(), "error_kind", "empty error fields are omitted")
}
