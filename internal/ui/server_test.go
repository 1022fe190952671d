package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/listview"
	"github.com/octofit/octofit/internal/resource"
	"github.com/octofit/octofit/internal/testutil"
)

func panelOptions(t *testing.T, srv *testutil.Backend) resource.Options {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	return resource.Options{
		API:     backend.APIConfig{BaseURL: srv.BaseURL()},
		Fetcher: backend.NewClient(backend.ClientOptions{Logger: logger}),
		Logger:  logger,
	}
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Panels == nil {
		cfg.Panels = resource.NewSet(panelOptions(t, testutil.NewBackend(t, nil)))
	}
	t.Cleanup(cfg.Panels.Dispose)
	cfg.SessionSecret = "test-secret-key-32-bytes-long!!"
	cfg.Logger = testutil.NewTestLogger(t)
	return NewServer(cfg)
}

func TestServer_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
		wantHeader map[string]string
	}{
		{name: "index redirects", method: http.MethodGet, path: "/", wantStatus: http.StatusFound, wantHeader: map[string]string{"Location": "/leaderboard"}},
		{name: "panel page", method: http.MethodGet, path: "/teams", wantStatus: http.StatusOK, wantBody: "<title>Teams - OctoFit</title>"},
		{name: "panel page trailing slash", method: http.MethodGet, path: "/workouts/", wantStatus: http.StatusOK, wantBody: "<title>Workouts - OctoFit</title>"},
		{name: "stylesheet", method: http.MethodGet, path: "/static/octofit.css", wantStatus: http.StatusOK, wantBody: ".tabs"},
		{name: "unknown kind", method: http.MethodGet, path: "/badges", wantStatus: http.StatusNotFound},
		{name: "refresh needs post", method: http.MethodGet, path: "/teams/refresh", wantStatus: http.StatusMethodNotAllowed},
		{name: "refresh", method: http.MethodPost, path: "/teams/refresh", wantStatus: http.StatusOK, wantBody: "event:"},
	}

	s := newTestServer(t, Config{})
	handler, err := s.Handler()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			for k, v := range tt.wantHeader {
				assert.Equal(t, v, rec.Header().Get(k))
			}
		})
	}
}

func TestServer_ReloadConfig(t *testing.T) {
	first := testutil.NewBackend(t, nil)
	second := testutil.NewBackend(t, map[string]string{
		"leaderboard": `[{"user":"Cy","score":7}]`,
		"teams":       testutil.TeamsJSON,
		"workouts":    testutil.WorkoutsJSON,
	})

	set := resource.NewSet(panelOptions(t, first))
	s := newTestServer(t, Config{
		Panels: set,
		Reload: func() (resource.Options, error) {
			return panelOptions(t, second), nil
		},
	})

	s.reloadConfig()

	board, _ := set.Get("leaderboard")
	assert.True(t, strings.HasPrefix(board.Endpoint(), second.URL), "panel should point at the reloaded backend")
	assert.Eventually(t, func() bool {
		return board.State().Phase == listview.PhaseLoaded
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, [][]string{{"#1", "Cy", "7"}}, board.Rows())
	assert.Zero(t, first.Hits("leaderboard"))
}

func TestServer_ReloadConfigFailureKeepsPanels(t *testing.T) {
	srv := testutil.NewBackend(t, nil)
	set := resource.NewSet(panelOptions(t, srv))
	s := newTestServer(t, Config{
		Panels: set,
		Reload: func() (resource.Options, error) {
			return resource.Options{}, errors.New("invalid configuration: bad yaml")
		},
	})

	board, _ := set.Get("leaderboard")
	before := board.Endpoint()

	s.reloadConfig()

	assert.Equal(t, before, board.Endpoint())
	assert.Equal(t, listview.PhaseIdle, board.State().Phase)
	assert.Zero(t, srv.Hits("leaderboard"))
}

func TestServer_WatchConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "octofit.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("api:\n  port: 8000\n"), 0600))

	srv := testutil.NewBackend(t, nil)
	var reloads atomic.Int32
	s := newTestServer(t, Config{
		Watch:      true,
		ConfigFile: cfgFile,
		Reload: func() (resource.Options, error) {
			reloads.Add(1)
			return panelOptions(t, srv), nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchConfig(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// give the watcher time to register
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("unrelated"), 0600))
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, reloads.Load(), "other files in the directory are ignored")

	require.NoError(t, os.WriteFile(cfgFile, []byte("api:\n  port: 9000\n"), 0600))
	assert.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 2*time.Second, 20*time.Millisecond)
}
