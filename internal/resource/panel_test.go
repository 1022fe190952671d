package resource

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/listview"
	"github.com/octofit/octofit/internal/testutil"
)

func waitSettled(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not settle")
	}
}

func newTestSet(t *testing.T, api backend.APIConfig) *Set {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	set := NewSet(Options{
		API:     api,
		Fetcher: backend.NewClient(backend.ClientOptions{Logger: logger}),
		Logger:  logger,
	})
	t.Cleanup(set.Dispose)
	return set
}

func TestSet_RefreshAllAgainstBackend(t *testing.T) {
	srv := testutil.NewBackend(t, nil)
	set := newTestSet(t, backend.APIConfig{BaseURL: srv.BaseURL()})

	waitSettled(t, set.RefreshAll())

	board, ok := set.Get("leaderboard")
	require.True(t, ok)
	assert.Equal(t, listview.PhaseLoaded, board.State().Phase)
	assert.Equal(t, [][]string{{"#1", "Ana", "10"}, {"#2", "Bo", "5"}}, board.Rows())

	teams, _ := set.Get("teams")
	assert.Equal(t, [][]string{
		{"Team A", "3 members", "Cardio"},
		{"Blue Whales", "2 members", "Balanced"},
	}, teams.Rows())

	workouts, _ := set.Get("workout")
	workouts.SetFilter("yoga")
	assert.Equal(t, [][]string{{"Yoga Flow", "—", "Full-body"}}, workouts.Rows())

	for _, name := range Names() {
		assert.Equal(t, 1, srv.Hits(name))
	}
}

func TestPanel_FilteredRankRenumbers(t *testing.T) {
	srv := testutil.NewBackend(t, nil)
	set := newTestSet(t, backend.APIConfig{BaseURL: srv.BaseURL()})
	board, _ := set.Get("leaderboard")

	waitSettled(t, board.Refresh())
	board.SetFilter("bo")

	assert.Equal(t, [][]string{{"#1", "Bo", "5"}}, board.Rows())
}

func TestPanel_RowsMatchingLeavesFilterAlone(t *testing.T) {
	srv := testutil.NewBackend(t, nil)
	set := newTestSet(t, backend.APIConfig{BaseURL: srv.BaseURL()})
	board, _ := set.Get("leaderboard")

	assert.Empty(t, board.RowsMatching("ana"), "nothing loaded yet")

	waitSettled(t, board.Refresh())
	board.SetFilter("bo")

	assert.Equal(t, [][]string{{"#1", "Ana", "10"}}, board.RowsMatching("ANA"))
	assert.Len(t, board.RowsMatching(""), 2)
	assert.Equal(t, "bo", board.Filter())
}

func TestPanel_ErrorMessages(t *testing.T) {
	srv := testutil.NewBackend(t, nil)
	srv.SetStatus("teams", http.StatusInternalServerError)

	set := newTestSet(t, backend.APIConfig{BaseURL: srv.BaseURL()})
	teams, _ := set.Get("teams")
	waitSettled(t, teams.Refresh())

	assert.Equal(t, listview.ErrorKindFetch, teams.State().Kind())
	assert.Equal(t, "Failed to load teams.", teams.ErrorMessage())

	unconfigured := newTestSet(t, backend.APIConfig{})
	board, _ := unconfigured.Get("leaderboard")
	waitSettled(t, board.Refresh())
	assert.Equal(t, backend.ConfigHint, board.ErrorMessage())
	assert.Equal(t, 0, srv.Hits("leaderboard"))
}

func TestSet_Reconfigure(t *testing.T) {
	srv := testutil.NewBackend(t, nil)
	set := newTestSet(t, backend.APIConfig{})

	board, _ := set.Get("leaderboard")
	assert.Equal(t, listview.ErrorKindConfigMissing, board.State().Kind())

	set.Reconfigure(Options{
		API:     backend.APIConfig{BaseURL: srv.BaseURL()},
		Fetcher: backend.NewClient(backend.ClientOptions{}),
	})
	assert.Equal(t, srv.BaseURL()+"/leaderboard/", board.Endpoint())

	waitSettled(t, board.Refresh())
	assert.Len(t, board.Rows(), 2)
}
