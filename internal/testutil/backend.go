package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Backend is a fake OctoFit API serving canned list payloads.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	payloads map[string]string
	status   map[string]int
	hits     map[string]int
}

// Fixture payloads shaped like the real API responses.
const (
	LeaderboardJSON = `[{"id":1,"user":"Ana","score":10},{"id":2,"user":"Bo","score":5}]`
	TeamsJSON       = `{"results":[{"id":1,"name":"Team A","members_count":3,"focus":"Cardio"},{"id":2,"name":"Blue Whales","members":["a","b"]}]}`
	WorkoutsJSON    = `[{"id":1,"name":"Morning Run","intensity":"High","focus":"Endurance"},{"id":2,"title":"Yoga Flow"}]`
)

// NewBackend starts a fake API. Keys of payloads are list names
// ("leaderboard", "teams", "workouts"), served under /api/<name>/.
// With no payloads the fixtures above are served.
func NewBackend(t testing.TB, payloads map[string]string) *Backend {
	t.Helper()
	if payloads == nil {
		payloads = map[string]string{
			"leaderboard": LeaderboardJSON,
			"teams":       TeamsJSON,
			"workouts":    WorkoutsJSON,
		}
	}
	b := &Backend{
		payloads: payloads,
		status:   make(map[string]int),
		hits:     make(map[string]int),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/"), "/")

	b.mu.Lock()
	b.hits[name]++
	payload, ok := b.payloads[name]
	status := b.status[name]
	b.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(payload))
}

// BaseURL returns the API root to configure clients with.
func (b *Backend) BaseURL() string {
	return b.URL + "/api"
}

// SetPayload replaces the payload served for name.
func (b *Backend) SetPayload(name, payload string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads[name] = payload
	delete(b.status, name)
}

// SetStatus makes name answer with an error status.
func (b *Backend) SetStatus(name string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[name] = status
}

// Hits returns how many requests name received.
func (b *Backend) Hits(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[name]
}
