// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/resource"
	"github.com/octofit/octofit/internal/testutil"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Backend      *testutil.Backend
	Panels       *resource.Set
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates panels pointed at a fake backend serving the
// standard fixtures. Nothing is loaded yet.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	srv := testutil.NewBackend(t, nil)

	set := resource.NewSet(resource.Options{
		API:     backend.APIConfig{BaseURL: srv.BaseURL()},
		Fetcher: backend.NewClient(backend.ClientOptions{Logger: logger}),
		Logger:  logger,
	})
	t.Cleanup(set.Dispose)

	return &TestFixture{
		Backend:      srv,
		Panels:       set,
		SessionStore: NewTestSessionStore(),
	}
}

// Load refreshes every panel and waits for the results.
func (f *TestFixture) Load(t *testing.T) {
	t.Helper()
	select {
	case <-f.Panels.RefreshAll():
	case <-time.After(5 * time.Second):
		t.Fatal("panels did not settle")
	}
}

// Panel returns the panel for kind.
func (f *TestFixture) Panel(t *testing.T, kind string) *resource.Panel {
	t.Helper()
	p, ok := f.Panels.Get(kind)
	if !ok {
		t.Fatalf("no panel %q", kind)
	}
	return p
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
