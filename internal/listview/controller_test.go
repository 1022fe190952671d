package listview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octofit/octofit/internal/testutil"
)

const testEndpoint = "http://backend.test/api/leaderboard/"

// scriptedFetcher answers each call with the step at that call index.
type scriptedFetcher struct {
	calls atomic.Int32
	steps []func(ctx context.Context) ([]byte, error)
}

func (f *scriptedFetcher) Fetch(ctx context.Context, _ string) ([]byte, error) {
	n := int(f.calls.Add(1)) - 1
	if n >= len(f.steps) {
		return nil, errors.New("unexpected call")
	}
	return f.steps[n](ctx)
}

func respond(payload string) func(context.Context) ([]byte, error) {
	return func(context.Context) ([]byte, error) { return []byte(payload), nil }
}

// gated blocks until gate is closed, ignoring cancellation, then returns payload.
func gated(started chan<- struct{}, gate <-chan struct{}, payload string) func(context.Context) ([]byte, error) {
	return func(context.Context) ([]byte, error) {
		close(started)
		<-gate
		return []byte(payload), nil
	}
}

func newTestController(t *testing.T, endpoint string, f Fetcher) *Controller[entity] {
	t.Helper()
	c := New(Config[entity]{
		Name:      "leaderboard",
		Endpoint:  endpoint,
		Fetcher:   f,
		FilterKey: userKey,
		Logger:    testutil.NewTestLogger(t),
	})
	t.Cleanup(c.Dispose)
	return c
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not settle")
	}
}

func TestController_LoadAndFilter(t *testing.T) {
	started, gate := make(chan struct{}), make(chan struct{})
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		gated(started, gate, `[{"user":"Ana","score":10},{"user":"Bo","score":5}]`),
	}}
	c := newTestController(t, testEndpoint, f)
	assert.Equal(t, PhaseIdle, c.State().Phase)

	done := c.Refresh()
	assert.Equal(t, PhaseLoading, c.State().Phase, "loading must be visible before the fetch settles")

	<-started
	close(gate)
	wait(t, done)

	state := c.State()
	require.Equal(t, PhaseLoaded, state.Phase)
	assert.Len(t, state.Items, 2)
	assert.NoError(t, state.Err)

	c.SetFilter("an")
	assert.Equal(t, []entity{{"user": "Ana", "score": float64(10)}}, c.View())
	assert.Equal(t, "an", c.Filter())

	c.SetFilter("   ")
	assert.Equal(t, state.Items, c.View())
	assert.Equal(t, int32(1), f.calls.Load(), "filtering must not fetch")
}

func TestController_ResultsEnvelope(t *testing.T) {
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		respond(`{"results":[{"name":"Team A"}]}`),
	}}
	c := newTestController(t, testEndpoint, f)

	wait(t, c.Refresh())

	assert.Equal(t, []entity{{"name": "Team A"}}, c.State().Items)
}

func TestController_UnexpectedShapeLoadsEmpty(t *testing.T) {
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		respond(`{"unexpected":"shape"}`),
	}}
	c := newTestController(t, testEndpoint, f)

	wait(t, c.Refresh())

	state := c.State()
	assert.Equal(t, PhaseLoaded, state.Phase)
	assert.Empty(t, state.Items)
	assert.NotNil(t, state.Items)
	assert.Empty(t, c.View())
}

func TestController_ConfigMissing(t *testing.T) {
	f := &scriptedFetcher{}
	c := newTestController(t, "   ", f)

	state := c.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.ErrorIs(t, state.Err, ErrConfigMissing)

	done := c.Refresh()
	select {
	case <-done:
	default:
		t.Fatal("refresh without endpoint should settle immediately")
	}

	state = c.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.Equal(t, ErrorKindConfigMissing, state.Kind())
	assert.Equal(t, int32(0), f.calls.Load(), "no network call without endpoint")
}

func TestController_FetchError(t *testing.T) {
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		respond(`[{"user":"Ana"}]`),
		func(context.Context) ([]byte, error) { return nil, errors.New("connection refused") },
		respond(`[{"user":`),
	}}
	c := newTestController(t, testEndpoint, f)

	wait(t, c.Refresh())
	require.Equal(t, PhaseLoaded, c.State().Phase)

	wait(t, c.Refresh())
	state := c.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.ErrorIs(t, state.Err, ErrFetch)
	assert.Equal(t, ErrorKindFetch, state.Kind())
	assert.Contains(t, state.Err.Error(), "connection refused")
	assert.Equal(t, []entity{{"user": "Ana"}}, c.View(), "view keeps the last loaded list")

	wait(t, c.Refresh())
	state = c.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.ErrorIs(t, state.Err, ErrFetch)
}

func TestController_NoFetcher(t *testing.T) {
	c := newTestController(t, testEndpoint, nil)

	wait(t, c.Refresh())

	assert.ErrorIs(t, c.State().Err, ErrFetch)
}

func TestController_RefreshSupersedesInFlight(t *testing.T) {
	started, gate := make(chan struct{}), make(chan struct{})
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		gated(started, gate, `[{"user":"stale"}]`),
		respond(`[{"user":"fresh"}]`),
	}}
	c := newTestController(t, testEndpoint, f)

	var (
		mu     sync.Mutex
		phases []Phase
	)
	pings := c.Subscribe()
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case _, ok := <-pings:
				if !ok {
					return
				}
				mu.Lock()
				phases = append(phases, c.State().Phase)
				mu.Unlock()
			case <-stop:
				return
			}
		}
	}()

	first := c.Refresh()
	<-started
	second := c.Refresh()
	wait(t, second)

	assert.Equal(t, []entity{{"user": "fresh"}}, c.State().Items)

	close(gate)
	wait(t, first)

	assert.Equal(t, []entity{{"user": "fresh"}}, c.State().Items, "superseded result must not be applied")
	assert.Equal(t, int32(2), f.calls.Load())

	close(stop)
	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, phases, PhaseFailed)
}

func TestController_RefreshCancelsContext(t *testing.T) {
	firstErr := make(chan error, 1)
	started := make(chan struct{})
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		func(ctx context.Context) ([]byte, error) {
			close(started)
			<-ctx.Done()
			firstErr <- ctx.Err()
			return nil, ctx.Err()
		},
		respond(`[]`),
	}}
	c := newTestController(t, testEndpoint, f)

	first := c.Refresh()
	<-started
	second := c.Refresh()
	wait(t, first)
	wait(t, second)

	assert.ErrorIs(t, <-firstErr, context.Canceled)
	state := c.State()
	assert.Equal(t, PhaseLoaded, state.Phase, "cancellation is not a failure")
	assert.NoError(t, state.Err)
}

func TestController_DisposeDiscardsSettlement(t *testing.T) {
	started, gate := make(chan struct{}), make(chan struct{})
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		gated(started, gate, `[{"user":"late"}]`),
	}}
	c := newTestController(t, testEndpoint, f)
	pings := c.Subscribe()

	done := c.Refresh()
	<-started
	c.Dispose()
	close(gate)
	wait(t, done)

	state := c.State()
	assert.Equal(t, PhaseLoading, state.Phase, "disposed controller must not change state")
	assert.Empty(t, c.View())

	again := c.Refresh()
	select {
	case <-again:
	default:
		t.Fatal("refresh after dispose should be a no-op")
	}
	assert.Equal(t, int32(1), f.calls.Load())

	c.Dispose()

	// drain any pending ping, then the channel must be closed
	for range pings {
	}
}

func TestController_Configure(t *testing.T) {
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		respond(`[{"user":"Ana"}]`),
	}}
	c := newTestController(t, testEndpoint, f)
	c.SetFilter("an")
	wait(t, c.Refresh())
	require.Len(t, c.View(), 1)

	c.Configure(Config[entity]{
		Endpoint:  "http://other.test/api/leaderboard/",
		Fetcher:   f,
		FilterKey: userKey,
	})
	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.Empty(t, c.View())
	assert.Equal(t, "an", c.Filter(), "filter survives reconfiguration")
	assert.Equal(t, "http://other.test/api/leaderboard/", c.Endpoint())

	c.Configure(Config[entity]{Endpoint: ""})
	assert.Equal(t, ErrorKindConfigMissing, c.State().Kind())
}

func TestController_ConfigureCancelsInFlight(t *testing.T) {
	started, gate := make(chan struct{}), make(chan struct{})
	ctxErr := make(chan error, 1)
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		func(ctx context.Context) ([]byte, error) {
			close(started)
			<-gate
			ctxErr <- ctx.Err()
			return []byte(`[{"user":"stale"}]`), nil
		},
	}}
	c := newTestController(t, testEndpoint, f)

	done := c.Refresh()
	<-started
	c.Configure(Config[entity]{
		Endpoint:  "http://other.test/api/leaderboard/",
		Fetcher:   f,
		FilterKey: userKey,
	})
	close(gate)
	wait(t, done)

	assert.ErrorIs(t, <-ctxErr, context.Canceled)
	assert.Equal(t, PhaseIdle, c.State().Phase, "result from the old endpoint must be discarded")
	assert.Empty(t, c.View())
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestController_StateIsSnapshot(t *testing.T) {
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		respond(`[{"user":"Ana"},{"user":"Bo"}]`),
	}}
	c := newTestController(t, testEndpoint, f)
	wait(t, c.Refresh())

	items := c.State().Items
	items[0] = entity{"user": "mutated"}
	view := c.View()
	view[1] = entity{"user": "mutated"}

	assert.Equal(t, []entity{{"user": "Ana"}, {"user": "Bo"}}, c.State().Items)
	assert.Equal(t, []entity{{"user": "Ana"}, {"user": "Bo"}}, c.View())
}

func TestController_SubscribePingsOnChange(t *testing.T) {
	f := &scriptedFetcher{steps: []func(context.Context) ([]byte, error){
		respond(`[]`),
	}}
	c := newTestController(t, testEndpoint, f)
	ch := c.Subscribe()
	defer c.Unsubscribe(ch)

	wait(t, c.Refresh())

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change ping")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ErrorKindNone},
		{name: "config missing", err: ErrConfigMissing, want: ErrorKindConfigMissing},
		{name: "wrapped fetch", err: errors.Join(ErrFetch, errors.New("boom")), want: ErrorKindFetch},
		{name: "other", err: errors.New("boom"), want: ErrorKindFetch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
	assert.Equal(t, "ConfigMissing", ErrorKindConfigMissing.String())
	assert.Equal(t, "FetchError", ErrorKindFetch.String())
	assert.Equal(t, "loaded", PhaseLoaded.String())
}
