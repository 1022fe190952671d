// Package listview implements the list-resource view controller shared by the
// leaderboard, teams and workouts panels.
//
// A Controller owns one fetch at a time against a configured endpoint. Each
// Refresh cancels the previous request before starting a new one, so the
// only result that can ever be applied is the most recently requested one.
// Cancelled requests settle silently and never touch the state.
//
// The derived view is recomputed on every read from the last loaded list and
// the current filter query; nothing derived is cached.
package listview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/octofit/octofit/internal/notifier"
)

// Fetcher retrieves the raw payload of a list endpoint.
// Implementations must return promptly once ctx is cancelled.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, endpoint string) ([]byte, error)

// Fetch calls f(ctx, endpoint).
func (f FetcherFunc) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	return f(ctx, endpoint)
}

// Normalizer converts a raw payload into a list.
type Normalizer[E any] func(payload []byte) ([]E, error)

// Config configures a Controller.
type Config[E any] struct {
	// Name identifies the controller in logs.
	Name string
	// Endpoint is the list URL. Empty means the backend is not configured.
	Endpoint string
	Fetcher  Fetcher
	// Normalize defaults to NormalizeList.
	Normalize Normalizer[E]
	// FilterKey extracts the text matched by the filter query.
	FilterKey func(E) string
	Logger    *slog.Logger
}

// Controller manages the fetch lifecycle and filtered view of one list.
// It is safe for concurrent use.
type Controller[E any] struct {
	mu       sync.Mutex
	cfg      Config[E]
	state    State[E]
	list     []E
	query    string
	gen      uint64
	cancel   context.CancelFunc
	disposed bool

	notify *notifier.Notifier
}

// New creates a controller. With an empty endpoint it starts in PhaseFailed
// with ErrConfigMissing; otherwise it starts idle.
func New[E any](cfg Config[E]) *Controller[E] {
	c := &Controller[E]{notify: notifier.New()}
	c.Configure(cfg)
	return c
}

// Configure replaces the controller configuration. Any in-flight request is
// cancelled and the loaded list is dropped; the filter query is kept.
func (c *Controller[E]) Configure(cfg Config[E]) {
	if cfg.Normalize == nil {
		cfg.Normalize = NormalizeList[E]
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	c.gen++
	c.cfg = cfg
	c.list = nil
	if cfg.Endpoint == "" {
		c.state = State[E]{Phase: PhaseFailed, Err: ErrConfigMissing}
	} else {
		c.state = State[E]{Phase: PhaseIdle}
	}
	c.mu.Unlock()

	c.notify.Broadcast()
}

// Refresh starts a new fetch, cancelling the one in flight. The state is
// PhaseLoading when Refresh returns. The returned channel is closed once the
// attempt has settled, whether its result was applied or discarded.
//
// Without an endpoint the state becomes ErrConfigMissing and no request is
// made. After Dispose, Refresh does nothing.
func (c *Controller[E]) Refresh() <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		close(done)
		return done
	}
	c.cancelLocked()
	c.gen++
	cfg := c.cfg

	if cfg.Endpoint == "" {
		c.state = State[E]{Phase: PhaseFailed, Err: ErrConfigMissing}
		c.mu.Unlock()
		cfg.Logger.Warn("refresh skipped, endpoint not configured", "resource", cfg.Name)
		c.notify.Broadcast()
		close(done)
		return done
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	gen := c.gen
	c.state = State[E]{Phase: PhaseLoading}
	c.mu.Unlock()

	cfg.Logger.Debug("refresh started", "resource", cfg.Name, "endpoint", cfg.Endpoint)
	c.notify.Broadcast()

	go func() {
		defer close(done)
		defer cancel()

		items, err := fetchList(ctx, cfg)
		c.settle(ctx, gen, items, err)
	}()

	return done
}

func fetchList[E any](ctx context.Context, cfg Config[E]) ([]E, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("no fetcher configured")
	}
	payload, err := cfg.Fetcher.Fetch(ctx, cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	items, err := cfg.Normalize(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize payload: %w", err)
	}
	if items == nil {
		items = []E{}
	}
	return items, nil
}

// settle applies the outcome of attempt gen unless it has been superseded,
// the controller was disposed, or its context was cancelled.
func (c *Controller[E]) settle(ctx context.Context, gen uint64, items []E, err error) {
	c.mu.Lock()
	logger := c.cfg.Logger
	name := c.cfg.Name
	if c.disposed || gen != c.gen || ctx.Err() != nil {
		c.mu.Unlock()
		logger.Debug("discarding superseded result", "resource", name)
		return
	}
	c.cancel = nil
	if err != nil {
		c.state = State[E]{Phase: PhaseFailed, Err: fmt.Errorf("%w: %w", ErrFetch, err)}
	} else {
		c.list = items
		c.state = State[E]{Phase: PhaseLoaded, Items: items}
	}
	c.mu.Unlock()

	if err != nil {
		logger.Warn("refresh failed", "resource", name, "error", err)
	} else {
		logger.Debug("refresh loaded", "resource", name, "count", len(items))
	}
	c.notify.Broadcast()
}

func (c *Controller[E]) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// SetFilter sets the filter query. It never triggers network activity.
func (c *Controller[E]) SetFilter(query string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.query = strings.TrimSpace(query)
	c.mu.Unlock()

	c.notify.Broadcast()
}

// Filter returns the current, trimmed filter query.
func (c *Controller[E]) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// View returns the last loaded list filtered by the current query.
func (c *Controller[E]) View() []E {
	c.mu.Lock()
	list, query, key := c.list, c.query, c.cfg.FilterKey
	c.mu.Unlock()

	return slices.Clone(Filter(list, query, key))
}

// State returns a snapshot of the current view state.
func (c *Controller[E]) State() State[E] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = slices.Clone(s.Items)
	return s
}

// Endpoint returns the configured endpoint.
func (c *Controller[E]) Endpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Endpoint
}

// Subscribe returns a channel pinged after every state or filter change.
// The channel is closed by Dispose.
func (c *Controller[E]) Subscribe() chan struct{} {
	return c.notify.Subscribe()
}

// Unsubscribe releases a channel obtained from Subscribe.
func (c *Controller[E]) Unsubscribe(ch chan struct{}) {
	c.notify.Unsubscribe(ch)
}

// Dispose cancels any in-flight request and releases the controller.
// Later calls to Refresh, Configure and SetFilter do nothing. Dispose is
// idempotent.
func (c *Controller[E]) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.cancelLocked()
	c.gen++
	c.mu.Unlock()

	c.notify.Close()
}
