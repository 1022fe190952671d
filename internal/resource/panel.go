package resource

import (
	"log/slog"

	"github.com/octofit/octofit/internal/backend"
	"github.com/octofit/octofit/internal/listview"
)

// Options holds what every panel needs to reach the backend.
type Options struct {
	API     backend.APIConfig
	Fetcher listview.Fetcher
	Logger  *slog.Logger
}

// Panel binds a kind to its list controller.
type Panel struct {
	Kind Kind
	*listview.Controller[Entity]
}

// NewPanel creates a panel for kind. The endpoint is resolved from opts.API;
// an unconfigured backend leaves the panel in the ConfigMissing state.
func NewPanel(kind Kind, opts Options) *Panel {
	return &Panel{
		Kind:       kind,
		Controller: listview.New(controllerConfig(kind, opts)),
	}
}

func controllerConfig(kind Kind, opts Options) listview.Config[Entity] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return listview.Config[Entity]{
		Name:      kind.Name,
		Endpoint:  backend.ResolveEndpoint(opts.API, kind.Path),
		Fetcher:   opts.Fetcher,
		FilterKey: kind.FilterKey,
		Logger:    logger.With("resource", kind.Name),
	}
}

// Reconfigure points the panel at a new backend. The loaded list is dropped.
func (p *Panel) Reconfigure(opts Options) {
	p.Configure(controllerConfig(p.Kind, opts))
}

// Rows renders the filtered view.
func (p *Panel) Rows() [][]string {
	return p.Kind.Rows(p.View())
}

// RowsMatching renders the loaded list filtered by query without touching
// the panel's own filter.
func (p *Panel) RowsMatching(query string) [][]string {
	return p.Kind.Rows(listview.Filter(p.State().Items, query, p.Kind.FilterKey))
}

// ErrorMessage returns the user-facing message for a failed state, or "".
func (p *Panel) ErrorMessage() string {
	return p.Kind.ErrorMessage(p.State().Err)
}

// ErrorMessage maps a controller error to the message shown for this kind.
func (k Kind) ErrorMessage(err error) string {
	switch listview.KindOf(err) {
	case listview.ErrorKindConfigMissing:
		return backend.ConfigHint
	case listview.ErrorKindFetch:
		return k.FailureMessage
	default:
		return ""
	}
}

// Set holds one panel per kind.
type Set struct {
	panels []*Panel
}

// NewSet creates panels for all kinds sharing opts.
func NewSet(opts Options) *Set {
	kinds := Kinds()
	s := &Set{panels: make([]*Panel, len(kinds))}
	for i, k := range kinds {
		s.panels[i] = NewPanel(k, opts)
	}
	return s
}

// Panels returns the panels in display order.
func (s *Set) Panels() []*Panel {
	return s.panels
}

// Get returns the panel for a kind name.
func (s *Set) Get(name string) (*Panel, bool) {
	kind, ok := LookupKind(name)
	if !ok {
		return nil, false
	}
	for _, p := range s.panels {
		if p.Kind.Name == kind.Name {
			return p, true
		}
	}
	return nil, false
}

// Reconfigure points every panel at a new backend.
func (s *Set) Reconfigure(opts Options) {
	for _, p := range s.panels {
		p.Reconfigure(opts)
	}
}

// RefreshAll refreshes every panel and returns a channel closed once all
// attempts have settled.
func (s *Set) RefreshAll() <-chan struct{} {
	pending := make([]<-chan struct{}, len(s.panels))
	for i, p := range s.panels {
		pending[i] = p.Refresh()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, ch := range pending {
			<-ch
		}
	}()
	return done
}

// Dispose releases every panel.
func (s *Set) Dispose() {
	for _, p := range s.panels {
		p.Dispose()
	}
}
