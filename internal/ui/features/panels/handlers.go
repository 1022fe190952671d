package panels

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/octofit/octofit/internal/listview"
	"github.com/octofit/octofit/internal/resource"
)

// sessionName is the cookie holding each browser's filters.
const sessionName = "octofit"

// Handlers provides HTTP handlers for the panels feature.
type Handlers struct {
	set          *resource.Set
	sessionStore sessions.Store
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(set *resource.Set, sessionStore sessions.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		set:          set,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// HandleIndex redirects to the first panel.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+resource.Kinds()[0].Name, http.StatusFound)
}

// PanelPage renders a panel with its rows filtered by the browser's saved
// filter. A panel that was never loaded starts loading; the updates stream
// delivers the result.
func (h *Handlers) PanelPage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}
	if p.State().Phase == listview.PhaseIdle {
		p.Refresh()
	}

	view := buildView(p, h.savedFilter(r, p.Kind.Name))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Page(view).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// PanelUpdates is the long-lived SSE endpoint of a panel page. It sends
// nothing up front, since the page is already rendered. Loading and failure
// patch the whole body; a loaded list only patches the toolbar, which asks
// for rows with the filter the browser holds at that moment.
func (h *Handlers) PanelUpdates(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := p.Subscribe()
	defer p.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.PatchElementTempl(updateComponent(p)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// updateComponent picks what a change ping patches. Only loaded rows depend
// on the filter, and those are left for the browser to request.
func updateComponent(p *resource.Panel) templ.Component {
	view := buildView(p, "")
	if view.Phase == listview.PhaseLoaded {
		return Toolbar(view, true)
	}
	return Body(view)
}

// RefreshPanel starts a new fetch unless one is already in flight.
func (h *Handlers) RefreshPanel(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}
	query := h.requestFilter(r, p.Kind.Name)

	if p.State().Phase != listview.PhaseLoading {
		p.Refresh()
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(Body(buildView(p, query))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// FilterPanel re-renders the panel body for the posted filter. The panel's
// shared filter is left alone; the query is remembered in the session.
func (h *Handlers) FilterPanel(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals FilterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}
	query := strings.TrimSpace(signals.Filter)

	// The session cookie must be written before the SSE headers go out.
	h.saveFilter(w, r, p.Kind.Name, query)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(Body(buildView(p, query))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) panel(w http.ResponseWriter, r *http.Request) (*resource.Panel, bool) {
	p, ok := h.set.Get(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
	}
	return p, ok
}

// requestFilter returns the filter signal sent with r, falling back to the
// one saved in the session.
func (h *Handlers) requestFilter(r *http.Request, kind string) string {
	var signals FilterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return h.savedFilter(r, kind)
	}
	return strings.TrimSpace(signals.Filter)
}

func (h *Handlers) savedFilter(r *http.Request, kind string) string {
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		return ""
	}
	query, _ := session.Values[filterKey(kind)].(string)
	return query
}

func (h *Handlers) saveFilter(w http.ResponseWriter, r *http.Request, kind, query string) {
	// Get hands back a fresh session when the cookie cannot be decoded.
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		h.logger.Debug("replacing unreadable session", "error", err)
	}
	session.Values[filterKey(kind)] = query
	if err := session.Save(r, w); err != nil {
		h.logger.Warn("failed to save session", "error", err)
	}
}

func filterKey(kind string) string {
	return "filter:" + kind
}

func buildView(p *resource.Panel, query string) PanelView {
	state := p.State()
	view := PanelView{
		Kind:     p.Kind,
		Kinds:    resource.Kinds(),
		Phase:    state.Phase,
		Filter:   query,
		Headers:  p.Kind.Headers(),
		Endpoint: p.Endpoint(),
	}

	switch state.Phase {
	case listview.PhaseIdle:
		view.Message = "Not loaded yet."
	case listview.PhaseLoading:
		view.Message = p.Kind.LoadingMessage
	case listview.PhaseFailed:
		view.Message = p.Kind.ErrorMessage(state.Err)
	case listview.PhaseLoaded:
		view.Rows = p.RowsMatching(query)
		if len(view.Rows) == 0 {
			view.Message = p.Kind.EmptyMessage
		}
	}
	return view
}
