// Package panels serves the leaderboard, teams and workouts panels in the
// browser, patched live over SSE as their lists change.
package panels

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/octofit/octofit/internal/resource"
)

// SetupRoutes configures routes for the panels feature.
func SetupRoutes(router chi.Router, set *resource.Set, sessionStore sessions.Store, logger *slog.Logger) error {
	handlers := NewHandlers(set, sessionStore, logger)

	router.Get("/", handlers.HandleIndex)
	router.Route("/{kind}", func(r chi.Router) {
		r.Get("/", handlers.PanelPage)
		r.Get("/updates", handlers.PanelUpdates)
		r.Post("/refresh", handlers.RefreshPanel)
		r.Post("/filter", handlers.FilterPanel)
	})

	return nil
}
