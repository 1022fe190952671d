// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/octofit/octofit/internal/resource"
	panelsFeature "github.com/octofit/octofit/internal/ui/features/panels"
	"github.com/octofit/octofit/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, set *resource.Set, sessionStore sessions.Store, logger *slog.Logger) error {
	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	return panelsFeature.SetupRoutes(router, set, sessionStore, logger)
}
