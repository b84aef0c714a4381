package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/landmark/internal/accounts"
	"github.com/JaimeStill/landmark/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, logger *slog.Logger) {
	groups := []routes.Group{
		domain.Submissions.Handler().Routes(),
		domain.Accounts.Handler().Routes(),
		domain.Prompts.Handler().Routes().With(
			accounts.RequireReviewer(domain.Gate, logger),
		),
	}

	routes.Register(mux, groups...)

	for _, pattern := range routes.Patterns(groups...) {
		logger.Debug("route registered", "pattern", pattern)
	}
}
