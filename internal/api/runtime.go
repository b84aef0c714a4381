package api

import (
	"github.com/JaimeStill/landmark/internal/config"
	"github.com/JaimeStill/landmark/internal/infrastructure"
	"github.com/JaimeStill/landmark/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent      config.AgentConfig
	Review     config.ReviewConfig
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Auth:      infra.Auth,
			Events:    infra.Events,
		},
		Agent:      cfg.Agent,
		Review:     cfg.Review,
		Pagination: cfg.API.Pagination,
	}
}
