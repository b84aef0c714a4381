// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"net/http"

	"github.com/JaimeStill/landmark/internal/accounts"
	"github.com/JaimeStill/landmark/internal/config"
	"github.com/JaimeStill/landmark/internal/infrastructure"
	"github.com/JaimeStill/landmark/pkg/auth"
	"github.com/JaimeStill/landmark/pkg/middleware"
	"github.com/JaimeStill/landmark/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Requests pass through CORS, logging, the body limit, authentication, and
// account resolution, in that order.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(ctx, cfg, runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime.Logger)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.MaxBody(cfg.API.MaxBodySizeBytes()))
	m.Use(auth.Middleware(runtime.Auth, runtime.Logger))
	m.Use(accounts.Middleware(domain.Accounts, runtime.Logger))

	return m, nil
}
