// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nlc-digital/landcom/internal/config"
	"github.com/nlc-digital/landcom/internal/infrastructure"
	"github.com/nlc-digital/landcom/pkg/middleware"
	"github.com/nlc-digital/landcom/pkg/module"
	"github.com/nlc-digital/landcom/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	spec, err := buildSpec(cfg)
	if err != nil {
		return nil, fmt.Errorf("build openapi spec: %w", err)
	}
	mux.Handle("GET /openapi.json", openapi.ServeSpec(spec))

	auth, err := middleware.Auth(ctx, cfg.API.Auth, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("configure auth: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth)
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
