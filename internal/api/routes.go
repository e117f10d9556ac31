package api

import (
	"net/http"

	"github.com/nlc-digital/landcom/internal/config"
	"github.com/nlc-digital/landcom/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Cases.Handler().Routes(),
		domain.Workflow.Handler().Routes(),
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Analysis.Handler().Routes(),
		domain.Notices.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		newStorageHandler(
			runtime.Storage,
			runtime.Logger,
			cfg.Storage.MaxListSize,
		).routes(),
	)
}
