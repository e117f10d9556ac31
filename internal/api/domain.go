package api

import (
	"github.com/nlc-digital/landcom/internal/analysis"
	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/internal/documents"
	"github.com/nlc-digital/landcom/internal/notices"
	"github.com/nlc-digital/landcom/internal/prompts"
	"github.com/nlc-digital/landcom/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Cases     cases.System
	Documents documents.System
	Prompts   prompts.System
	Workflow  workflow.System
	Analysis  analysis.System
	Notices   notices.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	casesSystem := cases.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	documentsSystem := documents.New(
		casesSystem,
		runtime.Storage,
		runtime.Logger,
	)

	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	workflowSystem := workflow.New(casesSystem, runtime.Logger)

	analysisSystem := analysis.New(&analysis.Runtime{
		Agent:   runtime.Agent,
		Cases:   casesSystem,
		Prompts: promptsSystem,
		Logger:  runtime.Logger,
	})

	noticesSystem := notices.New(
		runtime.Agent,
		casesSystem,
		promptsSystem,
		runtime.Logger,
	)

	return &Domain{
		Cases:     casesSystem,
		Documents: documentsSystem,
		Prompts:   promptsSystem,
		Workflow:  workflowSystem,
		Analysis:  analysisSystem,
		Notices:   noticesSystem,
	}
}
