package api

import (
	"github.com/nlc-digital/landcom/internal/config"
	"github.com/nlc-digital/landcom/internal/prompts"
	"github.com/nlc-digital/landcom/internal/workflow"
	"github.com/nlc-digital/landcom/pkg/openapi"
)

// buildSpec assembles the OpenAPI document served at /openapi.json.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Case": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string", Format: "uuid"},
				"reference":      {Type: "string", Example: "REQ-2026-001"},
				"title":          {Type: "string"},
				"description":    {Type: "string"},
				"acquiring_body": {Type: "string"},
				"budget":         {Type: "number"},
				"status":         {Type: "string", Example: "Under Scrutiny"},
				"gazette_number": {Type: "string"},
				"funds_deposited": {
					Type:        "boolean",
					Description: "Set once by the DEPOSIT_FUNDS action; never cleared.",
				},
				"version":      {Type: "integer"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
				"documents":    {Type: "array", Items: openapi.SchemaRef("Document")},
				"parcels":      {Type: "array", Items: openapi.SchemaRef("Parcel")},
				"logs":         {Type: "array", Items: openapi.SchemaRef("LogEntry")},
				"stage_events": {Type: "array", Items: openapi.SchemaRef("StageEvent")},
			},
		},
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"filename":         {Type: "string"},
				"category":         {Type: "string"},
				"ai_category":      {Type: "string"},
				"format":           {Type: "string", Enum: []any{"PDF", "CSV", "DOCX"}},
				"verified":         {Type: "boolean"},
				"analysis_summary": {Type: "string"},
			},
		},
		"Parcel": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string", Format: "uuid"},
				"parcel_number":   {Type: "string"},
				"owner":           {Type: "string"},
				"size":            {Type: "string"},
				"estimated_value": {Type: "number"},
				"status":          {Type: "string"},
			},
		},
		"LogEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":        {Type: "string", Format: "uuid"},
				"action":    {Type: "string"},
				"user":      {Type: "string"},
				"role":      {Type: "string"},
				"timestamp": {Type: "string", Format: "date-time"},
				"note":      {Type: "string"},
			},
		},
		"StageEvent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":        {Type: "string", Format: "uuid"},
				"stage":     {Type: "string"},
				"details":   {Type: "string"},
				"timestamp": {Type: "string", Format: "date-time"},
				"completed": {Type: "boolean"},
				"actor":     {Type: "string"},
				"note":      {Type: "string"},
			},
		},
		"CreateCase": {
			Type:     "object",
			Required: []string{"title", "acquiring_body"},
			Properties: map[string]*openapi.Schema{
				"title":          {Type: "string"},
				"description":    {Type: "string"},
				"acquiring_body": {Type: "string"},
				"budget":         {Type: "number"},
			},
		},
		"Transition": {
			Type:     "object",
			Required: []string{"action"},
			Properties: map[string]*openapi.Schema{
				"action": {Type: "string", Enum: actionEnum()},
				"note":   {Type: "string"},
			},
		},
		"Claim": {
			Type:     "object",
			Required: []string{"action"},
			Properties: map[string]*openapi.Schema{
				"action": {Type: "string", Enum: []any{"ACCEPT", "CONTEST"}},
			},
		},
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"stage":        {Type: "string", Enum: stageEnum()},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
			},
		},
	})

	registerCasePaths(spec)
	registerWorkflowPaths(spec)
	registerDocumentPaths(spec)
	registerPromptPaths(spec)

	return openapi.MarshalJSON(spec)
}

func actionEnum() []any {
	actions := workflow.Actions()
	enum := make([]any, 0, len(actions))
	for _, a := range actions {
		enum = append(enum, string(a))
	}
	return enum
}

func stageEnum() []any {
	stages := prompts.Stages()
	enum := make([]any, 0, len(stages))
	for _, s := range stages {
		enum = append(enum, string(s))
	}
	return enum
}

func registerCasePaths(spec *openapi.Spec) {
	spec.Paths["/cases"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List acquisition cases",
			Tags:    []string{"cases"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Search title, reference, or acquiring body", false),
				openapi.QueryParam("status", "string", "Filter by case status", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("A page of cases", "Case"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create and submit an acquisition case",
			Tags:        []string{"cases"},
			RequestBody: openapi.RequestBodyJSON("CreateCase", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("The created case", "Case"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/cases/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a case by id",
			Tags:       []string{"cases"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Case id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The case", "Case"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/cases/{id}/gazette-number"] = &openapi.PathItem{
		Patch: &openapi.Operation{
			Summary:    "Record the official gazette number",
			Tags:       []string{"cases"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Case id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The updated case", "Case"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/cases/{id}/parcels"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Add an affected parcel to a case",
			Tags:        []string{"cases"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Case id")},
			RequestBody: openapi.RequestBodyJSON("Parcel", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The updated case", "Case"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func registerWorkflowPaths(spec *openapi.Spec) {
	spec.Paths["/cases/{id}/actions"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List workflow actions and their availability for the requesting role",
			Tags:       []string{"workflow"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Case id")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Action availability list"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Apply a workflow action to a case",
			Tags:        []string{"workflow"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Case id")},
			RequestBody: openapi.RequestBodyJSON("Transition", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The transitioned case", "Case"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/cases/{id}/parcels/{parcelId}/claim"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Accept or contest a compensation award for a parcel",
			Tags:    []string{"workflow"},
			Parameters: []*openapi.Parameter{
				openapi.PathParam("id", "Case id"),
				openapi.PathParam("parcelId", "Parcel id"),
			},
			RequestBody: openapi.RequestBodyJSON("Claim", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The updated case", "Case"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func registerDocumentPaths(spec *openapi.Spec) {
	spec.Paths["/cases/{id}/documents"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Attach one or more supporting documents",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Case id")},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"multipart/form-data": {
						Schema: &openapi.Schema{
							Type: "object",
							Properties: map[string]*openapi.Schema{
								"category": {Type: "string"},
								"files":    {Type: "array", Items: &openapi.Schema{Type: "string", Format: "binary"}},
							},
						},
					},
				},
			},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("The updated case", "Case"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/cases/{id}/completeness"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Report which required document categories are satisfied",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Case id")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Completeness report"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/cases/{id}/documents/{docId}/analyze"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Run AI analysis of an attached document",
			Tags:    []string{"documents"},
			Parameters: []*openapi.Parameter{
				openapi.PathParam("id", "Case id"),
				openapi.PathParam("docId", "Document id"),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Normalized analysis result"},
				404: openapi.ResponseRef("NotFound"),
				502: {Description: "Analysis collaborator unavailable"},
			},
		},
	}
}

func registerPromptPaths(spec *openapi.Spec) {
	spec.Paths["/prompts"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List prompt overrides",
			Tags:    []string{"prompts"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("A page of prompts", "Prompt"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a prompt override",
			Tags:        []string{"prompts"},
			RequestBody: openapi.RequestBodyJSON("Prompt", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("The created prompt", "Prompt"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/prompts/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a prompt by id",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update a prompt",
			Tags:        []string{"prompts"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Prompt id")},
			RequestBody: openapi.RequestBodyJSON("Prompt", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The updated prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a prompt",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt id")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}
