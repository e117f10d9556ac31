package cases

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nlc-digital/landcom/pkg/query"
	"github.com/nlc-digital/landcom/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cases", "c").
	Project("id", "ID").
	Project("reference", "Reference").
	Project("title", "Title").
	Project("description", "Description").
	Project("acquiring_body", "AcquiringBody").
	Project("status", "Status").
	Project("budget", "Budget").
	Project("gazette_notice_number", "GazetteNoticeNumber").
	Project("funds_deposited", "FundsDeposited").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("version", "Version").
	Project("documents", "Documents").
	Project("logs", "Logs").
	Project("stage_events", "StageEvents").
	Project("parcels", "Parcels")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for case queries.
// Nil fields are ignored. Status, AcquiringBody, and FundsDeposited use exact
// matching; Title and Reference use case-insensitive contains matching.
type Filters struct {
	Status         *string `json:"status,omitempty"`
	AcquiringBody  *string `json:"acquiring_body,omitempty"`
	Title          *string `json:"title,omitempty"`
	Reference      *string `json:"reference,omitempty"`
	FundsDeposited *bool   `json:"funds_deposited,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("AcquiringBody", f.AcquiringBody).
		WhereContains("Title", f.Title).
		WhereContains("Reference", f.Reference).
		WhereEquals("FundsDeposited", f.FundsDeposited)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if ab := values.Get("acquiring_body"); ab != "" {
		f.AcquiringBody = &ab
	}

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	if ref := values.Get("reference"); ref != "" {
		f.Reference = &ref
	}

	switch values.Get("funds_deposited") {
	case "true":
		v := true
		f.FundsDeposited = &v
	case "false":
		v := false
		f.FundsDeposited = &v
	}

	return f
}

func scanCase(s repository.Scanner) (Case, error) {
	var (
		c           Case
		documents   []byte
		logs        []byte
		stageEvents []byte
		parcels     []byte
	)

	err := s.Scan(
		&c.ID,
		&c.Reference,
		&c.Title,
		&c.Description,
		&c.AcquiringBody,
		&c.Status,
		&c.Budget,
		&c.GazetteNoticeNumber,
		&c.FundsDeposited,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Version,
		&documents,
		&logs,
		&stageEvents,
		&parcels,
	)
	if err != nil {
		return c, err
	}

	if err := json.Unmarshal(documents, &c.Documents); err != nil {
		return c, fmt.Errorf("decode documents: %w", err)
	}
	if err := json.Unmarshal(logs, &c.Logs); err != nil {
		return c, fmt.Errorf("decode logs: %w", err)
	}
	if err := json.Unmarshal(stageEvents, &c.StageEvents); err != nil {
		return c, fmt.Errorf("decode stage events: %w", err)
	}
	if err := json.Unmarshal(parcels, &c.Parcels); err != nil {
		return c, fmt.Errorf("decode parcels: %w", err)
	}

	return c, nil
}

func encodeCollections(c *Case) (documents, logs, stageEvents, parcels []byte, err error) {
	if documents, err = json.Marshal(c.Documents); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode documents: %w", err)
	}
	if logs, err = json.Marshal(c.Logs); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode logs: %w", err)
	}
	if stageEvents, err = json.Marshal(c.StageEvents); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode stage events: %w", err)
	}
	if parcels, err = json.Marshal(c.Parcels); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode parcels: %w", err)
	}
	return documents, logs, stageEvents, parcels, nil
}
