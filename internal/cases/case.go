// Package cases implements the acquisition case domain for LandCom.
// It provides the case aggregate (documents, parcels, audit log, stage
// events), data access with optimistic versioning, and the CRUD surface
// for case records. Status transitions are owned by the workflow package.
package cases

import (
	"time"

	"github.com/google/uuid"
)

// Case represents one compulsory land-acquisition proceeding tracked end to end.
// Child collections are owned by composition and ordered by creation time;
// Logs and StageEvents are append-only once written.
type Case struct {
	ID                  uuid.UUID    `json:"id"`
	Reference           string       `json:"reference"`
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	AcquiringBody       string       `json:"acquiring_body"`
	Status              Status       `json:"status"`
	Budget              float64      `json:"budget"`
	GazetteNoticeNumber *string      `json:"gazette_notice_number,omitempty"`
	FundsDeposited      bool         `json:"funds_deposited"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
	Version             int          `json:"version"`
	Documents           []Document   `json:"documents"`
	Logs                []LogEntry   `json:"logs"`
	StageEvents         []StageEvent `json:"stage_events"`
	Parcels             []Parcel     `json:"parcels"`
}

// Document is an evidentiary artifact attached to a case. The review Flow is
// created fully populated at attachment time, one stage per reviewing
// department, all Pending. AICategory and AnalysisSummary are set at most once
// by an asynchronous analysis result.
type Document struct {
	ID              uuid.UUID   `json:"id"`
	Filename        string      `json:"filename"`
	Format          Format      `json:"format"`
	Category        Category    `json:"category"`
	UploadedBy      string      `json:"uploaded_by"`
	UploadedAt      time.Time   `json:"uploaded_at"`
	Verified        bool        `json:"verified"`
	PageCount       *int        `json:"page_count,omitempty"`
	StorageKey      string      `json:"storage_key"`
	Flow            []FlowStage `json:"flow"`
	AICategory      *Category   `json:"ai_category,omitempty"`
	AnalysisSummary string      `json:"analysis_summary,omitempty"`
}

// FlowStage is one departmental review step within a document's internal flow.
type FlowStage struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Department string     `json:"department"`
	Status     FlowStatus `json:"status"`
	Comment    string     `json:"comment,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Parcel is a land unit affected by a case. Its status moves independently of
// the case-level status machine but is recorded through the same audit log.
type Parcel struct {
	ID             uuid.UUID    `json:"id"`
	ParcelNumber   string       `json:"parcel_number"`
	Owner          string       `json:"owner"`
	Size           string       `json:"size"`
	EstimatedValue float64      `json:"estimated_value"`
	Coordinates    string       `json:"coordinates"`
	Unregistered   bool         `json:"unregistered"`
	Status         ParcelStatus `json:"status"`
}

// LogEntry is an immutable audit record. Every accepted workflow action
// appends exactly one.
type LogEntry struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	User      string    `json:"user"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// StageEvent is an immutable human-readable milestone record, appended only by
// actions that carry a stage mapping. Completed is always true once created.
type StageEvent struct {
	ID          uuid.UUID `json:"id"`
	Stage       string    `json:"stage"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Completed   bool      `json:"completed"`
	TriggeredBy string    `json:"triggered_by"`
	Note        string    `json:"note,omitempty"`
}

// Actor identifies the acting user for audit attribution.
type Actor struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Label returns the display label recorded in audit entries: the user's name
// when known, otherwise the role label.
func (a Actor) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Role.Label()
}

// CreateCommand carries the data needed to open a new acquisition case.
type CreateCommand struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	AcquiringBody string  `json:"acquiring_body"`
	Budget        float64 `json:"budget"`
}

// Validate checks required fields and the non-negative budget invariant.
func (cmd CreateCommand) Validate() error {
	if cmd.Title == "" {
		return ErrInvalidCase
	}
	if cmd.AcquiringBody == "" {
		return ErrInvalidCase
	}
	if cmd.Budget < 0 {
		return ErrInvalidCase
	}
	return nil
}

// NewCase creates a case at SUBMITTED with the initial audit entry and the
// Submission stage event, as produced by the submission operation.
func NewCase(cmd CreateCommand, actor Actor, now time.Time) Case {
	return Case{
		ID:            uuid.New(),
		Title:         cmd.Title,
		Description:   cmd.Description,
		AcquiringBody: cmd.AcquiringBody,
		Status:        StatusSubmitted,
		Budget:        cmd.Budget,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
		Documents:     []Document{},
		Logs: []LogEntry{{
			ID:        uuid.New(),
			Action:    "Request Created",
			User:      actor.Label(),
			Role:      actor.Role,
			Timestamp: now,
		}},
		StageEvents: []StageEvent{{
			ID:          uuid.New(),
			Stage:       "Submission",
			Description: "Request created and submitted",
			Timestamp:   now,
			Completed:   true,
			TriggeredBy: actor.Label(),
		}},
		Parcels: []Parcel{},
	}
}

// Clone returns a deep copy of the case with independent child slices.
// The workflow engine mutates clones only, so callers holding the prior
// snapshot never observe partial transitions.
func (c Case) Clone() Case {
	out := c

	out.Documents = make([]Document, len(c.Documents))
	for i, d := range c.Documents {
		out.Documents[i] = d
		out.Documents[i].Flow = append([]FlowStage(nil), d.Flow...)
		if d.PageCount != nil {
			n := *d.PageCount
			out.Documents[i].PageCount = &n
		}
		if d.AICategory != nil {
			cat := *d.AICategory
			out.Documents[i].AICategory = &cat
		}
	}

	out.Logs = append([]LogEntry(nil), c.Logs...)
	out.StageEvents = append([]StageEvent(nil), c.StageEvents...)
	out.Parcels = append([]Parcel(nil), c.Parcels...)

	if c.GazetteNoticeNumber != nil {
		n := *c.GazetteNoticeNumber
		out.GazetteNoticeNumber = &n
	}

	return out
}

// FindParcel returns a pointer to the parcel with the given id, or nil.
// The pointer references the receiver's backing array.
func (c *Case) FindParcel(id uuid.UUID) *Parcel {
	for i := range c.Parcels {
		if c.Parcels[i].ID == id {
			return &c.Parcels[i]
		}
	}
	return nil
}

// FindDocument returns a pointer to the document with the given id, or nil.
func (c *Case) FindDocument(id uuid.UUID) *Document {
	for i := range c.Documents {
		if c.Documents[i].ID == id {
			return &c.Documents[i]
		}
	}
	return nil
}
