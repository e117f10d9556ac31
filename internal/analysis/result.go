// Package analysis runs AI document review for acquisition cases through a
// small agent graph and applies the normalized results to case documents.
package analysis

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
)

// Verification is the review outcome reported for a document.
type Verification string

// Verification outcomes.
const (
	Verified    Verification = "Verified"
	IssuesFound Verification = "Issues Found"
	Unverified  Verification = "Unverified"
)

// UnmarshalJSON decodes a verification outcome tolerantly: any value outside
// the declared set becomes Unverified rather than an error, since the value
// originates from a model response.
func (v *Verification) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*v = Unverified
		return nil
	}

	switch Verification(raw) {
	case Verified, IssuesFound:
		*v = Verification(raw)
	default:
		*v = Unverified
	}
	return nil
}

// Result is the typed output of a document analysis run.
type Result struct {
	Summary            string          `json:"summary"`
	ExtractedParcels   []cases.Parcel  `json:"extracted_parcels"`
	Discrepancies      []string        `json:"discrepancies"`
	VerificationStatus Verification    `json:"verification_status"`
	SuggestedCategory  *cases.Category `json:"suggested_category,omitempty"`
}

// Normalize fills defaults and discards malformed model output: parcels
// without a parcel number are dropped, negative values are clamped to zero,
// an unknown suggested category falls back to the document's declared one.
func (r *Result) Normalize(fallback cases.Category) {
	if r.Summary == "" {
		r.Summary = "Analysis completed."
	}
	if r.Discrepancies == nil {
		r.Discrepancies = []string{}
	}
	if r.VerificationStatus == "" {
		r.VerificationStatus = Unverified
	}

	parcels := make([]cases.Parcel, 0, len(r.ExtractedParcels))
	for _, p := range r.ExtractedParcels {
		if p.ParcelNumber == "" {
			continue
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.EstimatedValue < 0 {
			p.EstimatedValue = 0
		}
		if p.Status == "" {
			p.Status = cases.ParcelPending
		}
		parcels = append(parcels, p)
	}
	r.ExtractedParcels = parcels

	if r.SuggestedCategory != nil {
		if _, err := cases.ParseCategory(string(*r.SuggestedCategory)); err != nil {
			r.SuggestedCategory = nil
		}
	}
	if r.SuggestedCategory == nil {
		c := fallback
		r.SuggestedCategory = &c
	}
}
