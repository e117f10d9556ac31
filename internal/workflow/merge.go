package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/analysis"
	"github.com/nlc-digital/landcom/internal/cases"
)

// MergeAnalysis appends an analysis result's extracted parcels to the case
// and records one audit entry attributed to the automated reviewer. Existing
// parcels are never mutated or removed; no StageEvent is appended.
func MergeAnalysis(c cases.Case, result analysis.Result, actor cases.Actor) cases.Case {
	now := time.Now().UTC()
	out := c.Clone()

	for _, p := range result.ExtractedParcels {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.Status == "" {
			p.Status = cases.ParcelPending
		}
		out.Parcels = append(out.Parcels, p)
	}

	out.Logs = append(out.Logs, cases.LogEntry{
		ID:        uuid.New(),
		Action:    "AI Data Merge",
		User:      "System (AI)",
		Role:      actor.Role,
		Timestamp: now,
		Note:      result.Summary,
	})
	out.UpdatedAt = now

	return out
}
