package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
)

// System defines the public contract for document analysis.
type System interface {
	Handler() *Handler

	// AnalyzeDocument runs the analysis graph for one attached document and
	// applies the normalized result to it. An analysis failure leaves the
	// document attached and unverified; the caller may retry.
	AnalyzeDocument(ctx context.Context, caseID, docID uuid.UUID) (*Result, error)
}

type svc struct {
	rt *Runtime
}

// New creates an analysis system from the given runtime.
func New(rt *Runtime) System {
	rt.Logger = rt.Logger.With("system", "analysis")
	return &svc{rt: rt}
}

func (s *svc) Handler() *Handler {
	return NewHandler(s, s.rt.Logger)
}

func (s *svc) AnalyzeDocument(ctx context.Context, caseID, docID uuid.UUID) (*Result, error) {
	c, err := s.rt.Cases.Find(ctx, caseID)
	if err != nil {
		return nil, err
	}

	doc := c.FindDocument(docID)
	if doc == nil {
		return nil, cases.ErrDocumentNotFound
	}

	result, err := Execute(ctx, s.rt, c, doc)
	if err != nil {
		s.rt.Logger.Error(
			"document analysis failed",
			"case", caseID,
			"document", docID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	if _, err := s.apply(ctx, caseID, docID, result); err != nil {
		return nil, err
	}

	return result, nil
}

// apply writes the analysis outcome onto the document: verification flag,
// AI-suggested category (also adopted as the primary category), summary, and
// annotations on still-pending flow stages. Issues Found never clears an
// earlier verification.
func (s *svc) apply(ctx context.Context, caseID, docID uuid.UUID, result *Result) (*cases.Case, error) {
	return cases.Mutate(ctx, s.rt.Cases, caseID, func(c cases.Case) (cases.Case, error) {
		out := c.Clone()

		doc := out.FindDocument(docID)
		if doc == nil {
			return c, cases.ErrDocumentNotFound
		}

		now := time.Now().UTC()

		if result.VerificationStatus != IssuesFound {
			doc.Verified = true
		}
		if result.SuggestedCategory != nil {
			doc.AICategory = result.SuggestedCategory
			doc.Category = *result.SuggestedCategory
		}
		doc.AnalysisSummary = result.Summary

		flowStatus := cases.FlowNeedsInfo
		if result.VerificationStatus == Verified {
			flowStatus = cases.FlowApproved
		}

		for i := range doc.Flow {
			if doc.Flow[i].Status == cases.FlowPending {
				doc.Flow[i].Status = flowStatus
				doc.Flow[i].Comment = result.Summary
				doc.Flow[i].UpdatedAt = now
			}
		}

		out.UpdatedAt = now
		return out, nil
	})
}
