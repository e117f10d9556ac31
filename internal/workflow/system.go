package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/analysis"
	"github.com/nlc-digital/landcom/internal/cases"
)

// System orchestrates workflow operations: load a case snapshot, run the pure
// engine, persist the result. Save conflicts are retried against a fresh
// snapshot a bounded number of times before surfacing.
type System interface {
	Handler() *Handler

	Transition(ctx context.Context, id uuid.UUID, a Action, actor cases.Actor, note string) (*cases.Case, error)
	Claim(ctx context.Context, id, parcelID uuid.UUID, claim Claim, actor cases.Actor) (*cases.Case, error)
	Merge(ctx context.Context, id uuid.UUID, result analysis.Result, actor cases.Actor) (*cases.Case, error)
	Availability(ctx context.Context, id uuid.UUID, role cases.Role) ([]ActionAvailability, error)
}

// ActionAvailability describes one action's requirements and whether it is
// currently available to the requesting role. Clients use it to grey out
// unavailable actions.
type ActionAvailability struct {
	Action           Action         `json:"action"`
	RequiredStatuses []cases.Status `json:"required_statuses"`
	PermittedRoles   []cases.Role   `json:"permitted_roles"`
	Stage            string         `json:"stage,omitempty"`
	Available        bool           `json:"available"`
}

type svc struct {
	cases  cases.System
	logger *slog.Logger
}

// New creates a workflow system backed by the given case system.
func New(cs cases.System, logger *slog.Logger) System {
	return &svc{
		cases:  cs,
		logger: logger.With("system", "workflow"),
	}
}

func (s *svc) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *svc) Transition(ctx context.Context, id uuid.UUID, a Action, actor cases.Actor, note string) (*cases.Case, error) {
	return s.mutate(ctx, id, func(c cases.Case) (cases.Case, error) {
		return Apply(c, a, actor, note)
	})
}

func (s *svc) Claim(ctx context.Context, id, parcelID uuid.UUID, claim Claim, actor cases.Actor) (*cases.Case, error) {
	return s.mutate(ctx, id, func(c cases.Case) (cases.Case, error) {
		return ApplyClaim(c, parcelID, claim, actor)
	})
}

func (s *svc) Merge(ctx context.Context, id uuid.UUID, result analysis.Result, actor cases.Actor) (*cases.Case, error) {
	return s.mutate(ctx, id, func(c cases.Case) (cases.Case, error) {
		return MergeAnalysis(c, result, actor), nil
	})
}

func (s *svc) Availability(ctx context.Context, id uuid.UUID, role cases.Role) ([]ActionAvailability, error) {
	c, err := s.cases.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]ActionAvailability, 0, len(actions))
	for _, a := range actions {
		stage, _, _ := StageMapping(a)
		out = append(out, ActionAvailability{
			Action:           a,
			RequiredStatuses: Preconditions(a),
			PermittedRoles:   PermittedRoles(a),
			Stage:            stage,
			Available:        IsPermitted(role, a, c.Status),
		})
	}

	return out, nil
}

func (s *svc) mutate(ctx context.Context, id uuid.UUID, fn func(cases.Case) (cases.Case, error)) (*cases.Case, error) {
	c, err := cases.Mutate(ctx, s.cases, id, fn)
	if err != nil {
		if errors.Is(err, cases.ErrConflict) {
			s.logger.Warn("case mutation lost repeated save races", "id", id)
		}
		return nil, err
	}
	return c, nil
}
