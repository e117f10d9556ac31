package cases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/pkg/pagination"
)

// System defines the public contract for case domain operations.
//
// Save carries optimistic-concurrency semantics: the case's Version must match
// the stored row or Save fails with ErrConflict, in which case the caller
// reloads and retries. Transitions against the same case id are serialized
// through this mechanism; the workflow engine itself performs no I/O.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Case], error)

	Find(ctx context.Context, id uuid.UUID) (*Case, error)
	Create(ctx context.Context, cmd CreateCommand, actor Actor) (*Case, error)
	Save(ctx context.Context, c *Case) (*Case, error)
	AddParcel(ctx context.Context, id uuid.UUID, cmd ParcelCommand, actor Actor) (*Case, error)
	SetGazetteNumber(ctx context.Context, id uuid.UUID, number string, actor Actor) (*Case, error)
	Stats(ctx context.Context) (*Stats, error)
}

// ParcelCommand carries the data needed to register a parcel manually.
type ParcelCommand struct {
	ParcelNumber   string  `json:"parcel_number"`
	Owner          string  `json:"owner"`
	Size           string  `json:"size"`
	EstimatedValue float64 `json:"estimated_value"`
	Coordinates    string  `json:"coordinates"`
	Unregistered   bool    `json:"unregistered"`
}

// Validate checks required fields and the non-negative value invariant.
func (cmd ParcelCommand) Validate() error {
	if cmd.ParcelNumber == "" {
		return ErrInvalidCase
	}
	if cmd.EstimatedValue < 0 {
		return ErrInvalidCase
	}
	return nil
}

// maxMutateAttempts bounds retries against optimistic save conflicts.
const maxMutateAttempts = 3

// Mutate loads a fresh snapshot, applies fn, and saves the result, retrying a
// bounded number of times when the save loses an optimistic-concurrency race.
// Errors from fn surface immediately; they are decided from current state and
// a retry would not change the outcome.
func Mutate(ctx context.Context, sys System, id uuid.UUID, fn func(Case) (Case, error)) (*Case, error) {
	var lastErr error

	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		current, err := sys.Find(ctx, id)
		if err != nil {
			return nil, err
		}

		updated, err := fn(*current)
		if err != nil {
			return nil, err
		}

		saved, err := sys.Save(ctx, &updated)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// Stats summarizes the case portfolio for dashboard consumers.
type Stats struct {
	TotalRequests     int     `json:"total_requests"`
	PendingReviews    int     `json:"pending_reviews"`
	TotalCompensation float64 `json:"total_compensation"`
	CompletedProjects int     `json:"completed_projects"`
}
