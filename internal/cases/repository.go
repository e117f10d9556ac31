package cases

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/pkg/pagination"
	"github.com/nlc-digital/landcom/pkg/query"
	"github.com/nlc-digital/landcom/pkg/repository"
)

const caseColumns = `id, reference, title, description, acquiring_body, status, budget,
		gazette_notice_number, funds_deposited, created_at, updated_at, version,
		documents, logs, stage_events, parcels`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a case repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "cases"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Case], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Reference", "AcquiringBody")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Case, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand, actor Actor) (*Case, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c := NewCase(cmd, actor, time.Now().UTC())

	documents, logs, stageEvents, parcels, err := encodeCollections(&c)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO cases(id, reference, title, description, acquiring_body, status, budget,
			created_at, updated_at, version, documents, logs, stage_events, parcels)
		VALUES ($1,
			'REQ-' || to_char(now(), 'YYYY') || '-' || lpad(nextval('case_reference_seq')::text, 3, '0'),
			$2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + caseColumns

	insertArgs := []any{
		c.ID,
		c.Title,
		c.Description,
		c.AcquiringBody,
		c.Status,
		c.Budget,
		c.CreatedAt,
		c.UpdatedAt,
		c.Version,
		documents,
		logs,
		stageEvents,
		parcels,
	}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanCase)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"case created",
		"id", created.ID,
		"reference", created.Reference,
		"acquiring_body", created.AcquiringBody,
	)
	return &created, nil
}

// Save persists the case snapshot when the stored version still matches the
// snapshot's base version. A lost race returns ErrConflict and leaves the
// stored row untouched; the caller reloads and retries.
func (r *repo) Save(ctx context.Context, c *Case) (*Case, error) {
	documents, logs, stageEvents, parcels, err := encodeCollections(c)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE cases
		SET title = $2, description = $3, acquiring_body = $4, status = $5, budget = $6,
			gazette_notice_number = $7, funds_deposited = $8, updated_at = $9,
			version = version + 1,
			documents = $10, logs = $11, stage_events = $12, parcels = $13
		WHERE id = $1 AND version = $14
		RETURNING ` + caseColumns

	updateArgs := []any{
		c.ID,
		c.Title,
		c.Description,
		c.AcquiringBody,
		c.Status,
		c.Budget,
		c.GazetteNoticeNumber,
		c.FundsDeposited,
		c.UpdatedAt,
		documents,
		logs,
		stageEvents,
		parcels,
		c.Version,
	}

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		return repository.QueryOne(ctx, tx, q, updateArgs, scanCase)
	})
	if err != nil {
		return nil, r.resolveSaveError(ctx, c.ID, err)
	}

	return &saved, nil
}

// resolveSaveError distinguishes a stale-version save from a deleted row:
// both surface as zero rows from the guarded update.
func (r *repo) resolveSaveError(ctx context.Context, id uuid.UUID, err error) error {
	mapped := repository.MapError(err, ErrNotFound, ErrDuplicate)
	if mapped != ErrNotFound {
		return mapped
	}

	var exists bool
	check := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1)", id)
	if scanErr := check.Scan(&exists); scanErr != nil {
		return fmt.Errorf("resolve save conflict: %w", scanErr)
	}

	if exists {
		r.logger.Warn("concurrent case modification detected", "id", id)
		return ErrConflict
	}
	return ErrNotFound
}

func (r *repo) AddParcel(ctx context.Context, id uuid.UUID, cmd ParcelCommand, actor Actor) (*Case, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := current.Clone()
	updated.Parcels = append(updated.Parcels, Parcel{
		ID:             uuid.New(),
		ParcelNumber:   cmd.ParcelNumber,
		Owner:          cmd.Owner,
		Size:           cmd.Size,
		EstimatedValue: cmd.EstimatedValue,
		Coordinates:    cmd.Coordinates,
		Unregistered:   cmd.Unregistered,
		Status:         ParcelPending,
	})
	updated.Logs = append(updated.Logs, LogEntry{
		ID:        uuid.New(),
		Action:    "Parcel Added",
		User:      actor.Label(),
		Role:      actor.Role,
		Timestamp: now,
		Note:      cmd.ParcelNumber,
	})
	updated.UpdatedAt = now

	return r.Save(ctx, &updated)
}

func (r *repo) SetGazetteNumber(ctx context.Context, id uuid.UUID, number string, actor Actor) (*Case, error) {
	if number == "" {
		return nil, ErrInvalidCase
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	switch current.Status {
	case StatusDraft, StatusSubmitted, StatusUnderScrutiny,
		StatusReturnedForCorrection, StatusPendingCommittee, StatusRejected:
		return nil, ErrGazetteTooEarly
	}

	now := time.Now().UTC()
	updated := current.Clone()
	updated.GazetteNoticeNumber = &number
	updated.Logs = append(updated.Logs, LogEntry{
		ID:        uuid.New(),
		Action:    "Gazette Number Recorded",
		User:      actor.Label(),
		Role:      actor.Role,
		Timestamp: now,
		Note:      number,
	})
	updated.UpdatedAt = now

	return r.Save(ctx, &updated)
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	q := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COALESCE(SUM(budget), 0),
			COUNT(*) FILTER (WHERE status IN ($2, $3))
		FROM cases`

	var s Stats
	row := r.db.QueryRowContext(
		ctx, q,
		StatusUnderScrutiny,
		StatusVesting,
		StatusTitleRegistered,
	)
	if err := row.Scan(
		&s.TotalRequests,
		&s.PendingReviews,
		&s.TotalCompensation,
		&s.CompletedProjects,
	); err != nil {
		return nil, fmt.Errorf("query case stats: %w", err)
	}

	return &s, nil
}
