package submissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/landmark/pkg/pagination"
	"github.com/JaimeStill/landmark/pkg/query"
	"github.com/JaimeStill/landmark/pkg/repository"
)

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Store over the submissions table.
func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (p *postgresStore) Create(ctx context.Context, s Submission) error {
	q := `
		INSERT INTO submissions(
			id, owner_id, owner_name, owner_email,
			street, area, city, lga, state, postal_code, country,
			reference_address, status, discrepancy_reason, submitted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := p.db.ExecContext(
		ctx, q,
		s.ID, s.OwnerID, s.OwnerName, s.OwnerEmail,
		s.Address.Street, s.Address.Area, s.Address.City, s.Address.LGA,
		s.Address.State, s.Address.PostalCode, s.Address.Country,
		s.ReferenceAddress, s.Status, s.DiscrepancyReason, s.SubmittedAt,
	)
	if repository.IsCheckViolation(err) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (p *postgresStore) Find(ctx context.Context, id uuid.UUID) (Submission, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, p.db, q, args, scanSubmission)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	return s, err
}

func (p *postgresStore) Transition(ctx context.Context, id uuid.UUID, r Review) (Submission, error) {
	q := `
		UPDATE submissions
		SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = $5
		WHERE id = $1 AND status = $6 ` + returning

	args := []any{id, r.Status, r.ReviewerID, r.Notes, r.At, StatusPendingReview}

	s, err := repository.QueryOne(ctx, p.db, q, args, scanSubmission)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Submission{}, fmt.Errorf("transition submission: %w", err)
	}

	// precondition failed: either the id is unknown or the review already happened
	if _, err := p.Find(ctx, id); err != nil {
		return Submission{}, err
	}
	return Submission{}, ErrInvalidTransition
}

func (p *postgresStore) List(
	ctx context.Context,
	filters Filters,
	page pagination.PageRequest,
) (*pagination.PageResult[Submission], error) {
	qb := query.
		NewBuilder(projection, newestFirst...).
		WhereSearch(page.Search, searchFields...)

	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, p.db, qb, page, scanSubmission)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return result, nil
}
