package submissions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/landmark/pkg/pagination"
)

// Store persists submissions.
type Store interface {
	Create(ctx context.Context, s Submission) error
	Find(ctx context.Context, id uuid.UUID) (Submission, error)

	// Transition applies r only while the stored status is still
	// pending_review. It returns ErrNotFound for unknown ids and
	// ErrInvalidTransition when the precondition no longer holds.
	Transition(ctx context.Context, id uuid.UUID, r Review) (Submission, error)

	// List returns a page of matching submissions, newest first.
	// page must already be normalized.
	List(
		ctx context.Context,
		filters Filters,
		page pagination.PageRequest,
	) (*pagination.PageResult[Submission], error)
}
