package submissions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/landmark/internal/address"
	"github.com/JaimeStill/landmark/internal/discrepancy"
	"github.com/JaimeStill/landmark/pkg/pagination"
)

// System defines the public contract for the submission workflow.
type System interface {
	Handler() *Handler

	// Submit validates the payload, resolves its reference address, runs the
	// discrepancy check, and persists the result. Collaborator failures route
	// the submission to pending_review instead of failing the request.
	Submit(ctx context.Context, owner Owner, cmd SubmitCommand) (*Submission, error)

	// Create persists a submission whose reference and verdict are already known.
	Create(
		ctx context.Context,
		payload address.Address,
		owner Owner,
		reference string,
		verdict discrepancy.Verdict,
	) (*Submission, error)

	// Transition moves a pending submission to approved or rejected.
	// Reviewer only.
	Transition(ctx context.Context, actor Actor, id uuid.UUID, cmd TransitionCommand) (*Submission, error)

	// Find returns a submission to its owner or to a reviewer.
	Find(ctx context.Context, actor Actor, id uuid.UUID) (*Submission, error)

	ListForOwner(
		ctx context.Context,
		ownerID string,
		page pagination.PageRequest,
	) (*pagination.PageResult[Submission], error)

	// ListAll returns every submission matching filters. Reviewer only.
	ListAll(
		ctx context.Context,
		actor Actor,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Submission], error)

	// ListPending returns the review queue. Reviewer only.
	ListPending(
		ctx context.Context,
		actor Actor,
		page pagination.PageRequest,
	) (*pagination.PageResult[Submission], error)
}
