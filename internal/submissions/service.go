package submissions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/landmark/internal/address"
	"github.com/JaimeStill/landmark/internal/discrepancy"
	"github.com/JaimeStill/landmark/internal/geocode"
	"github.com/JaimeStill/landmark/internal/roles"
	"github.com/JaimeStill/landmark/pkg/events"
	"github.com/JaimeStill/landmark/pkg/pagination"
)

// Event types published by the workflow.
const (
	EventCreated  = "submission.created"
	EventReviewed = "submission.reviewed"
)

// Timeouts bound the external calls made while triaging a submission.
// Zero disables the bound.
type Timeouts struct {
	Reference time.Duration
	Check     time.Duration
}

type service struct {
	store      Store
	resolver   geocode.Resolver
	checker    discrepancy.Checker
	gate       *roles.Gate
	events     events.System
	logger     *slog.Logger
	pagination pagination.Config
	timeouts   Timeouts
	now        func() time.Time
}

// New creates the submission workflow over store.
func New(
	store Store,
	resolver geocode.Resolver,
	checker discrepancy.Checker,
	gate *roles.Gate,
	publisher events.System,
	logger *slog.Logger,
	pagination pagination.Config,
	timeouts Timeouts,
) System {
	return &service{
		store:      store,
		resolver:   resolver,
		checker:    checker,
		gate:       gate,
		events:     publisher,
		logger:     logger.With("system", "submissions"),
		pagination: pagination,
		timeouts:   timeouts,
		now:        now,
	}
}

// Postgres keeps microseconds.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *service) Submit(ctx context.Context, owner Owner, cmd SubmitCommand) (*Submission, error) {
	payload := cmd.Address.Normalize()
	if fields := payload.Validate(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	reference, verdict := s.triage(ctx, payload)
	return s.Create(ctx, payload, owner, reference, verdict)
}

// triage never fails: collaborator errors become a flagged verdict.
func (s *service) triage(ctx context.Context, payload address.Address) (string, discrepancy.Verdict) {
	refCtx, cancel := bounded(ctx, s.timeouts.Reference)
	reference, err := s.resolver.Resolve(refCtx, payload)
	cancel()
	if err != nil {
		s.logger.Warn("reference lookup failed",
			"error", fmt.Errorf("%w: %v", ErrExternalService, err))
		return "", unavailable(ReasonReferenceUnavailable)
	}

	checkCtx, cancel := bounded(ctx, s.timeouts.Check)
	verdict, err := s.checker.Check(checkCtx, payload.String(), reference)
	cancel()
	if err == nil {
		verdict, err = verdict.Normalize()
	}
	if err != nil {
		s.logger.Warn("discrepancy check failed",
			"error", fmt.Errorf("%w: %v", ErrExternalService, err))
		return reference, unavailable(ReasonCheckUnavailable)
	}

	return reference, verdict
}

func (s *service) Create(
	ctx context.Context,
	payload address.Address,
	owner Owner,
	reference string,
	verdict discrepancy.Verdict,
) (*Submission, error) {
	sub, err := Decide(payload, owner, reference, verdict, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("submission created",
		"id", sub.ID,
		"owner", sub.OwnerID,
		"status", sub.Status,
	)
	s.events.Publish(ctx, EventCreated, sub.ID.String(), sub)

	return &sub, nil
}

func (s *service) Transition(ctx context.Context, actor Actor, id uuid.UUID, cmd TransitionCommand) (*Submission, error) {
	if err := s.gate.RequireReview(actor.Role); err != nil {
		return nil, err
	}
	if !cmd.Status.IsTerminal() {
		return nil, invalid("status", "must be approved or rejected")
	}

	review := Review{
		Status:     cmd.Status,
		ReviewerID: actor.ID,
		Notes:      cleanNotes(cmd.Notes),
		At:         s.now(),
	}

	sub, err := s.store.Transition(ctx, id, review)
	if err != nil {
		return nil, err
	}

	s.logger.Info("submission reviewed",
		"id", sub.ID,
		"status", sub.Status,
		"reviewer", actor.ID,
	)
	s.events.Publish(ctx, EventReviewed, sub.ID.String(), sub)

	return &sub, nil
}

func (s *service) Find(ctx context.Context, actor Actor, id uuid.UUID) (*Submission, error) {
	sub, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.OwnerID != actor.ID {
		if err := s.gate.RequireReview(actor.Role); err != nil {
			return nil, err
		}
	}
	return &sub, nil
}

func (s *service) ListForOwner(
	ctx context.Context,
	ownerID string,
	page pagination.PageRequest,
) (*pagination.PageResult[Submission], error) {
	page.Normalize(s.pagination)
	return s.store.List(ctx, Filters{OwnerID: &ownerID}, page)
}

func (s *service) ListAll(
	ctx context.Context,
	actor Actor,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Submission], error) {
	if err := s.gate.RequireReview(actor.Role); err != nil {
		return nil, err
	}

	page.Normalize(s.pagination)
	return s.store.List(ctx, filters, page)
}

func (s *service) ListPending(
	ctx context.Context,
	actor Actor,
	page pagination.PageRequest,
) (*pagination.PageResult[Submission], error) {
	if err := s.gate.RequireReview(actor.Role); err != nil {
		return nil, err
	}

	pending := StatusPendingReview
	page.Normalize(s.pagination)
	return s.store.List(ctx, Filters{Status: &pending}, page)
}

func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
