package submissions

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/landmark/internal/address"
	"github.com/JaimeStill/landmark/internal/discrepancy"
)

// Reasons recorded when triage could not run.
const (
	ReasonReferenceUnavailable = "reference address unavailable"
	ReasonCheckUnavailable     = "automated verification unavailable"
	reasonUnspecified          = "discrepancy flagged"
)

// Decide constructs a new submission from a triaged payload. A flagged verdict
// yields pending_review with the verdict's reason; otherwise the submission is
// approved with no reason. The payload is normalized before validation.
func Decide(
	payload address.Address,
	owner Owner,
	reference string,
	verdict discrepancy.Verdict,
	now time.Time,
) (Submission, error) {
	payload = payload.Normalize()

	fields := payload.Validate()
	if strings.TrimSpace(owner.ID) == "" {
		fields["owner"] = "required"
	}
	if len(fields) > 0 {
		return Submission{}, &ValidationError{Fields: fields}
	}

	s := Submission{
		ID:               uuid.New(),
		OwnerID:          owner.ID,
		OwnerName:        owner.Name,
		OwnerEmail:       owner.Email,
		Address:          payload,
		ReferenceAddress: reference,
		Status:           StatusApproved,
		SubmittedAt:      now,
	}

	if verdict.IsDiscrepant {
		reason := strings.TrimSpace(verdict.Reason)
		if reason == "" {
			reason = reasonUnspecified
		}
		s.Status = StatusPendingReview
		s.DiscrepancyReason = &reason
	}

	return s, nil
}

// Apply returns s after review r. s must be pending.
func (s Submission) Apply(r Review) (Submission, error) {
	if !r.Status.IsTerminal() {
		return s, invalid("status", "must be approved or rejected")
	}
	if !s.Status.CanTransition(r.Status) {
		return s, ErrInvalidTransition
	}

	at := r.At
	reviewer := r.ReviewerID
	s.Status = r.Status
	s.ReviewedAt = &at
	s.ReviewedBy = &reviewer
	s.ReviewNotes = r.Notes
	return s, nil
}

// unavailable routes a submission whose triage failed to manual review.
func unavailable(reason string) discrepancy.Verdict {
	return discrepancy.Verdict{IsDiscrepant: true, Reason: reason}
}

func cleanNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	n := strings.TrimSpace(*notes)
	if n == "" {
		return nil
	}
	return &n
}
