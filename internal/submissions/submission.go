// Package submissions implements the address submission review workflow:
// triage on creation, one-shot reviewer transitions, and scoped listings.
package submissions

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/landmark/internal/address"
	"github.com/JaimeStill/landmark/internal/roles"
)

// Submission is an address moving through review.
type Submission struct {
	ID                uuid.UUID       `json:"id"`
	OwnerID           string          `json:"owner_id"`
	OwnerName         string          `json:"owner_name"`
	OwnerEmail        string          `json:"owner_email"`
	Address           address.Address `json:"address"`
	ReferenceAddress  string          `json:"reference_address"`
	Status            Status          `json:"status"`
	DiscrepancyReason *string         `json:"discrepancy_reason,omitempty"`
	SubmittedAt       time.Time       `json:"submitted_at"`
	ReviewedAt        *time.Time      `json:"reviewed_at,omitempty"`
	ReviewedBy        *string         `json:"reviewed_by,omitempty"`
	ReviewNotes       *string         `json:"review_notes,omitempty"`
}

// Owner is the submitting identity as captured at submission time.
type Owner struct {
	ID    string
	Name  string
	Email string
}

// Actor is the identity performing an operation.
type Actor struct {
	ID   string
	Role roles.Role
}

// SubmitCommand is the request body for a new submission.
type SubmitCommand struct {
	address.Address
}

// TransitionCommand moves a pending submission to a review outcome.
type TransitionCommand struct {
	Status Status  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// ReviewCommand carries optional notes for the approve and reject endpoints.
type ReviewCommand struct {
	Notes *string `json:"notes,omitempty"`
}

// Review is the change applied by a successful transition.
type Review struct {
	Status     Status
	ReviewerID string
	Notes      *string
	At         time.Time
}
