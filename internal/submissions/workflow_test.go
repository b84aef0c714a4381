package submissions_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/JaimeStill/landmark/internal/address"
	"github.com/JaimeStill/landmark/internal/discrepancy"
	"github.com/JaimeStill/landmark/internal/roles"
	"github.com/JaimeStill/landmark/internal/submissions"
)

func ptr[T any](v T) *T { return &v }

var ada = submissions.Owner{ID: "sub-ada", Name: "Ada Obi", Email: "ada@gmail.com"}

func lagosAddress() address.Address {
	return address.Address{
		Street:  "1 Allen Avenue",
		Area:    "Allen",
		City:    "Ikeja",
		LGA:     "Ikeja",
		State:   "Lagos",
		Country: "Nigeria",
	}
}

func validPayloads() []address.Address {
	withPostal := lagosAddress()
	withPostal.PostalCode = ptr("100271")

	return []address.Address{
		lagosAddress(),
		withPostal,
		{Street: "  7  Aminu Kano Crescent ", Area: "Wuse II", City: "Abuja", LGA: "AMAC", State: "FCT", Country: "Nigeria"},
		{Street: "1 Test Discrepancy Layout St", Area: "X", City: "Lagos", LGA: "Eti-Osa", State: "Lagos", Country: "Nigeria"},
	}
}

func TestDecideFlaggedIsPending(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	verdict := discrepancy.Verdict{IsDiscrepant: true, Reason: "street not found in area"}

	for _, payload := range validPayloads() {
		t.Run(payload.Street, func(t *testing.T) {
			s, err := submissions.Decide(payload, ada, "ref", verdict, now)
			if err != nil {
				t.Fatalf("Decide failed: %v", err)
			}
			if s.Status != submissions.StatusPendingReview {
				t.Errorf("status = %s, want pending_review", s.Status)
			}
			if s.DiscrepancyReason == nil || *s.DiscrepancyReason != verdict.Reason {
				t.Errorf("reason = %v, want %q", s.DiscrepancyReason, verdict.Reason)
			}
		})
	}
}

func TestDecideUnflaggedIsApproved(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, payload := range validPayloads() {
		t.Run(payload.Street, func(t *testing.T) {
			s, err := submissions.Decide(payload, ada, "ref", discrepancy.Verdict{Reason: "ignored"}, now)
			if err != nil {
				t.Fatalf("Decide failed: %v", err)
			}
			if s.Status != submissions.StatusApproved {
				t.Errorf("status = %s, want approved", s.Status)
			}
			if s.DiscrepancyReason != nil {
				t.Errorf("reason = %q, want none", *s.DiscrepancyReason)
			}
		})
	}
}

func TestDecideFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	payload := lagosAddress()
	payload.Street = "  1   Allen Avenue  "

	s, err := submissions.Decide(payload, ada, "1 Allen Avenue, Allen, Ikeja, Ikeja, Lagos, Nigeria", discrepancy.Verdict{}, now)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if s.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("id not assigned")
	}
	if s.OwnerID != ada.ID || s.OwnerName != ada.Name || s.OwnerEmail != ada.Email {
		t.Errorf("owner = %s/%s/%s", s.OwnerID, s.OwnerName, s.OwnerEmail)
	}
	if s.Address.Street != "1 Allen Avenue" {
		t.Errorf("street not normalized: %q", s.Address.Street)
	}
	if !s.SubmittedAt.Equal(now) {
		t.Errorf("submitted_at = %v", s.SubmittedAt)
	}
	if s.ReviewedAt != nil || s.ReviewedBy != nil || s.ReviewNotes != nil {
		t.Error("review fields must be unset on creation")
	}
	if s.Status == submissions.StatusRejected {
		t.Error("new submissions are never rejected")
	}
}

func TestDecideValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*address.Address)
		owner submissions.Owner
		field string
	}{
		{"missing street", func(a *address.Address) { a.Street = "" }, ada, "street"},
		{"blank city", func(a *address.Address) { a.City = "   " }, ada, "city"},
		{"missing lga", func(a *address.Address) { a.LGA = "" }, ada, "lga"},
		{"missing country", func(a *address.Address) { a.Country = "" }, ada, "country"},
		{"missing owner", func(*address.Address) {}, submissions.Owner{}, "owner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := lagosAddress()
			tt.edit(&payload)

			_, err := submissions.Decide(payload, tt.owner, "", discrepancy.Verdict{}, time.Now())

			var ve *submissions.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !errors.Is(err, submissions.ErrValidation) {
				t.Error("ValidationError should match ErrValidation")
			}
			if ve.Fields[tt.field] == "" {
				t.Errorf("fields = %v, want entry for %s", ve.Fields, tt.field)
			}
		})
	}
}

func TestDecidePostalCodeOptional(t *testing.T) {
	payload := lagosAddress()
	payload.PostalCode = ptr("   ")

	s, err := submissions.Decide(payload, ada, "", discrepancy.Verdict{}, time.Now())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if s.Address.PostalCode != nil {
		t.Errorf("blank postal code should be dropped, got %q", *s.Address.PostalCode)
	}
}

func TestApply(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	pending, _ := submissions.Decide(lagosAddress(), ada, "", discrepancy.Verdict{IsDiscrepant: true, Reason: "x"}, now)

	t.Run("approve", func(t *testing.T) {
		got, err := pending.Apply(submissions.Review{Status: submissions.StatusApproved, ReviewerID: "mgr", Notes: ptr("ok"), At: now})
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if got.Status != submissions.StatusApproved || got.ReviewedBy == nil || *got.ReviewedBy != "mgr" {
			t.Errorf("got %+v", got)
		}
		if pending.Status != submissions.StatusPendingReview {
			t.Error("Apply must not modify the receiver")
		}
	})

	t.Run("terminal", func(t *testing.T) {
		rejected, _ := pending.Apply(submissions.Review{Status: submissions.StatusRejected, ReviewerID: "mgr", At: now})
		_, err := rejected.Apply(submissions.Review{Status: submissions.StatusApproved, ReviewerID: "mgr", At: now})
		if !errors.Is(err, submissions.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("invalid target", func(t *testing.T) {
		_, err := pending.Apply(submissions.Review{Status: submissions.StatusPendingReview, ReviewerID: "mgr", At: now})
		if !errors.Is(err, submissions.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestStatusTransitions(t *testing.T) {
	all := []submissions.Status{submissions.StatusPendingReview, submissions.StatusApproved, submissions.StatusRejected}

	for _, from := range all {
		for _, to := range all {
			want := from == submissions.StatusPendingReview && to != submissions.StatusPendingReview
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := submissions.ParseStatus("archived"); err == nil {
		t.Error("expected error for unknown status")
	}
	if s, err := submissions.ParseStatus("approved"); err != nil || s != submissions.StatusApproved {
		t.Errorf("ParseStatus(approved) = %s, %v", s, err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&submissions.ValidationError{Fields: map[string]string{"city": "required"}}, http.StatusBadRequest},
		{roles.ErrPermissionDenied, http.StatusForbidden},
		{submissions.ErrNotFound, http.StatusNotFound},
		{submissions.ErrInvalidTransition, http.StatusConflict},
		{submissions.ErrExternalService, http.StatusBadGateway},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := submissions.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &submissions.ValidationError{Fields: map[string]string{"street": "required", "city": "required"}}
	want := "validation failed: city: required, street: required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
