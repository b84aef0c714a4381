package submissions

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JaimeStill/landmark/internal/address"
	"github.com/JaimeStill/landmark/pkg/query"
	"github.com/JaimeStill/landmark/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "submissions", "s").
	Project("id", "ID").
	Project("owner_id", "OwnerID").
	Project("owner_name", "OwnerName").
	Project("owner_email", "OwnerEmail").
	Project("street", "Street").
	Project("area", "Area").
	Project("city", "City").
	Project("lga", "LGA").
	Project("state", "State").
	Project("postal_code", "PostalCode").
	Project("country", "Country").
	Project("reference_address", "ReferenceAddress").
	Project("status", "Status").
	Project("discrepancy_reason", "DiscrepancyReason").
	Project("submitted_at", "SubmittedAt").
	Project("reviewed_at", "ReviewedAt").
	Project("reviewed_by", "ReviewedBy").
	Project("review_notes", "ReviewNotes")

// Newest first; id breaks ties so paging is stable.
var newestFirst = []query.SortField{
	{Field: "SubmittedAt", Descending: true},
	{Field: "ID", Descending: true},
}

var searchFields = []string{"Street", "Area", "City", "OwnerName", "OwnerEmail"}

// Filters narrows submission listings. Nil fields are ignored. Status and
// OwnerID match exactly; State, LGA, and City match case-insensitively.
type Filters struct {
	Status  *Status `json:"status,omitempty"`
	OwnerID *string `json:"owner_id,omitempty"`
	State   *string `json:"state,omitempty"`
	LGA     *string `json:"lga,omitempty"`
	City    *string `json:"city,omitempty"`
}

// Validate rejects a status filter that names no known status.
func (f Filters) Validate() error {
	if f.Status == nil {
		return nil
	}
	if _, err := ParseStatus(string(*f.Status)); err != nil {
		return invalid("status", "unknown status")
	}
	return nil
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("OwnerID", f.OwnerID).
		WhereEqualsFold("State", f.State).
		WhereEqualsFold("LGA", f.LGA).
		WhereEqualsFold("City", f.City)
}

// Match reports whether s satisfies the filters and the optional search term.
// It mirrors Apply for stores that filter in memory.
func (f Filters) Match(s Submission, search *string) bool {
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.OwnerID != nil && s.OwnerID != *f.OwnerID {
		return false
	}
	if !foldEquals(f.State, s.Address.State) || !foldEquals(f.LGA, s.Address.LGA) || !foldEquals(f.City, s.Address.City) {
		return false
	}
	if search == nil || *search == "" {
		return true
	}

	term := strings.ToLower(*search)
	for _, v := range []string{s.Address.Street, s.Address.Area, s.Address.City, s.OwnerName, s.OwnerEmail} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func foldEquals(want *string, got string) bool {
	return want == nil || *want == "" || strings.EqualFold(*want, got)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown status values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		if status, err := ParseStatus(s); err == nil {
			f.Status = &status
		}
	}

	optional := func(key string) *string {
		if v := values.Get(key); v != "" {
			return &v
		}
		return nil
	}

	f.OwnerID = optional("owner_id")
	f.State = optional("state")
	f.LGA = optional("lga")
	f.City = optional("city")

	return f
}

const columns = `id, owner_id, owner_name, owner_email,
	street, area, city, lga, state, postal_code, country,
	reference_address, status, discrepancy_reason,
	submitted_at, reviewed_at, reviewed_by, review_notes`

const returning = "RETURNING " + columns

// scanSubmission decodes a row into a typed Submission. Rows with values
// outside the domain are reported as external service failures.
func scanSubmission(s repository.Scanner) (Submission, error) {
	var (
		sub    Submission
		addr   address.Address
		status string
	)

	err := s.Scan(
		&sub.ID,
		&sub.OwnerID,
		&sub.OwnerName,
		&sub.OwnerEmail,
		&addr.Street,
		&addr.Area,
		&addr.City,
		&addr.LGA,
		&addr.State,
		&addr.PostalCode,
		&addr.Country,
		&sub.ReferenceAddress,
		&status,
		&sub.DiscrepancyReason,
		&sub.SubmittedAt,
		&sub.ReviewedAt,
		&sub.ReviewedBy,
		&sub.ReviewNotes,
	)
	if err != nil {
		return Submission{}, err
	}

	if sub.Status, err = ParseStatus(status); err != nil {
		return Submission{}, fmt.Errorf("%w: submission %s: %v", ErrExternalService, sub.ID, err)
	}
	if sub.Status == StatusRejected && sub.ReviewedAt == nil {
		return Submission{}, fmt.Errorf("%w: submission %s: rejected without review", ErrExternalService, sub.ID)
	}

	sub.Address = addr
	return sub, nil
}
