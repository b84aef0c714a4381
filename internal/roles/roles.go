// Package roles resolves permission tiers from email addresses and gates
// reviewer-only operations.
package roles

import (
	"errors"
	"fmt"
	"slices"
)

// Role is a permission tier.
type Role string

const (
	User          Role = "user"
	CTO           Role = "cto"
	Administrator Role = "administrator"
	Manager       Role = "manager"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidRole      = errors.New("invalid role")
)

var reviewers = []Role{CTO, Administrator, Manager}

// Reviewers returns the tiers allowed to review submissions.
func Reviewers() []Role {
	return slices.Clone(reviewers)
}

// IsReviewer reports whether r is one of the reviewer tiers.
func (r Role) IsReviewer() bool {
	return slices.Contains(reviewers, r)
}

// Parse validates s as a known role.
func Parse(s string) (Role, error) {
	r := Role(s)
	if r == User || r.IsReviewer() {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// UnmarshalText rejects unknown roles so configuration typos fail at load.
func (r *Role) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
