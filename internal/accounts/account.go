// Package accounts persists authenticated identities and the role each one holds.
package accounts

import (
	"time"

	"github.com/JaimeStill/landmark/internal/roles"
)

// Account is the stored projection of an authenticated identity.
// ID is the identity provider subject.
type Account struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        roles.Role `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt time.Time  `json:"last_login_at"`
}

// IsReviewer reports whether the account holds a reviewer tier.
func (a *Account) IsReviewer() bool {
	return a.Role.IsReviewer()
}
