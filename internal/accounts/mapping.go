package accounts

import (
	"net/url"

	"github.com/JaimeStill/landmark/internal/roles"
	"github.com/JaimeStill/landmark/pkg/query"
	"github.com/JaimeStill/landmark/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "accounts", "a").
	Project("id", "ID").
	Project("email", "Email").
	Project("display_name", "DisplayName").
	Project("role", "Role").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("last_login_at", "LastLoginAt")

var defaultSort = []query.SortField{
	{Field: "DisplayName"},
	{Field: "Email"},
}

// Filters narrows account listings. Role matches exactly.
type Filters struct {
	Role *roles.Role `json:"role,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Role", f.Role)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown roles are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if r := values.Get("role"); r != "" {
		if role, err := roles.Parse(r); err == nil {
			f.Role = &role
		}
	}
	return f
}

const returning = "RETURNING id, email, display_name, role, created_at, updated_at, last_login_at"

func scanAccount(s repository.Scanner) (Account, error) {
	var (
		a    Account
		role string
	)
	err := s.Scan(
		&a.ID,
		&a.Email,
		&a.DisplayName,
		&role,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.LastLoginAt,
	)
	if err != nil {
		return Account{}, err
	}

	// rows predating a tier rename fall back to the least privilege
	if a.Role, err = roles.Parse(role); err != nil {
		a.Role = roles.User
	}
	return a, nil
}
