package accounts

import (
	"context"

	"github.com/JaimeStill/landmark/pkg/auth"
	"github.com/JaimeStill/landmark/pkg/pagination"
)

// System defines the public contract for account operations.
type System interface {
	Handler() *Handler

	// Sync records a login for id, reconciling the stored role with the
	// role policy, and returns the resulting account. The row is written
	// only when the reconciled fields differ or the last login is stale.
	Sync(ctx context.Context, id auth.Identity) (*Account, error)

	// Find returns the account with the given id. Non-reviewers may only
	// read their own account.
	Find(ctx context.Context, actor *Account, id string) (*Account, error)

	// List returns accounts for reviewers.
	List(
		ctx context.Context,
		actor *Account,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Account], error)
}
