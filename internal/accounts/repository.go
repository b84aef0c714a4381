package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/landmark/internal/roles"
	"github.com/JaimeStill/landmark/pkg/auth"
	"github.com/JaimeStill/landmark/pkg/pagination"
	"github.com/JaimeStill/landmark/pkg/query"
	"github.com/JaimeStill/landmark/pkg/repository"
)

type repo struct {
	db         *sql.DB
	policy     *roles.Policy
	gate       *roles.Gate
	logger     *slog.Logger
	pagination pagination.Config
	syncs      singleflight.Group
}

// New creates an account repository implementing the System interface.
func New(
	db *sql.DB,
	policy *roles.Policy,
	gate *roles.Gate,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		policy:     policy,
		gate:       gate,
		logger:     logger.With("system", "accounts"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// loginRefresh bounds how stale last_login_at may grow before an otherwise
// unchanged account is rewritten.
const loginRefresh = 15 * time.Minute

// syncTimeout bounds a shared sync, which outlives any single caller.
const syncTimeout = 10 * time.Second

func (r *repo) Sync(ctx context.Context, id auth.Identity) (*Account, error) {
	if id.Subject == "" {
		return nil, ErrNoIdentity
	}

	stored, err := r.stored(ctx, id.Subject)
	if err != nil {
		return nil, err
	}
	if stored != nil && !needsSync(*stored, id, r.policy.Reconcile(id.Email, stored.Role), time.Now()) {
		return stored, nil
	}

	v, err, _ := r.syncs.Do(id.Subject, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncTimeout)
		defer cancel()
		return r.sync(sctx, id)
	})
	if err != nil {
		return nil, err
	}

	a := v.(Account)
	return &a, nil
}

// needsSync reports whether stored must be rewritten for id: the reconciled
// role, email, or display name differ, or the last login has gone stale.
func needsSync(stored Account, id auth.Identity, role roles.Role, now time.Time) bool {
	return stored.Role != role ||
		stored.Email != id.Email ||
		stored.DisplayName != displayName(id) ||
		now.Sub(stored.LastLoginAt) >= loginRefresh
}

func (r *repo) stored(ctx context.Context, subject string) (*Account, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", subject)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAccount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}
	return &a, nil
}

func (r *repo) sync(ctx context.Context, id auth.Identity) (Account, error) {
	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Account, error) {
		var stored roles.Role
		err := tx.QueryRowContext(
			ctx,
			"SELECT role FROM accounts WHERE id = $1 FOR UPDATE",
			id.Subject,
		).Scan(&stored)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return Account{}, fmt.Errorf("read stored role: %w", err)
		}

		role := r.policy.Reconcile(id.Email, stored)
		if stored != "" && role != stored {
			r.logger.Info(
				"role changed",
				"id", id.Subject,
				"from", stored,
				"to", role,
				"pinned", r.policy.Pinned(id.Email),
			)
		}

		q := `
			INSERT INTO accounts(id, email, display_name, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				email = EXCLUDED.email,
				display_name = EXCLUDED.display_name,
				role = EXCLUDED.role,
				updated_at = now(),
				last_login_at = now() ` + returning

		args := []any{id.Subject, id.Email, displayName(id), role}
		return repository.QueryOne(ctx, tx, q, args, scanAccount)
	})

	if err != nil {
		return Account{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return a, nil
}

func (r *repo) Find(ctx context.Context, actor *Account, id string) (*Account, error) {
	if actor.ID != id {
		if err := r.gate.RequireReview(actor.Role); err != nil {
			return nil, err
		}
	}

	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAccount)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) List(
	ctx context.Context,
	actor *Account,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Account], error) {
	if err := r.gate.RequireReview(actor.Role); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "Email", "DisplayName")

	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanAccount)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return result, nil
}

func displayName(id auth.Identity) string {
	if id.Name != "" {
		return id.Name
	}
	return id.Email
}
