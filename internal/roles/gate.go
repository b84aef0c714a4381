package roles

import (
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	resourceSubmissions = "submissions"
	actionReview        = "review"
)

const gateModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Gate authorizes reviewer-only operations.
type Gate struct {
	enforcer *casbin.Enforcer
	logger   *slog.Logger
}

// NewGate builds an in-memory enforcer granting review to every reviewer tier.
func NewGate(logger *slog.Logger) (*Gate, error) {
	m, err := model.NewModelFromString(gateModel)
	if err != nil {
		return nil, fmt.Errorf("gate model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("gate enforcer: %w", err)
	}

	for _, role := range Reviewers() {
		if _, err := e.AddPolicy(string(role), resourceSubmissions, actionReview); err != nil {
			return nil, fmt.Errorf("gate policy %s: %w", role, err)
		}
	}

	return &Gate{
		enforcer: e,
		logger:   logger.With("system", "gate"),
	}, nil
}

// AuthorizeReview reports whether role may review submissions.
// Enforcer errors deny.
func (g *Gate) AuthorizeReview(role Role) bool {
	ok, err := g.enforcer.Enforce(string(role), resourceSubmissions, actionReview)
	if err != nil {
		g.logger.Error("enforce failed", "role", role, "error", err)
		return false
	}
	return ok
}

// RequireReview returns ErrPermissionDenied unless role may review.
func (g *Gate) RequireReview(role Role) error {
	if !g.AuthorizeReview(role) {
		return fmt.Errorf("%w: role %q cannot review", ErrPermissionDenied, role)
	}
	return nil
}
