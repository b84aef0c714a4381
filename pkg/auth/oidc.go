package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/landmark/pkg/lifecycle"
)

type claims struct {
	Email             string `json:"email"`
	EmailVerified     any    `json:"email_verified"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
}

// unverified reports an email_verified claim that is explicitly false.
// Some providers encode the claim as a string.
func (c claims) unverified() bool {
	switch v := c.EmailVerified.(type) {
	case bool:
		return !v
	case string:
		return strings.EqualFold(v, "false")
	}
	return false
}

// OIDC verifies bearer ID tokens against an OpenID Connect issuer.
// Provider discovery runs on lifecycle startup and is retried with backoff
// until it succeeds or the lifecycle ends. Until then Authenticate returns
// ErrNotReady.
type OIDC struct {
	cfg      *Config
	logger   *slog.Logger
	verifier atomic.Pointer[oidc.IDTokenVerifier]

	retryMin time.Duration
	retryMax time.Duration
}

// NewOIDC creates an OIDC authenticator. No network calls are made until Start.
func NewOIDC(cfg *Config, logger *slog.Logger) *OIDC {
	return &OIDC{
		cfg:      cfg,
		logger:   logger.With("system", "auth"),
		retryMin: time.Second,
		retryMax: time.Minute,
	}
}

// Ready reports whether provider discovery has completed.
func (o *OIDC) Ready() bool {
	return o.verifier.Load() != nil
}

func (o *OIDC) Start(lc *lifecycle.Coordinator) error {
	lc.Track(o)

	lc.OnStartup(func() {
		if err := o.discover(lc.Context()); err != nil {
			o.logger.Error("oidc discovery failed", "issuer", o.cfg.Issuer, "error", err)
			go o.rediscover(lc.Context())
		}
	})

	return nil
}

func (o *OIDC) discover(ctx context.Context) error {
	provider, err := oidc.NewProvider(ctx, o.cfg.Issuer)
	if err != nil {
		return err
	}

	o.verifier.Store(provider.Verifier(&oidc.Config{
		ClientID:        o.cfg.ClientID,
		SkipExpiryCheck: o.cfg.SkipExpiryCheck,
	}))
	o.logger.Info("oidc provider discovered", "issuer", o.cfg.Issuer)
	return nil
}

// rediscover retries discovery with exponential backoff until it succeeds
// or ctx is cancelled.
func (o *OIDC) rediscover(ctx context.Context) {
	delay := o.retryMin
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for attempt := 2; ; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		err := o.discover(ctx)
		if err == nil {
			return
		}

		delay = min(delay*2, o.retryMax)
		o.logger.Warn("oidc discovery retry failed", "attempt", attempt, "next_in", delay, "error", err)
		timer.Reset(delay)
	}
}

func (o *OIDC) Authenticate(r *http.Request) (Identity, error) {
	verifier := o.verifier.Load()
	if verifier == nil {
		return Identity{}, ErrNotReady
	}

	raw, ok := bearerToken(r)
	if !ok {
		return Identity{}, ErrUnauthenticated
	}

	token, err := verifier.Verify(r.Context(), raw)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	var c claims
	if err := token.Claims(&c); err != nil {
		return Identity{}, fmt.Errorf("%w: decode claims: %v", ErrUnauthenticated, err)
	}
	if c.Email == "" {
		return Identity{}, fmt.Errorf("%w: token has no email claim", ErrUnauthenticated)
	}
	if c.unverified() {
		return Identity{}, fmt.Errorf("%w: email %s is not verified", ErrUnauthenticated, c.Email)
	}

	name := c.Name
	if name == "" {
		name = c.PreferredUsername
	}

	return Identity{
		Subject: token.Subject,
		Email:   c.Email,
		Name:    name,
	}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
