package accounts_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/JaimeStill/landmark/internal/accounts"
	"github.com/JaimeStill/landmark/internal/roles"
	"github.com/JaimeStill/landmark/pkg/auth"
	"github.com/JaimeStill/landmark/pkg/pagination"
	"github.com/JaimeStill/landmark/pkg/routes"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockSystem struct {
	syncFn func(ctx context.Context, id auth.Identity) (*accounts.Account, error)
	findFn func(ctx context.Context, actor *accounts.Account, id string) (*accounts.Account, error)
	listFn func(ctx context.Context, actor *accounts.Account, page pagination.PageRequest, filters accounts.Filters) (*pagination.PageResult[accounts.Account], error)
}

func (m *mockSystem) Handler() *accounts.Handler {
	return accounts.NewHandler(m, discardLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) Sync(ctx context.Context, id auth.Identity) (*accounts.Account, error) {
	return m.syncFn(ctx, id)
}

func (m *mockSystem) Find(ctx context.Context, actor *accounts.Account, id string) (*accounts.Account, error) {
	return m.findFn(ctx, actor, id)
}

func (m *mockSystem) List(ctx context.Context, actor *accounts.Account, page pagination.PageRequest, filters accounts.Filters) (*pagination.PageResult[accounts.Account], error) {
	return m.listFn(ctx, actor, page, filters)
}

func testGate(t *testing.T) *roles.Gate {
	t.Helper()
	g, err := roles.NewGate(discardLogger())
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}
	return g
}

func withAccount(r *http.Request, a *accounts.Account) *http.Request {
	return r.WithContext(accounts.WithAccount(r.Context(), a))
}

func TestMiddlewareSyncsIdentity(t *testing.T) {
	var synced auth.Identity
	sys := &mockSystem{
		syncFn: func(_ context.Context, id auth.Identity) (*accounts.Account, error) {
			synced = id
			return &accounts.Account{ID: id.Subject, Email: id.Email, Role: roles.Manager}, nil
		},
	}

	var seen *accounts.Account
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = accounts.FromContext(r.Context())
	})

	h := accounts.Middleware(sys, discardLogger())(next)

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{Subject: "sub-1", Email: "ada@landmark.ng"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if synced.Subject != "sub-1" {
		t.Errorf("synced identity = %+v", synced)
	}
	if seen == nil || seen.Role != roles.Manager {
		t.Errorf("account in context = %+v", seen)
	}
}

func TestMiddlewareRequiresIdentity(t *testing.T) {
	sys := &mockSystem{}
	h := accounts.Middleware(sys, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next should not be called")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareSyncFailure(t *testing.T) {
	sys := &mockSystem{
		syncFn: func(context.Context, auth.Identity) (*accounts.Account, error) {
			return nil, errors.New("db down")
		},
	}
	h := accounts.Middleware(sys, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next should not be called")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{Subject: "sub-1"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRequireReviewer(t *testing.T) {
	mw := accounts.RequireReviewer(testGate(t), discardLogger())
	h := mw(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		account *accounts.Account
		want    int
	}{
		{"manager", &accounts.Account{ID: "m", Role: roles.Manager}, http.StatusNoContent},
		{"cto", &accounts.Account{ID: "c", Role: roles.CTO}, http.StatusNoContent},
		{"user", &accounts.Account{ID: "u", Role: roles.User}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.account != nil {
				req = withAccount(req, tt.account)
			}
			rec := httptest.NewRecorder()
			h(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerMe(t *testing.T) {
	sys := &mockSystem{}
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	me := &accounts.Account{ID: "sub-1", Email: "ada@landmark.ng", Role: roles.Manager}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, withAccount(httptest.NewRequest("GET", "/accounts/me", nil), me))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got accounts.Account
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.ID != "sub-1" || got.Role != roles.Manager {
		t.Errorf("body = %+v", got)
	}
}

func TestHandlerListMapsPermission(t *testing.T) {
	sys := &mockSystem{
		listFn: func(_ context.Context, actor *accounts.Account, page pagination.PageRequest, f accounts.Filters) (*pagination.PageResult[accounts.Account], error) {
			if f.Role == nil || *f.Role != roles.Manager {
				t.Errorf("role filter = %v", f.Role)
			}
			return nil, roles.ErrPermissionDenied
		},
	}
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	target := "/accounts?" + url.Values{"role": {"manager"}}.Encode()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, withAccount(httptest.NewRequest("GET", target, nil), &accounts.Account{ID: "u", Role: roles.User}))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, actor *accounts.Account, id string) (*accounts.Account, error) {
			if id == "missing" {
				return nil, accounts.ErrNotFound
			}
			return &accounts.Account{ID: id}, nil
		},
	}
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())
	actor := &accounts.Account{ID: "m", Role: roles.Manager}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, withAccount(httptest.NewRequest("GET", "/accounts/sub-9", nil), actor))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, withAccount(httptest.NewRequest("GET", "/accounts/missing", nil), actor))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestFiltersFromQueryIgnoresUnknownRole(t *testing.T) {
	f := accounts.FiltersFromQuery(url.Values{"role": {"superuser"}})
	if f.Role != nil {
		t.Errorf("role = %v, want nil", *f.Role)
	}
}

func TestNeedsSync(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	stored := accounts.Account{
		ID:          "sub-1",
		Email:       "ada@landmark.ng",
		DisplayName: "Ada",
		Role:        roles.Manager,
		LastLoginAt: now.Add(-time.Minute),
	}
	id := auth.Identity{Subject: "sub-1", Email: "ada@landmark.ng", Name: "Ada"}

	tests := []struct {
		name  string
		id    auth.Identity
		role  roles.Role
		login time.Time
		want  bool
	}{
		{"unchanged recent login", id, roles.Manager, stored.LastLoginAt, false},
		{"role changed", id, roles.CTO, stored.LastLoginAt, true},
		{"email changed", auth.Identity{Subject: "sub-1", Email: "ada@other.ng", Name: "Ada"}, roles.Manager, stored.LastLoginAt, true},
		{"name changed", auth.Identity{Subject: "sub-1", Email: "ada@landmark.ng", Name: "Ada Obi"}, roles.Manager, stored.LastLoginAt, true},
		{"stale login", id, roles.Manager, now.Add(-accounts.LoginRefresh), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := stored
			a.LastLoginAt = tt.login
			if got := accounts.NeedsSync(a, tt.id, tt.role, now); got != tt.want {
				t.Errorf("NeedsSync() = %v, want %v", got, tt.want)
			}
		})
	}
}
