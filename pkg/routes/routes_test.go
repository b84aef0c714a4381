package routes_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/landmark/pkg/routes"
)

func named(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name))
	}
}

func testGroup() routes.Group {
	return routes.Group{
		Prefix: "/submissions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: named("list")},
			{Method: "GET", Pattern: "/{id}", Handler: named("find")},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/approve", Handler: named("approve")},
				},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, testGroup())

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/submissions", "list"},
		{"GET", "/submissions/abc", "find"},
		{"POST", "/submissions/abc/approve", "approve"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Body.String() != tt.want {
				t.Errorf("got %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestRegisterMethodMismatch(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, testGroup())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/submissions", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}

func TestPatterns(t *testing.T) {
	got := routes.Patterns(testGroup())
	want := []string{
		"GET /submissions",
		"GET /submissions/{id}",
		"POST /submissions/{id}/approve",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Patterns() = %v, want %v", got, want)
	}
}

func TestGroupWith(t *testing.T) {
	deny := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Allow") == "" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next(w, r)
		}
	}

	original := testGroup()
	mux := http.NewServeMux()
	routes.Register(mux, original.With(deny))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/submissions/abc/approve", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("child route not wrapped: status %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/submissions", nil)
	req.Header.Set("X-Allow", "1")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Body.String() != "list" {
		t.Errorf("allowed request body = %q", rec.Body.String())
	}

	plain := httptest.NewRecorder()
	original.Routes[0].Handler(plain, httptest.NewRequest("GET", "/submissions", nil))
	if plain.Body.String() != "list" {
		t.Error("With must not modify the original group")
	}
}
