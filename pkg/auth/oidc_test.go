package auth_test

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/landmark/pkg/auth"
	"github.com/JaimeStill/landmark/pkg/lifecycle"
)

const clientID = "landmark"

type issuer struct {
	*httptest.Server
	key       *rsa.PrivateKey
	failFirst int32
	calls     atomic.Int32
}

// newIssuer serves discovery and JWKS for a single RSA key. The first
// failFirst discovery requests answer 500.
func newIssuer(t *testing.T, failFirst int32) *issuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	iss := &issuer{key: key, failFirst: failFirst}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		if iss.calls.Add(1) <= iss.failFirst {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"issuer":                                iss.URL,
			"authorization_endpoint":                iss.URL + "/authorize",
			"token_endpoint":                        iss.URL + "/token",
			"jwks_uri":                              iss.URL + "/keys",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})

	mux.HandleFunc("GET /keys", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"alg": "RS256",
				"use": "sig",
				"kid": "k1",
				"n":   b64(key.N.Bytes()),
				"e":   b64(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	})

	iss.Server = httptest.NewServer(mux)
	t.Cleanup(iss.Close)
	return iss
}

func b64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func (iss *issuer) sign(t *testing.T, extra map[string]any) string {
	t.Helper()

	payload := map[string]any{
		"iss": iss.URL,
		"aud": clientID,
		"sub": "u-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range extra {
		payload[k] = v
	}

	header, _ := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT", "kid": "k1"})
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}

	signing := b64(header) + "." + b64(body)
	digest := sha256.Sum256([]byte(signing))

	sig, err := rsa.SignPKCS1v15(rand.Reader, iss.key, crypto.SHA256, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signing + "." + b64(sig)
}

func startOIDC(t *testing.T, iss *issuer) *auth.OIDC {
	t.Helper()

	a := auth.NewOIDC(&auth.Config{Mode: auth.ModeOIDC, Issuer: iss.URL, ClientID: clientID}, discard())
	a.SetRetry(10*time.Millisecond, 40*time.Millisecond)

	lc := lifecycle.New()
	t.Cleanup(func() { lc.Shutdown(time.Second) })

	if err := a.Start(lc); err != nil {
		t.Fatalf("start: %v", err)
	}
	lc.WaitForStartup()

	deadline := time.Now().Add(5 * time.Second)
	for !a.Ready() {
		if time.Now().After(deadline) {
			t.Fatalf("provider not discovered after %d attempts", iss.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	return a
}

func bearer(token string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestOIDCAuthenticate(t *testing.T) {
	iss := newIssuer(t, 0)
	a := startOIDC(t, iss)

	tests := []struct {
		name      string
		claims    map[string]any
		wantErr   bool
		wantEmail string
	}{
		{"verified email", map[string]any{"email": "ada@landmark.ng", "email_verified": true, "name": "Ada"}, false, "ada@landmark.ng"},
		{"claim absent", map[string]any{"email": "ada@landmark.ng", "preferred_username": "ada"}, false, "ada@landmark.ng"},
		{"unverified email", map[string]any{"email": "x@landmark.ng", "email_verified": false}, true, ""},
		{"unverified string claim", map[string]any{"email": "x@landmark.ng", "email_verified": "false"}, true, ""},
		{"no email", map[string]any{"name": "Ada"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := a.Authenticate(bearer(iss.sign(t, tt.claims)))
			if tt.wantErr {
				if !errors.Is(err, auth.ErrUnauthenticated) {
					t.Errorf("expected ErrUnauthenticated, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("authenticate failed: %v", err)
			}
			if id.Subject != "u-1" || id.Email != tt.wantEmail {
				t.Errorf("identity: got %+v", id)
			}
		})
	}
}

func TestOIDCRejectsWrongAudience(t *testing.T) {
	iss := newIssuer(t, 0)
	a := startOIDC(t, iss)

	token := iss.sign(t, map[string]any{"email": "ada@landmark.ng", "aud": "other-client"})
	if _, err := a.Authenticate(bearer(token)); !errors.Is(err, auth.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestOIDCRetriesDiscovery(t *testing.T) {
	iss := newIssuer(t, 3)
	a := startOIDC(t, iss)

	if got := iss.calls.Load(); got < 4 {
		t.Errorf("discovery calls = %d, want at least 4", got)
	}

	id, err := a.Authenticate(bearer(iss.sign(t, map[string]any{"email": "ada@landmark.ng"})))
	if err != nil {
		t.Fatalf("authenticate after retry: %v", err)
	}
	if id.Email != "ada@landmark.ng" {
		t.Errorf("email = %q", id.Email)
	}
}
