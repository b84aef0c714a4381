package auth

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/landmark/pkg/lifecycle"
)

// Identity headers trusted by the header authenticator.
const (
	HeaderSubject = "X-Landmark-Subject"
	HeaderEmail   = "X-Landmark-Email"
	HeaderName    = "X-Landmark-Name"
)

// Header trusts identity headers set by a fronting proxy or a developer.
// It performs no verification and is meant for local development only.
type Header struct{}

// NewHeader creates a header authenticator.
func NewHeader() *Header {
	return &Header{}
}

func (Header) Start(*lifecycle.Coordinator) error {
	return nil
}

func (Header) Authenticate(r *http.Request) (Identity, error) {
	email := strings.TrimSpace(r.Header.Get(HeaderEmail))
	if email == "" {
		return Identity{}, ErrUnauthenticated
	}

	subject := strings.TrimSpace(r.Header.Get(HeaderSubject))
	if subject == "" {
		subject = strings.ToLower(email)
	}

	return Identity{
		Subject: subject,
		Email:   email,
		Name:    strings.TrimSpace(r.Header.Get(HeaderName)),
	}, nil
}
