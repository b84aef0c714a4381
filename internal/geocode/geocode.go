// Package geocode produces the reference address a submission is compared against.
package geocode

import (
	"context"
	"strings"

	"github.com/JaimeStill/landmark/internal/address"
)

// DefaultMarker is the street substring that makes the stub resolver diverge.
const DefaultMarker = "discrepancy"

// Resolver returns a single formatted reference string for a structured address.
type Resolver interface {
	Resolve(ctx context.Context, addr address.Address) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, addr address.Address) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, addr address.Address) (string, error) {
	return f(ctx, addr)
}

// Stub is an offline resolver that echoes the submitted address in display form.
// When the street contains the marker (case-insensitive) the street is replaced
// by the area, the way a geocoder snaps an unknown street to its district.
type Stub struct {
	marker string
}

// NewStub creates a stub resolver. An empty marker disables divergence.
func NewStub(marker string) *Stub {
	return &Stub{marker: strings.ToLower(strings.TrimSpace(marker))}
}

func (s *Stub) Resolve(ctx context.Context, addr address.Address) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := addr
	if s.marker != "" && strings.Contains(strings.ToLower(ref.Street), s.marker) {
		ref.Street = ref.Area
	}
	return ref.String(), nil
}
