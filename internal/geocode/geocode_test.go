package geocode_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/landmark/internal/address"
	"github.com/JaimeStill/landmark/internal/geocode"
)

func lagos(street string) address.Address {
	return address.Address{
		Street:  street,
		Area:    "X",
		City:    "Lagos",
		LGA:     "Eti-Osa",
		State:   "Lagos",
		Country: "Nigeria",
	}
}

func TestStubResolve(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		street string
		want   string
	}{
		{"echoes address", geocode.DefaultMarker, "12 Admiralty Way", "12 Admiralty Way, X, Lagos, Eti-Osa, Lagos, Nigeria"},
		{"marker diverges", geocode.DefaultMarker, "1 Test Discrepancy Layout St", "X, X, Lagos, Eti-Osa, Lagos, Nigeria"},
		{"marker disabled", "", "1 Test Discrepancy Layout St", "1 Test Discrepancy Layout St, X, Lagos, Eti-Osa, Lagos, Nigeria"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := lagos(tt.street)

			got, err := geocode.NewStub(tt.marker).Resolve(context.Background(), addr)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if addr.Street != tt.street {
				t.Error("Resolve must not modify the input address")
			}
		})
	}
}

func TestStubHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := geocode.NewStub("").Resolve(ctx, lagos("1 Main St")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
