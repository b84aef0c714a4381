// Package discrepancy decides whether a submitted address disagrees with its
// reference address.
package discrepancy

import (
	"context"
	"errors"
	"strings"
)

// ErrSchema reports a checker response that violates the verdict shape.
var ErrSchema = errors.New("verdict schema violation")

// Verdict is the outcome of a discrepancy check. Reason is non-empty
// exactly when IsDiscrepant is true.
type Verdict struct {
	IsDiscrepant bool   `json:"is_discrepant"`
	Reason       string `json:"reason"`
}

// Checker compares a submitted address with its reference. Implementations
// may call external services and must honor ctx cancellation.
type Checker interface {
	Check(ctx context.Context, submitted, reference string) (Verdict, error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, submitted, reference string) (Verdict, error)

func (f CheckerFunc) Check(ctx context.Context, submitted, reference string) (Verdict, error) {
	return f(ctx, submitted, reference)
}

// Normalize trims the reason, clears it for unflagged verdicts, and rejects
// flagged verdicts without a reason.
func (v Verdict) Normalize() (Verdict, error) {
	v.Reason = strings.TrimSpace(v.Reason)
	if !v.IsDiscrepant {
		v.Reason = ""
		return v, nil
	}
	if v.Reason == "" {
		return Verdict{}, ErrSchema
	}
	return v, nil
}
