package discrepancy

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

type comparison struct{}

// NewComparisonChecker returns a deterministic checker that compares the two
// addresses component by component, ignoring case, spacing, and punctuation.
func NewComparisonChecker() Checker {
	return comparison{}
}

func (comparison) Check(ctx context.Context, submitted, reference string) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}

	sub := components(submitted)
	ref := components(reference)

	for i := range max(len(sub), len(ref)) {
		s, r := at(sub, i), at(ref, i)
		if s.key == r.key {
			continue
		}
		return Verdict{
			IsDiscrepant: true,
			Reason:       fmt.Sprintf("component %d differs: submitted %q, reference %q", i+1, s.text, r.text),
		}, nil
	}

	return Verdict{}, nil
}

type component struct {
	text string
	key  string
}

func components(s string) []component {
	var out []component
	for part := range strings.SplitSeq(s, ",") {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		out = append(out, component{text: text, key: fold(text)})
	}
	return out
}

func at(cs []component, i int) component {
	if i < len(cs) {
		return cs[i]
	}
	return component{text: "", key: ""}
}

func fold(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
