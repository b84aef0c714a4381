package submissions

import "fmt"

// Status is the review state of a submission.
type Status string

const (
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
)

// IsTerminal reports whether no transition may leave s. The terminal
// statuses are also the only transition targets.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether a submission in s may move to next.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPendingReview && next.IsTerminal()
}

// ParseStatus decodes a stored status value.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPendingReview, StatusApproved, StatusRejected:
		return s, nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}
