package auth

import "time"

// SetRetry shortens discovery backoff for tests.
func (o *OIDC) SetRetry(minDelay, maxDelay time.Duration) {
	o.retryMin = minDelay
	o.retryMax = maxDelay
}
