package remote

import "time"

const (
	backoffBase = 500 * time.Millisecond
	backoffMax  = 30 * time.Second
)

// backoffDelay returns the exponential backoff duration for a given retry
// count: backoffBase * 2^retry, capped at backoffMax. Negative counts map
// to the base delay.
func backoffDelay(retry int) time.Duration {
	if retry < 0 {
		return backoffBase
	}

	// 2^30 * base already exceeds any sane cap; short-circuit before the
	// shift can overflow.
	if retry > 30 {
		return backoffMax
	}

	delay := backoffBase * time.Duration(1<<retry)
	if delay > backoffMax {
		return backoffMax
	}
	return delay
}
