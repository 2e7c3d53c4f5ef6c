// Package wait polls a predicate until it holds or a deadline passes.
package wait

import "time"

// DefaultInterval is the pause between two predicate evaluations
const DefaultInterval = 100 * time.Millisecond

// Until evaluates fn until it reports ok or timeout elapses, sleeping interval between attempts.
// It returns the value from the first successful evaluation, or the zero value and false on timeout.
// A timeout is not an error: callers decide what an unmet condition means.
func Until[T any](timeout, interval time.Duration, fn func() (T, bool)) (T, bool) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	deadline := time.Now().Add(timeout)

	for {
		if v, ok := fn(); ok {
			return v, true
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			var zero T
			return zero, false
		}

		// Never sleep past the deadline
		if remaining < interval {
			time.Sleep(remaining)
		} else {
			time.Sleep(interval)
		}
	}
}

// True polls a boolean predicate, see Until
func True(timeout, interval time.Duration, fn func() bool) bool {
	_, ok := Until(timeout, interval, func() (struct{}, bool) {
		return struct{}{}, fn()
	})
	return ok
}
