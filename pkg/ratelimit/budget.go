// Package ratelimit models the provider-reported query budget.
//
// Unlike a client-side token bucket, the budget here is authoritative data
// read from the provider's own rate-limit status endpoint: a remaining call
// count and the instant the window resets. The retrieval engine reads one
// Budget snapshot per invocation and treats it as read-only; the provider is
// the only party that mutates the real counters.
package ratelimit

import "time"

// Budget is a snapshot of the remaining query quota for one rate window.
type Budget struct {
	// Remaining is the number of calls the provider will still accept in
	// the current window.
	Remaining int

	// Reset is when the provider starts the next window.
	Reset time.Time
}

// New builds a Budget from a remaining count and a POSIX reset instant, the
// two fields the status endpoint exposes.
func New(remaining int, reset int64) Budget {
	return Budget{
		Remaining: remaining,
		Reset:     time.Unix(reset, 0).UTC(),
	}
}

// Exhausted reports whether no calls are left in the current window.
func (b Budget) Exhausted() bool {
	return b.Remaining <= 0
}

// Allows reports whether a call may be issued after `used` calls have
// already been spent from this snapshot.
func (b Budget) Allows(used int) bool {
	return used < b.Remaining
}

// Until returns how long to wait for the next window from the given instant.
// Zero when the window has already reset.
func (b Budget) Until(now time.Time) time.Duration {
	if remaining := b.Reset.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}
