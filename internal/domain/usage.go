package domain

import (
	"context"
	"time"
)

// UsageWindow is the rolling window after which a usage record resets
const UsageWindow = 24 * time.Hour

// UsageRecord is the per-key request counter
type UsageRecord struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"resetAt"`
}

// Expired reports whether the record is older than window at now. A record
// whose age equals the window is already expired, so the reset lands exactly
// at ResetAt+window.
func (r UsageRecord) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(r.ResetAt) >= window
}

// LimitStatus is the outcome of a quota lookup
type LimitStatus struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	Count     int       `json:"count"`
	ResetAt   time.Time `json:"resetAt"`
}

// UsageStore maps a client key to its usage record.
// Implementations must make each single call atomic for its key.
type UsageStore interface {
	// Load returns the stored record, or found=false when absent
	Load(ctx context.Context, key string) (rec UsageRecord, found bool, err error)

	// Increment starts a new window at now when the record is absent or older
	// than window, otherwise adds one to the count
	Increment(ctx context.Context, key string, now time.Time, window time.Duration) (UsageRecord, error)

	// Delete discards the record
	Delete(ctx context.Context, key string) error
}

// UsageLimiter bounds requests per client key. It never returns errors.
type UsageLimiter interface {
	CheckLimit(ctx context.Context, key string) LimitStatus
	Increment(ctx context.Context, key string) LimitStatus
	Limit() int
}
