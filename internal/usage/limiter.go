// Package usage implements the per-client quota that gates scoring requests.
package usage

import (
	"context"
	"log/slog"
	"time"

	"go-ats-backend/internal/domain"
)

// Clock returns the current time
type Clock func() time.Time

// Limiter counts requests per key over a fixed rolling window.
//
// CheckLimit followed by Increment is not atomic: concurrent requests from one
// client may be admitted past the limit. Each store call on its own is atomic.
type Limiter struct {
	store    domain.UsageStore
	fallback domain.UsageStore
	limit    int
	window   time.Duration
	prefix   string
	now      Clock
	log      *slog.Logger
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock injects the time source
func WithClock(c Clock) Option {
	return func(l *Limiter) { l.now = c }
}

// WithFallback sets the store used when the primary store errors
func WithFallback(s domain.UsageStore) Option {
	return func(l *Limiter) { l.fallback = s }
}

// WithKeyPrefix namespaces keys in a shared store
func WithKeyPrefix(p string) Option {
	return func(l *Limiter) { l.prefix = p }
}

// WithLogger sets the logger used for store errors
func WithLogger(log *slog.Logger) Option {
	return func(l *Limiter) { l.log = log }
}

// NewLimiter creates a limiter allowing limit requests per window
func NewLimiter(store domain.UsageStore, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit is the configured request limit
func (l *Limiter) Limit() int {
	return l.limit
}

// Window is the configured reset window
func (l *Limiter) Window() time.Duration {
	return l.window
}

// CheckLimit reports whether key may make another request. Expired records
// are discarded first. It never consumes quota.
func (l *Limiter) CheckLimit(ctx context.Context, key string) domain.LimitStatus {
	now := l.now()
	fullKey := l.prefix + key

	rec, found, err := l.store.Load(ctx, fullKey)
	if err != nil {
		l.storeFailed("load", err)
		rec, found = l.loadFallback(ctx, fullKey)
	}

	if found && rec.Expired(now, l.window) {
		l.delete(ctx, fullKey)
		found = false
	}
	if !found {
		rec = domain.UsageRecord{}
	}
	return l.status(rec, now)
}

// Increment records one request for key, starting a new window when the
// record is absent or expired
func (l *Limiter) Increment(ctx context.Context, key string) domain.LimitStatus {
	now := l.now()
	fullKey := l.prefix + key

	rec, err := l.store.Increment(ctx, fullKey, now, l.window)
	if err != nil {
		l.storeFailed("increment", err)
		rec = l.incrementFallback(ctx, fullKey, now)
	}
	return l.status(rec, now)
}

// TryIncrement is Increment against the primary store only. Callers that must
// fail closed use it to see store errors.
func (l *Limiter) TryIncrement(ctx context.Context, key string) (domain.LimitStatus, error) {
	now := l.now()
	rec, err := l.store.Increment(ctx, l.prefix+key, now, l.window)
	if err != nil {
		return domain.LimitStatus{}, err
	}
	return l.status(rec, now), nil
}

func (l *Limiter) status(rec domain.UsageRecord, now time.Time) domain.LimitStatus {
	remaining := l.limit - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	resetAt := rec.ResetAt.Add(l.window)
	if rec.Count == 0 {
		resetAt = now.Add(l.window)
	}
	return domain.LimitStatus{
		Allowed:   rec.Count < l.limit,
		Remaining: remaining,
		Limit:     l.limit,
		Count:     rec.Count,
		ResetAt:   resetAt,
	}
}

func (l *Limiter) loadFallback(ctx context.Context, key string) (domain.UsageRecord, bool) {
	if l.fallback == nil {
		return domain.UsageRecord{}, false
	}
	rec, found, err := l.fallback.Load(ctx, key)
	if err != nil {
		l.storeFailed("fallback load", err)
		return domain.UsageRecord{}, false
	}
	return rec, found
}

func (l *Limiter) incrementFallback(ctx context.Context, key string, now time.Time) domain.UsageRecord {
	if l.fallback == nil {
		// Fail open: count this request alone
		return domain.UsageRecord{Count: 1, ResetAt: now}
	}
	rec, err := l.fallback.Increment(ctx, key, now, l.window)
	if err != nil {
		l.storeFailed("fallback increment", err)
		return domain.UsageRecord{Count: 1, ResetAt: now}
	}
	return rec
}

func (l *Limiter) delete(ctx context.Context, key string) {
	if err := l.store.Delete(ctx, key); err != nil {
		l.storeFailed("delete", err)
		if l.fallback != nil {
			_ = l.fallback.Delete(ctx, key)
		}
	}
}

func (l *Limiter) storeFailed(op string, err error) {
	l.log.Warn("Usage store operation failed, using fallback", "op", op, "error", err)
}
