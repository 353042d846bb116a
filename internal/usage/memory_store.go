package usage

import (
	"context"
	"sync"
	"time"

	"go-ats-backend/internal/domain"
)

// memoryEntry tracks the request count for one key
type memoryEntry struct {
	mu  sync.Mutex
	rec domain.UsageRecord
}

// MemoryStore is a process-local UsageStore
type MemoryStore struct {
	entries sync.Map // string -> *memoryEntry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context, key string) (domain.UsageRecord, bool, error) {
	v, ok := s.entries.Load(key)
	if !ok {
		return domain.UsageRecord{}, false, nil
	}
	entry := v.(*memoryEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.rec, true, nil
}

func (s *MemoryStore) Increment(_ context.Context, key string, now time.Time, window time.Duration) (domain.UsageRecord, error) {
	v, _ := s.entries.LoadOrStore(key, &memoryEntry{})
	entry := v.(*memoryEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Reset if window expired
	if entry.rec.Count == 0 || entry.rec.Expired(now, window) {
		entry.rec = domain.UsageRecord{Count: 0, ResetAt: now}
	}
	entry.rec.Count++
	return entry.rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Len counts stored keys
func (s *MemoryStore) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep removes records older than window and returns how many were removed
func (s *MemoryStore) Sweep(now time.Time, window time.Duration) int {
	removed := 0
	s.entries.Range(func(key, value any) bool {
		entry := value.(*memoryEntry)
		entry.mu.Lock()
		if entry.rec.Expired(now, window) {
			s.entries.Delete(key)
			removed++
		}
		entry.mu.Unlock()
		return true
	})
	return removed
}

// StartJanitor sweeps expired records every interval until ctx is done
func (s *MemoryStore) StartJanitor(ctx context.Context, interval, window time.Duration, clock Clock) {
	if clock == nil {
		clock = time.Now
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(clock(), window)
			}
		}
	}()
}
