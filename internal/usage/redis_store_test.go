package usage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client)
}

func TestRedisStore_IncrementStartsWindow(t *testing.T) {
	mr, s := newTestRedis(t)
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)

	rec, err := s.Increment(ctx, "ats:k", now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count)
	assert.True(t, rec.ResetAt.Equal(now))

	rec, err = s.Increment(ctx, "ats:k", now.Add(time.Minute), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count)
	assert.True(t, rec.ResetAt.Equal(now))

	assert.Equal(t, time.Hour, mr.TTL("ats:k"))
}

func TestRedisStore_IncrementAfterWindowResets(t *testing.T) {
	_, s := newTestRedis(t)
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)

	_, err := s.Increment(ctx, "k", now, time.Hour)
	require.NoError(t, err)
	_, err = s.Increment(ctx, "k", now, time.Hour)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	rec, err := s.Increment(ctx, "k", later, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count)
	assert.True(t, rec.ResetAt.Equal(later))
}

func TestRedisStore_LoadAndDelete(t *testing.T) {
	_, s := newTestRedis(t)
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)

	_, found, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = s.Increment(ctx, "k", now, time.Hour)
	require.NoError(t, err)

	rec, found, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, rec.Count)
	assert.True(t, rec.ResetAt.Equal(now))

	require.NoError(t, s.Delete(ctx, "k"))
	_, found, err = s.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_LimiterFallsBackWhenRedisDown(t *testing.T) {
	mr, s := newTestRedis(t)
	fallback := NewMemoryStore()
	l := NewLimiter(s, 1, time.Hour, WithFallback(fallback))
	ctx := context.Background()

	mr.Close()

	l.Increment(ctx, "k")
	assert.False(t, l.CheckLimit(ctx, "k").Allowed)
	assert.Equal(t, 1, fallback.Len())
}
