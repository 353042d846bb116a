package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigOptions(t *testing.T) {
	t.Run("empty URL", func(t *testing.T) {
		_, err := Config{}.Options()
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := Config{URL: "http://example.com"}.Options()
		assert.Error(t, err)
	})

	t.Run("password override and pool size", func(t *testing.T) {
		opts, err := Config{URL: "redis://:secret@localhost:6379/2", Password: "other", PoolSize: 4}.Options()
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", opts.Addr)
		assert.Equal(t, "other", opts.Password)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 4, opts.PoolSize)
		assert.Nil(t, opts.TLSConfig)
	})

	t.Run("TLS scheme", func(t *testing.T) {
		opts, err := Config{URL: "rediss://localhost:6380"}.Options()
		require.NoError(t, err)
		require.NotNil(t, opts.TLSConfig)
	})
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, HealthCheck(context.Background(), client))
	assert.Error(t, HealthCheck(context.Background(), nil))
}
