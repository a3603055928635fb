package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "order:create:abc", NewRedisCache("localhost:6379", "order").GenerateKey("create", "abc"))
	assert.Equal(t, "order:create:abc", NewMemoryCache("order").GenerateKey("create", "abc"))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache("order")
	c.now = func() time.Time { return now }

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)

	ok, err := c.SetNX(ctx, "k", 42, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "k", 43, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	got, _ = c.Get(ctx, "k")
	assert.Equal(t, "42", got)

	now = now.Add(time.Minute)
	got, _ = c.Get(ctx, "k")
	assert.Empty(t, got, "entry should expire")

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Del(ctx, "k"))
	got, _ = c.Get(ctx, "k")
	assert.Empty(t, got)
}
