package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)

	value := []byte("v1")
	require.NoError(t, c.Set(ctx, "k", value, time.Minute))
	value[0] = 'x'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))
	now = now.Add(24 * time.Hour)
	_, err = c.Get(ctx, "forever")
	require.NoError(t, err)
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close()

	ctx := context.Background()
	c := NewRedisCache(client, "receipt-api-test:"+uuid.NewString()+":")

	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}
