package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crucible/internal/cache"
)

type payload struct {
	Cost      int64 `json:"cost"`
	Reachable bool  `json:"reachable"`
}

func newRedis(t *testing.T, opts ...cache.Option) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewFromClient(client, opts...), mr
}

func TestRedis_RoundTrip(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()

	var got payload
	hit, err := c.Get(ctx, "abc", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "abc", payload{Cost: 94, Reachable: true}))
	assert.True(t, mr.Exists(cache.DefaultPrefix+"abc"))

	hit, err = c.Get(ctx, "abc", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Cost: 94, Reachable: true}, got)
	assert.NoError(t, c.Ping(ctx))
}

func TestRedis_PrefixAndTTL(t *testing.T) {
	c, mr := newRedis(t, cache.WithPrefix("t:"), cache.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Cost: 1}))
	assert.Equal(t, time.Second, mr.TTL("t:k"))

	mr.FastForward(2 * time.Second)
	hit, err := c.Get(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedis_CorruptValue(t *testing.T) {
	c, mr := newRedis(t)
	require.NoError(t, mr.Set(cache.DefaultPrefix+"bad", "{not json"))

	_, err := c.Get(context.Background(), "bad", &payload{})
	assert.ErrorContains(t, err, "decode")
}

func TestRedis_ServerDown(t *testing.T) {
	c, mr := newRedis(t)
	mr.Close()

	_, err := c.Get(context.Background(), "k", &payload{})
	assert.Error(t, err)
	assert.Error(t, c.Set(context.Background(), "k", payload{}))
}

func TestNop(t *testing.T) {
	var c cache.Cache = cache.Nop{}
	require.NoError(t, c.Set(context.Background(), "k", payload{Cost: 3}))
	hit, err := c.Get(context.Background(), "k", &payload{})
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "d:4:10:step", cache.Key("d", "4", "10", "step"))
}
