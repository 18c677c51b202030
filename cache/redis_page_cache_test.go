package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisPageCache(t *testing.T, ttl time.Duration) (*RedisPageCache, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisPageCache(client, ttl), s
}

func TestRedisKeyParser(t *testing.T) {
	p := RedisKeyParser{delimiter: "__"}

	key, err := p.EncodePageKey("index:2")
	require.NoError(t, err)
	assert.Equal(t, "yatube_page__index:2", key)

	decoded, err := p.DecodePageKey(key)
	require.NoError(t, err)
	assert.Equal(t, "index:2", decoded)

	_, err = p.EncodePageKey("index__2")
	assert.Error(t, err)
	_, err = p.DecodePageKey("other__index:2")
	assert.Error(t, err)
}

func TestRedisPageCacheTTL(t *testing.T) {
	c, s := newTestRedisPageCache(t, 20*time.Second)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "index:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "index:1", []byte("rendered")))
	body, ok, err := c.Get(ctx, "index:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "rendered", string(body))

	s.FastForward(21 * time.Second)
	_, ok, err = c.Get(ctx, "index:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisPageCacheInvalidateKeepsForeignKeys(t *testing.T) {
	c, s := newTestRedisPageCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Set("session__abc", "keep me"))
	require.NoError(t, c.Set(ctx, "index:1", []byte("one")))
	require.NoError(t, c.Set(ctx, "index:2", []byte("two")))

	require.NoError(t, c.Invalidate(ctx))

	for _, key := range []string{"index:1", "index:2"} {
		_, ok, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.True(t, s.Exists("session__abc"))
}

func TestRedisPageCacheRejectsInvalidKey(t *testing.T) {
	c, _ := newTestRedisPageCache(t, time.Minute)
	assert.Error(t, c.Set(context.Background(), "a__b", []byte("x")))
	_, _, err := c.Get(context.Background(), "a__b")
	assert.Error(t, err)
}
