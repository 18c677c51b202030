package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPageCacheHitWithinTTL(t *testing.T) {
	clk := testclock.NewClock(time.Date(2021, 8, 8, 0, 0, 0, 0, time.UTC))
	c := NewMemoryPageCache(clk, 20*time.Second)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "index:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "index:1", []byte("rendered")))
	clk.Advance(19 * time.Second)
	body, ok, err := c.Get(ctx, "index:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "rendered", string(body))

	clk.Advance(time.Second)
	_, ok, err = c.Get(ctx, "index:1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryPageCacheStoresCopy(t *testing.T) {
	c := NewMemoryPageCache(testclock.NewClock(time.Now()), time.Minute)
	body := []byte("first")
	require.NoError(t, c.Set(context.Background(), "index:1", body))
	body[0] = 'F'

	got, ok, _ := c.Get(context.Background(), "index:1")
	assert.True(t, ok)
	assert.Equal(t, "first", string(got))
}

func TestMemoryPageCacheInvalidate(t *testing.T) {
	c := NewMemoryPageCache(testclock.NewClock(time.Now()), time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "index:1", []byte("one")))
	require.NoError(t, c.Set(ctx, "index:2", []byte("two")))

	require.NoError(t, c.Invalidate(ctx))
	for _, key := range []string{"index:1", "index:2"} {
		_, ok, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	// invalidating an empty cache is fine
	assert.NoError(t, c.Invalidate(ctx))
}

func TestMemoryPageCacheDefaults(t *testing.T) {
	c := NewMemoryPageCache(nil, 0)
	assert.Equal(t, DefaultTTL, c.ttl)
	assert.NotNil(t, c.clock)
}

func TestMemoryPageCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryPageCache(testclock.NewClock(time.Now()), time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := []byte(fmt.Sprintf("body-%d", i))
			for j := 0; j < 100; j++ {
				c.Set(ctx, "index:1", body)
				got, ok, _ := c.Get(ctx, "index:1")
				if ok {
					// a reader sees a whole body written by some writer
					assert.Regexp(t, `^body-\d$`, string(got))
				}
			}
		}(i)
	}
	wg.Wait()
}
