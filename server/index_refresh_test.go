package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Luismorlan/yatube/cache"
	"github.com/Luismorlan/yatube/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingCache reports every miss and counts writes.
type recordingCache struct {
	cache.PageCache
	misses chan string
	sets   int32
}

func newRecordingCache(inner cache.PageCache) *recordingCache {
	return &recordingCache{PageCache: inner, misses: make(chan string, 64)}
}

func (r *recordingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, ok, err := r.PageCache.Get(ctx, key)
	if !ok {
		r.misses <- key
	}
	return body, ok, err
}

func (r *recordingCache) Set(ctx context.Context, key string, body []byte) error {
	atomic.AddInt32(&r.sets, 1)
	return r.PageCache.Set(ctx, key, body)
}

// blockFirstQuery holds the first query run on db until release is called.
func blockFirstQuery(t *testing.T, db *gorm.DB) (started <-chan struct{}, release func()) {
	t.Helper()
	startedCh := make(chan struct{})
	releaseCh := make(chan struct{})
	var blockOnce, releaseOnce sync.Once
	err := db.Callback().Query().Before("gorm:query").Register("test:block_first_query", func(tx *gorm.DB) {
		blockOnce.Do(func() {
			close(startedCh)
			<-releaseCh
		})
	})
	require.NoError(t, err)
	release = func() { releaseOnce.Do(func() { close(releaseCh) }) }
	t.Cleanup(release)
	return startedCh, release
}

func serveAsync(router http.Handler, req *http.Request) (*httptest.ResponseRecorder, <-chan struct{}) {
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		router.ServeHTTP(w, req)
	}()
	return w, done
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func waitMiss(t *testing.T, rc *recordingCache) {
	t.Helper()
	select {
	case <-rc.misses:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a cache miss")
	}
}

func TestIndexRefreshSurvivesCancelledRequest(t *testing.T) {
	env := newTestEnv(t)
	author := utils.TestCreateUserAndValidate(t, "leo", env.db)
	utils.TestCreatePostAndValidate(t, "cached", author, nil, env.db)
	rc := newRecordingCache(env.server.Cache)
	env.server.Cache = rc
	started, release := blockFirstQuery(t, env.db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gone, goneDone := serveAsync(env.router, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	waitMiss(t, rc)
	waitFor(t, started, "the index refresh")

	healthy, healthyDone := serveAsync(env.router, httptest.NewRequest(http.MethodGet, "/", nil))
	waitMiss(t, rc)
	// let the second request join the refresh in flight
	time.Sleep(50 * time.Millisecond)

	cancel()
	waitFor(t, goneDone, "the cancelled request")
	assert.NotEqual(t, http.StatusInternalServerError, gone.Code)

	release()
	waitFor(t, healthyDone, "the healthy request")
	require.Equal(t, http.StatusOK, healthy.Code, healthy.Body.String())
	var ctxView listContext
	decodePage(t, healthy, &ctxView)
	assert.Len(t, ctxView.PageObj.Posts, 1)

	// the refresh finished and filled the cache even though its starter left
	body, ok, err := rc.PageCache.Get(context.Background(), indexCacheKey(""))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, healthy.Body.Bytes(), body)
}

func TestIndexConcurrentMissesShareOneRefresh(t *testing.T) {
	const requests = 8
	env := newTestEnv(t)
	author := utils.TestCreateUserAndValidate(t, "leo", env.db)
	utils.TestCreatePostsAndValidate(t, 3, author, nil, env.db)
	rc := newRecordingCache(env.server.Cache)
	env.server.Cache = rc
	started, release := blockFirstQuery(t, env.db)

	recorders := make([]*httptest.ResponseRecorder, 0, requests)
	dones := make([]<-chan struct{}, 0, requests)
	for i := 0; i < requests; i++ {
		w, done := serveAsync(env.router, httptest.NewRequest(http.MethodGet, "/", nil))
		recorders = append(recorders, w)
		dones = append(dones, done)
	}
	for i := 0; i < requests; i++ {
		waitMiss(t, rc)
	}
	waitFor(t, started, "the index refresh")
	time.Sleep(50 * time.Millisecond)

	release()
	for _, done := range dones {
		waitFor(t, done, "a request")
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&rc.sets))
	for _, w := range recorders {
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, recorders[0].Body.String(), w.Body.String())
	}
	var ctxView listContext
	decodePage(t, recorders[0], &ctxView)
	assert.Len(t, ctxView.PageObj.Posts, 3)

	// later requests are hits and don't refresh again
	assert.Equal(t, recorders[0].Body.String(), env.get("/", "").Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&rc.sets))
}
