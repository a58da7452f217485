package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redispkg "donation-platform.backend/pkg/redis"
)

func startMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)

	cli := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() {
		redispkg.SetClient(nil)
		_ = cli.Close()
	})
	return srv
}

func newIdempotentRouter(calls *int32, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/donations", IdempotencyMiddleware(), func(c *gin.Context) {
		n := atomic.AddInt32(calls, 1)
		c.JSON(status, gin.H{"call": n})
	})
	return r
}

func postWithKey(r http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/donations", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_NoHeaderPassthrough(t *testing.T) {
	startMiniRedis(t)
	var calls int32
	r := newIdempotentRouter(&calls, http.StatusCreated)

	postWithKey(r, "")
	postWithKey(r, "")
	assert.Equal(t, int32(2), calls)
}

func TestIdempotencyMiddleware_DisabledPassthrough(t *testing.T) {
	redispkg.SetClient(nil)
	var calls int32
	r := newIdempotentRouter(&calls, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, postWithKey(r, "k1").Code)
	assert.Equal(t, http.StatusCreated, postWithKey(r, "k1").Code)
	assert.Equal(t, int32(2), calls)
}

func TestIdempotencyMiddleware_ReplaysFirstResponse(t *testing.T) {
	startMiniRedis(t)
	var calls int32
	r := newIdempotentRouter(&calls, http.StatusCreated)

	first := postWithKey(r, "k1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := postWithKey(r, "k1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	assert.Equal(t, int32(1), calls)

	assert.Equal(t, http.StatusCreated, postWithKey(r, "k2").Code)
	assert.Equal(t, int32(2), calls)
}

func TestIdempotencyMiddleware_FailuresAreNotCached(t *testing.T) {
	srv := startMiniRedis(t)
	var calls int32
	r := newIdempotentRouter(&calls, http.StatusPaymentRequired)

	assert.Equal(t, http.StatusPaymentRequired, postWithKey(r, "k1").Code)
	assert.Equal(t, http.StatusPaymentRequired, postWithKey(r, "k1").Code)
	assert.Equal(t, int32(2), calls)
	assert.Empty(t, srv.Keys())
}

func TestIdempotencyMiddleware_InProgressConflict(t *testing.T) {
	srv := startMiniRedis(t)
	var calls int32
	r := newIdempotentRouter(&calls, http.StatusCreated)

	key := "idempotency:POST:/api/donations:192.0.2.1:busy"
	require.NoError(t, srv.Set(key, processingMarker))

	w := postWithKey(r, "busy")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, calls)
}

func TestIdempotencyMiddleware_LockLost(t *testing.T) {
	origGet, origSetNX := redisGet, redisSetNX
	t.Cleanup(func() { redisGet, redisSetNX = origGet, origSetNX })
	startMiniRedis(t)

	redisGet = func(context.Context, string) (string, error) { return "", redispkg.Nil }
	redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return false, nil }

	var calls int32
	r := newIdempotentRouter(&calls, http.StatusCreated)
	assert.Equal(t, http.StatusConflict, postWithKey(r, "k1").Code)
	assert.Zero(t, calls)
}

func TestIdempotencyMiddleware_StoreErrorsPassThrough(t *testing.T) {
	origGet, origSetNX := redisGet, redisSetNX
	t.Cleanup(func() { redisGet, redisSetNX = origGet, origSetNX })
	startMiniRedis(t)

	var calls int32
	r := newIdempotentRouter(&calls, http.StatusCreated)

	redisGet = func(context.Context, string) (string, error) { return "", errors.New("conn refused") }
	assert.Equal(t, http.StatusCreated, postWithKey(r, "k1").Code)

	redisGet = func(context.Context, string) (string, error) { return "", redispkg.Nil }
	redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) {
		return false, errors.New("conn refused")
	}
	assert.Equal(t, http.StatusCreated, postWithKey(r, "k1").Code)
	assert.Equal(t, int32(2), calls)
}

func TestIdempotencyMiddleware_CorruptEntry(t *testing.T) {
	srv := startMiniRedis(t)
	var calls int32
	r := newIdempotentRouter(&calls, http.StatusCreated)

	require.NoError(t, srv.Set("idempotency:POST:/api/donations:192.0.2.1:bad", "not json"))
	assert.Equal(t, http.StatusConflict, postWithKey(r, "bad").Code)
	assert.Zero(t, calls)
}
