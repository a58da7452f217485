package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/interfaces/http/response"
	"donation-platform.backend/pkg/logger"
	"donation-platform.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisEnabled = redis.Enabled
	redisGet     = redis.Get
	redisSet     = redis.Set
	redisSetNX   = redis.SetNX
	redisDel     = redis.Del
)

// storedResponse is what gets replayed for a repeated key
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key. Requests pass straight through when Redis is not configured
// or unreachable.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || !redisEnabled() {
			c.Next()
			return
		}

		storageKey := idempotencyStorageKey(c, key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil:
			replay(c, val)
			return
		case !errors.Is(err, redis.Nil):
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil {
			logger.Warn(ctx, "Idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			response.Error(c, domainerrors.Conflict("Request already in progress"))
			c.Abort()
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 && json.Valid(w.body.Bytes()) {
			payload, _ := json.Marshal(storedResponse{Status: status, Body: w.body.Bytes()})
			if err := redisSet(ctx, storageKey, string(payload), RetentionDuration); err != nil {
				logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
			}
			return
		}
		// failures are not cached so the client can retry
		_ = redisDel(ctx, storageKey)
	}
}

func idempotencyStorageKey(c *gin.Context, key string) string {
	owner := c.ClientIP()
	if id, ok := GetUserID(c); ok {
		owner = id.String()
	}
	return fmt.Sprintf("idempotency:%s:%s:%s:%s", c.Request.Method, c.FullPath(), owner, key)
}

func replay(c *gin.Context, val string) {
	if val == processingMarker {
		response.Error(c, domainerrors.Conflict("Request already in progress"))
		c.Abort()
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(val), &stored); err != nil || stored.Status == 0 {
		response.Error(c, domainerrors.Conflict("Request already processed"))
		c.Abort()
		return
	}

	c.Header("X-Idempotency-Hit", "true")
	c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
	c.Abort()
}
