package middleware

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"BracOut-backend/internal/utilities"
)

// The outbound message quota lives in Redis so it survives restarts and
// coordinates across instances. Fixed window: first INCR sets the expiry.
const quotaScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// MessageQuota is a Redis-backed per-user counter with
// increment-and-expire semantics.
type MessageQuota struct {
	client *redis.Client
	script *redis.Script
	limit  int
	window time.Duration
}

// NewMessageQuota builds a quota from REDIS_ADDR. Returns a nil quota when
// the address is unset; a nil quota allows everything, so messaging never
// depends on the cache being up.
func NewMessageQuota(limit int, window time.Duration) *MessageQuota {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	return &MessageQuota{
		client: client,
		script: redis.NewScript(quotaScript),
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the user may send another message in the current
// window. Fails open on Redis errors.
func (q *MessageQuota) Allow(userID string) bool {
	if q == nil || q.client == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	allowed, err := q.script.Run(ctx, q.client,
		[]string{"msgquota:" + userID}, q.window.Milliseconds(), q.limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// MessageQuotaMiddleware rejects message sends beyond the quota with 429.
func MessageQuotaMiddleware(q *MessageQuota) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.Err(err.Error()))
			return
		}
		if !q.Allow(user.ID.String()) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, utilities.Err(
				"Message quota exceeded. Please try again later."))
			return
		}
		ctx.Next()
	}
}
