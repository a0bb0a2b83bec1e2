package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"humanglue-backend/internal/shared/response"
	"humanglue-backend/pkg/cache"
)

// RateLimit is a fixed-window per-IP limiter backed by Redis counters.
// The first hit in a window creates the counter and sets its TTL;
// hits beyond maxRequests inside the window are rejected with 429.
// Redis being unavailable fails open: throttling is protection, not
// a correctness requirement.
func RateLimit(store cache.Cache, scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		count, err := store.Increment(c.Request.Context(), key)
		if err != nil {
			log.Error().Err(err).Str("scope", scope).Msg("Rate limiter unavailable")
			c.Next()
			return
		}

		if count == 1 {
			if err := store.Expire(c.Request.Context(), key, window); err != nil {
				log.Error().Err(err).Str("scope", scope).Msg("Failed to set rate limit window")
			}
		}

		if count > int64(maxRequests) {
			retryAfter := window
			if ttl, err := store.TTL(c.Request.Context(), key); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			response.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
