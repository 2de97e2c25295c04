package middleware

import (
	"net/http"
	"strconv"
	"time"

	"reportes/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter is a fixed-window per-IP limiter shared by every replica
// through redis. When redis is unreachable requests are let through.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := rateLimitPrefix + c.ClientIP()

		n, err := rdb.Incr(ctx, key).Result()
		if err == nil && n == 1 {
			err = rdb.Expire(ctx, key, window).Err()
		}
		if err != nil {
			log.Warn().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("rate limiter sin redis, se permite la solicitud")
			c.Next()
			return
		}

		if n > int64(limit) {
			espera, _ := rdb.TTL(ctx, key).Result()
			if espera <= 0 {
				espera = window
			}
			c.Header("Retry-After", strconv.Itoa(int(espera.Round(time.Second).Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
