package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/manforhire/contractor-api/internal/config"
)

// RateLimitMiddleware is a fixed-window per-IP limiter backed by Redis.
// Without a configured Redis it degrades to a pass-through, and a Redis
// failure never blocks a request.
func RateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	if cfg.RedisURL == "" {
		return func(c *gin.Context) { c.Next() }
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, rate limiting disabled: %v", err)
		return func(c *gin.Context) { c.Next() }
	}
	client := redis.NewClient(opts)

	window := cfg.RateLimitWindow
	max := int64(cfg.RateLimitMax)

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/int64(window.Seconds()))

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(c.Request.Context(), key, window)
		}

		if count > max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests from this IP, please try again later.",
			})
			return
		}

		c.Next()
	}
}
