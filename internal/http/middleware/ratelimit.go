// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file adapts the fixed-window limiter to per-route middleware. Every
// response that passes through here carries X-RateLimit-Remaining and
// X-RateLimit-Reset so clients can pace themselves before hitting the wall;
// denied requests additionally carry Retry-After and the 429 envelope.
package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tasknest/actions-gateway/internal/ratelimit"
)

// RateLimit returns middleware enforcing the named action's fixed-window
// policy for the authenticated principal. Auth must run earlier in the chain;
// an unauthenticated request reaching this middleware is a wiring bug and is
// answered with a 500 rather than silently skipping enforcement.
func RateLimit(limiter *ratelimit.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "rate limiting requires an authenticated principal",
			})
			return
		}

		d := limiter.Check(p.ID, action)

		// Headers go on allowed and denied responses alike. They are written
		// before the handler so they survive whatever body it produces.
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		ObserveRateLimit(action, d.Allowed)

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(d.RetryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too Many Requests",
				"message":    fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", d.RetryAfter),
				"retryAfter": d.RetryAfter,
			})
			return
		}

		c.Next()
	}
}
