// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides bearer-token authentication. The middleware runs before
// rate limiting because the limiter is keyed on the verified principal id,
// never on anything the client asserts about itself.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tasknest/actions-gateway/internal/domain"
)

// principalKey is the Gin context key under which the verified Principal is
// stored.
const principalKey = "principal"

// TokenVerifier exchanges an Authorization header for a Principal. Implemented
// by auth.Verifier; faked in tests.
type TokenVerifier interface {
	VerifyHeader(ctx context.Context, header string) (*domain.Principal, error)
}

// Auth returns middleware that verifies the request's bearer token and stores
// the resulting Principal in the context. Verification failures abort with
// the standard 401 envelope; the denial reason is surfaced in `message` so
// clients can distinguish a missing header from an expired token.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := verifier.VerifyHeader(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": err.Error(),
			})
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// PrincipalFrom returns the verified Principal stored by Auth, or false when
// the request has not been authenticated.
func PrincipalFrom(c *gin.Context) (*domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok && p != nil
}

// principalID returns the verified principal id or "" before authentication.
// Used by the access logger.
func principalID(c *gin.Context) string {
	if p, ok := PrincipalFrom(c); ok {
		return p.ID
	}
	return ""
}
