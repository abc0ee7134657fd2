// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the payload guard: a size check on the raw request body
// that runs strictly before JSON parsing, bounding the memory and CPU spent
// on hostile input. Size is measured in UTF-8 encoded bytes, not characters,
// so multi-byte content counts correctly.
package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// rawBodyKey is the Gin context key for the guarded body bytes.
const rawBodyKey = "rawBody"

// BodyGuard returns middleware that rejects bodies larger than maxBytes with
// a 413 naming the actual and maximum sizes. At most maxBytes+1 bytes are
// ever buffered; an oversized body is never read to completion. The accepted
// body is stashed in the context for the handler's parse step (the stream is
// consumed here).
func BodyGuard(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Set(rawBodyKey, []byte{})
			c.Next()
			return
		}

		data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "failed to read request body",
			})
			return
		}
		if int64(len(data)) > maxBytes {
			actual := c.Request.ContentLength
			if actual < int64(len(data)) {
				// Chunked uploads report -1; the best lower bound we have is
				// what was read before the limit tripped.
				actual = int64(len(data))
			}
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("Request body too large: %d bytes (maximum %d bytes)", actual, maxBytes),
			})
			return
		}

		c.Set(rawBodyKey, data)
		c.Next()
	}
}

// BodyFrom returns the guarded raw body bytes stored by BodyGuard. It returns
// nil when the guard did not run for this request.
func BodyFrom(c *gin.Context) []byte {
	if v, ok := c.Get(rawBodyKey); ok {
		if b, ok := v.([]byte); ok {
			return b
		}
	}
	return nil
}
