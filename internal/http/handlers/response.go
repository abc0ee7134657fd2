// Package handlers provides the HTTP handler implementations for the five
// gateway actions.
//
// This file defines the response-shaping helpers that guarantee the uniform
// envelope contract across every action:
//
//	Success:             action-specific JSON, HTTP 200
//	Validation failure:  {"error": joined, "errors": [...]}, HTTP 400
//	Malformed JSON:      {"error": "Invalid JSON in request body"}, HTTP 400
//	Upstream failure:    {"error": message}, HTTP 500
//
// The 401/413/429 envelopes are produced by the middleware that detects those
// conditions; see internal/http/middleware.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tasknest/actions-gateway/internal/http/middleware"
	"github.com/tasknest/actions-gateway/internal/validate"
)

// parseBody decodes the guarded raw body into a JSON object. On malformed
// JSON (or a non-object body) it writes the 400 envelope and reports false;
// the caller must return immediately.
func parseBody(c *gin.Context) (map[string]any, bool) {
	raw := middleware.BodyFrom(c)
	var body map[string]any
	if len(raw) == 0 || json.Unmarshal(raw, &body) != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON in request body",
		})
		return nil, false
	}
	return body, true
}

// failValidation writes the 400 envelope carrying the complete violation set.
func failValidation(c *gin.Context, vi *validate.Violations) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  vi.Join(),
		"errors": vi.Messages(),
	})
}

// failUpstream writes the 500 envelope for a failed external call and logs it
// with request context. Downstream errors are not retried here; retry policy
// belongs to the caller.
func failUpstream(c *gin.Context, err error) {
	middleware.LoggerFrom(c).Error().Err(err).Msg("upstream call failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": err.Error(),
	})
}

// failNotFound writes a 404 envelope with a human-readable message.
func failNotFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": msg})
}

// ok writes a success JSON response.
func ok(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
