// AI-completion handler.
//
// POST /<base>/ai-completion proxies a chat-completion request to the model
// provider. Buffered completions return the provider's JSON; when the caller
// sets `stream: true` the upstream SSE byte stream is proxied through
// unmodified so tokens reach the client as they are generated.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tasknest/actions-gateway/internal/actions"
	"github.com/tasknest/actions-gateway/internal/http/middleware"
	"github.com/tasknest/actions-gateway/internal/upstream/llm"
)

// Completion handles POST ai-completion requests.
func (h *Handlers) Completion(c *gin.Context) {
	body, okParse := parseBody(c)
	if !okParse {
		return
	}
	req, vi := actions.ValidateCompletion(body)
	if !vi.OK() {
		failValidation(c, vi)
		return
	}

	p, _ := middleware.PrincipalFrom(c)
	upReq := &llm.CompletionRequest{
		Model:       req.Model,
		Messages:    make([]llm.Message, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		// The verified principal id rides along as an opaque attribution tag.
		User: p.ID,
	}
	for i, m := range req.Messages {
		upReq.Messages[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	if req.Stream {
		h.streamCompletion(c, upReq)
		return
	}

	resp, err := h.llm.CreateCompletion(c.Request.Context(), upReq)
	if err != nil {
		failUpstream(c, err)
		return
	}
	ok(c, resp)
}

// streamCompletion proxies the upstream SSE stream to the client without
// buffering. Backpressure is the transport's problem: each read chunk is
// written and flushed before the next read.
func (h *Handlers) streamCompletion(c *gin.Context, upReq *llm.CompletionRequest) {
	stream, err := h.llm.StreamCompletion(c.Request.Context(), upReq)
	if err != nil {
		failUpstream(c, err)
		return
	}
	defer stream.Close()

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	buf := make([]byte, 4096)
	for {
		n, readErr := stream.Read(buf)
		if n > 0 {
			if _, writeErr := c.Writer.Write(buf[:n]); writeErr != nil {
				// Client went away; stop pulling from upstream.
				return
			}
			c.Writer.Flush()
		}
		if readErr != nil {
			// io.EOF ends the stream cleanly; anything else is logged but the
			// response is already committed, so no envelope can follow.
			if !errors.Is(readErr, io.EOF) {
				middleware.LoggerFrom(c).Error().Err(readErr).Msg("completion stream interrupted")
			}
			return
		}
	}
}
