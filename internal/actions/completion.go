package actions

import (
	"github.com/tasknest/actions-gateway/internal/validate"
)

// AI-completion constraints.
const (
	maxMessages       = 50
	maxMessageContent = 10000
	maxModelLen       = 100

	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048

	minTemperature = 0.0
	maxTemperature = 2.0
	minMaxTokens   = 1
	maxMaxTokens   = 4096
)

// ChatMessage is one turn of the conversation sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the validated, defaulted ai-completion payload.
type CompletionRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"maxTokens"`
	Stream      bool          `json:"stream"`
}

// ValidateCompletion checks body against the ai-completion shape and returns
// the normalized request. On failure the returned Violations lists every
// problem found; the request must not be used.
func ValidateCompletion(body map[string]any) (CompletionRequest, *validate.Violations) {
	vi := &validate.Violations{}
	req := CompletionRequest{
		Model:       defaultModel,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	raw, present := body["messages"]
	msgs, isSlice := validate.Slice(raw)
	switch {
	case !present || !isSlice || len(msgs) == 0:
		vi.Add("messages is required and must be a non-empty array")
	case len(msgs) > maxMessages:
		vi.Addf("too many messages (maximum %d)", maxMessages)
	default:
		req.Messages = make([]ChatMessage, 0, len(msgs))
		for i, m := range msgs {
			obj, ok := validate.Map(m)
			if !ok {
				vi.Addf("messages[%d] must be an object", i)
				continue
			}
			role, _ := validate.Str(obj["role"])
			if role != "user" && role != "assistant" && role != "system" {
				vi.Addf("messages[%d].role must be one of: user, assistant, system", i)
			}
			content, ok := validate.Str(obj["content"])
			if !ok || len(content) < 1 || len(content) > maxMessageContent {
				vi.Addf("messages[%d].content must be a string of 1-%d characters", i, maxMessageContent)
			}
			req.Messages = append(req.Messages, ChatMessage{Role: role, Content: content})
		}
	}

	if v, ok := body["model"]; ok {
		if s, isStr := validate.Str(v); isStr && s != "" && len(s) <= maxModelLen {
			req.Model = s
		} else {
			vi.Addf("model must be a string of at most %d characters", maxModelLen)
		}
	}

	if v, ok := body["temperature"]; ok {
		if f, isNum := validate.Num(v); isNum && f >= minTemperature && f <= maxTemperature {
			req.Temperature = f
		} else {
			vi.Addf("temperature must be a number between %g and %g", minTemperature, maxTemperature)
		}
	}

	if v, ok := body["maxTokens"]; ok {
		if n, isInt := validate.Int(v); isInt && n >= minMaxTokens && n <= maxMaxTokens {
			req.MaxTokens = n
		} else {
			vi.Addf("maxTokens must be an integer between %d and %d", minMaxTokens, maxMaxTokens)
		}
	}

	if v, ok := body["stream"]; ok {
		if b, isBool := validate.Bool(v); isBool {
			req.Stream = b
		} else {
			vi.Add("stream must be a boolean")
		}
	}

	return req, vi
}
