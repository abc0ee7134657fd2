package actions

import (
	"encoding/json"
	"strings"
	"testing"
)

// decode parses a JSON literal the way handlers do, so the dynamic types in
// the map match production input exactly.
func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("test payload does not parse: %v", err)
	}
	return body
}

func TestValidateCompletionDefaults(t *testing.T) {
	body := decode(t, `{"messages":[{"role":"user","content":"hi"}]}`)
	req, vi := ValidateCompletion(body)
	if !vi.OK() {
		t.Fatalf("unexpected violations: %v", vi.Messages())
	}
	if req.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want default", req.Model)
	}
	if req.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", req.Temperature)
	}
	if req.MaxTokens != 2048 {
		t.Errorf("maxTokens = %d, want 2048", req.MaxTokens)
	}
	if req.Stream {
		t.Errorf("stream should default to false")
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "hi" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestValidateCompletionExplicitValues(t *testing.T) {
	body := decode(t, `{
		"messages":[{"role":"system","content":"s"},{"role":"user","content":"u"}],
		"model":"gpt-4o","temperature":1.2,"maxTokens":128,"stream":true
	}`)
	req, vi := ValidateCompletion(body)
	if !vi.OK() {
		t.Fatalf("unexpected violations: %v", vi.Messages())
	}
	if req.Model != "gpt-4o" || req.Temperature != 1.2 || req.MaxTokens != 128 || !req.Stream {
		t.Fatalf("normalized request = %+v", req)
	}
}

func TestValidateCompletionMissingMessages(t *testing.T) {
	for _, raw := range []string{`{}`, `{"messages":[]}`, `{"messages":"nope"}`} {
		_, vi := ValidateCompletion(decode(t, raw))
		if vi.OK() {
			t.Fatalf("payload %s should fail", raw)
		}
		if got := vi.Join(); !strings.Contains(got, "messages is required") {
			t.Fatalf("payload %s: error = %q", raw, got)
		}
	}
}

func TestValidateCompletionTooManyMessages(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"messages":[`)
	for i := 0; i < 51; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"role":"user","content":"x"}`)
	}
	sb.WriteString(`]}`)
	_, vi := ValidateCompletion(decode(t, sb.String()))
	if vi.OK() {
		t.Fatalf("51 messages should fail")
	}
	if got := vi.Join(); got != "too many messages (maximum 50)" {
		t.Fatalf("error = %q", got)
	}
}

func TestValidateCompletionBadMessageFields(t *testing.T) {
	body := decode(t, `{"messages":[{"role":"bot","content":"hi"},{"role":"user","content":""}]}`)
	_, vi := ValidateCompletion(body)
	msgs := vi.Messages()
	if len(msgs) != 2 {
		t.Fatalf("violations = %v, want role + content failures", msgs)
	}
	if !strings.Contains(msgs[0], "messages[0].role") {
		t.Errorf("first violation = %q", msgs[0])
	}
	if !strings.Contains(msgs[1], "messages[1].content") {
		t.Errorf("second violation = %q", msgs[1])
	}
}

func TestValidateCompletionOutOfRangeOptions(t *testing.T) {
	body := decode(t, `{
		"messages":[{"role":"user","content":"hi"}],
		"temperature":2.5,"maxTokens":5000,"stream":"yes"
	}`)
	_, vi := ValidateCompletion(body)
	if len(vi.Messages()) != 3 {
		t.Fatalf("violations = %v, want temperature + maxTokens + stream", vi.Messages())
	}
}

func TestValidateCompletionRejectsFractionalMaxTokens(t *testing.T) {
	body := decode(t, `{"messages":[{"role":"user","content":"hi"}],"maxTokens":10.5}`)
	_, vi := ValidateCompletion(body)
	if vi.OK() {
		t.Fatalf("fractional maxTokens should fail")
	}
}

func TestValidateCompletionIdempotent(t *testing.T) {
	body := decode(t, `{"messages":[{"role":"user","content":"hi"}],"temperature":0.3}`)
	first, vi := ValidateCompletion(body)
	if !vi.OK() {
		t.Fatalf("unexpected violations: %v", vi.Messages())
	}

	// Re-encode the normalized request and validate again; nothing changes.
	raw, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, vi := ValidateCompletion(decode(t, string(raw)))
	if !vi.OK() {
		t.Fatalf("revalidation failed: %v", vi.Messages())
	}
	if second.Model != first.Model || second.Temperature != first.Temperature ||
		second.MaxTokens != first.MaxTokens || len(second.Messages) != len(first.Messages) {
		t.Fatalf("revalidation changed the request: %+v vs %+v", second, first)
	}
}
