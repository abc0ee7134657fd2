package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// guardRouter mounts BodyGuard on a POST route that echoes the guarded body
// length.
func guardRouter(maxBytes int64) *gin.Engine {
	r := gin.New()
	r.POST("/x", BodyGuard(maxBytes), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"len": len(BodyFrom(c))})
	})
	return r
}

func TestBodyGuardAllowsExactLimit(t *testing.T) {
	r := guardRouter(16)
	body := strings.Repeat("a", 16)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["len"] != 16 {
		t.Fatalf("guarded length = %d, want 16", resp["len"])
	}
}

func TestBodyGuardRejectsOneByteOver(t *testing.T) {
	r := guardRouter(16)
	body := strings.Repeat("a", 17)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "Request body too large: 17 bytes (maximum 16 bytes)" {
		t.Fatalf("error = %q", resp["error"])
	}
}

func TestBodyGuardCountsBytesNotRunes(t *testing.T) {
	r := guardRouter(4)

	// Two 3-byte runes: 2 characters, 6 bytes. Must be rejected.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader([]byte("日本")))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413 for 6 UTF-8 bytes over a 4-byte cap", w.Code)
	}
}

func TestBodyGuardEmptyBody(t *testing.T) {
	r := guardRouter(16)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty body", w.Code)
	}
}

func TestBodyFromWithoutGuard(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := BodyFrom(c); got != nil {
		t.Fatalf("BodyFrom without guard = %v, want nil", got)
	}
}
