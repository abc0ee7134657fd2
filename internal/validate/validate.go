// Package validate provides the primitives used to turn untrusted, untyped
// JSON payloads into typed action requests.
//
// The package deliberately does not know about any specific action. Each
// action defines its own validation function (see internal/actions) built
// from the pieces here:
//
//   - Violations: an ordered accumulator of human-readable failures. Actions
//     collect every violation before failing so a client sees the complete
//     error set in one round trip, instead of fixing fields one at a time.
//   - Coercions (Str, Num, Int, Bool, Slice, Map): narrow the `any` values
//     produced by encoding/json without panicking on unexpected shapes.
//   - Syntax checks (IsEmail, IsURL): shared format predicates.
//
// All functions are pure; validating the same input twice yields the same
// result, and validating an already-normalized payload is a no-op.
package validate

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"strings"
)

// Violations accumulates validation failures in the order they were found.
// The zero value is ready to use.
type Violations struct {
	msgs []string
}

// Add records one violation message.
func (v *Violations) Add(msg string) {
	v.msgs = append(v.msgs, msg)
}

// Addf records one violation message built with fmt.Sprintf.
func (v *Violations) Addf(format string, args ...any) {
	v.msgs = append(v.msgs, fmt.Sprintf(format, args...))
}

// OK reports whether no violations were recorded.
func (v *Violations) OK() bool { return len(v.msgs) == 0 }

// Messages returns a copy of the recorded messages in insertion order.
func (v *Violations) Messages() []string {
	out := make([]string, len(v.msgs))
	copy(out, v.msgs)
	return out
}

// Join returns all messages joined into a single string, suitable for the
// `error` field of the validation-failure envelope.
func (v *Violations) Join() string {
	return strings.Join(v.msgs, "; ")
}

//
// Coercions
//
// encoding/json decodes object values to string, float64, bool, []any and
// map[string]any. These helpers narrow an `any` to the expected Go type and
// report whether the narrowing succeeded. A missing key (nil value) is never
// a successful narrowing.
//

// Str narrows v to a string.
func Str(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Num narrows v to a float64 (the JSON number representation).
func Num(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// Int narrows v to an int, requiring the JSON number to be integral. Values
// with a fractional part fail, as do values outside the int range.
func Int(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// Bool narrows v to a bool.
func Bool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// Slice narrows v to a JSON array.
func Slice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// Map narrows v to a JSON object.
func Map(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// StrSlice narrows v to an array whose elements are all strings. It fails if
// any element is not a string.
func StrSlice(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

//
// Syntax checks
//

// IsEmail reports whether s is a plain RFC 5322 address ("user@example.com").
// Display-name forms ("Name <user@example.com>") are rejected because the
// upstream email provider expects bare addresses.
func IsEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}

// IsURL reports whether s parses as an absolute http(s) URL with a host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
