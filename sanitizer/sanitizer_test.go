package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassthroughWithoutRules(t *testing.T) {
	s := New()
	assert.Equal(t, "unchanged \n\t text", s.Sanitize("unchanged \n\t text"))
}

func TestPolicyRaw(t *testing.T) {
	s := New().Use(PolicyRaw)
	assert.Equal(t, "a\nb", s.Sanitize("a\nb"))
}

func TestPolicyLine(t *testing.T) {
	s := New().Use(PolicyLine)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"newline encoded", "a\nb", "a<0a>b"},
		{"carriage return encoded", "a\rb", "a<0d>b"},
		{"tab encoded", "a\tb", "a<09>b"},
		{"null byte encoded", "a\x00b", "a<00>b"},
		{"escape sequence defanged", "a\x1b[31mred", "a<1b>[31mred"},
		{"unicode text untouched", "héllo wörld", "héllo wörld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Sanitize(tt.input))
		})
	}
}

func TestPolicyLineNeverEmitsNewline(t *testing.T) {
	s := New().Use(PolicyLine)
	out := s.Sanitize("multi\nline\r\ninjection\n")
	assert.NotContains(t, out, "\n")
	assert.NotContains(t, out, "\r")
}

func TestPolicyJSON(t *testing.T) {
	s := New().Use(PolicyJSON)

	assert.Equal(t, `a\nb`, s.Sanitize("a\nb"))
	assert.Equal(t, `a\tb`, s.Sanitize("a\tb"))
	assert.Equal(t, `a\u0000b`, s.Sanitize("a\x00b"))
	// Quotes are not control characters, so the JSON policy leaves them
	assert.Equal(t, `say "hi"`, s.Sanitize(`say "hi"`))
}

func TestPolicyShell(t *testing.T) {
	s := New().Use(PolicyShell)

	assert.Equal(t, "rm-rf", s.Sanitize("rm -rf"))
	assert.Equal(t, "echohi", s.Sanitize("echo `hi`"))
	assert.Equal(t, "ab", s.Sanitize("a|b"))
	assert.Equal(t, "safe_name-1.2", s.Sanitize("safe_name-1.2"))
}

func TestCustomRuleOrder(t *testing.T) {
	// First matching rule wins: strip whitespace before hex-encoding controls
	s := New().
		Rule(FilterWhitespace, TransformStrip).
		Rule(FilterControl, TransformHexEncode)

	assert.Equal(t, "ab<00>", s.Sanitize("a b\x00"))
}

func TestHexEncodeMultibyte(t *testing.T) {
	s := New().Rule(FilterNonPrintable, TransformHexEncode)

	// U+2028 line separator is non-printable, multibyte in UTF-8
	assert.Equal(t, "a<e280a8>b", s.Sanitize("a\u2028b"))
}

func TestSanitizerReuse(t *testing.T) {
	s := New().Use(PolicyLine)

	// The internal buffer is reused across calls
	assert.Equal(t, "first<0a>", s.Sanitize("first\n"))
	assert.Equal(t, "second", s.Sanitize("second"))
	assert.Equal(t, "", s.Sanitize(""))
}
