// Package sanitizer rewrites strings that are about to enter a log stream.
//
// The file sink emits exactly one line per record, so any control character
// that survives into a message would corrupt the line discipline (and with it
// anything that tails or greps the file). Rules pair a character filter with
// a transform; the first matching rule wins. Policies bundle the rules needed
// for each output format.
package sanitizer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags select which runes a rule applies to.
const (
	FilterNonPrintable uint64 = 1 << iota // Runes rejected by strconv.IsPrint (includes \n, \r)
	FilterControl                         // unicode.IsControl
	FilterWhitespace                      // unicode.IsSpace
	FilterShellSpecial                    // Common shell metacharacters
)

// Transform flags select what happens to a matched rune.
const (
	TransformStrip      uint64 = 1 << iota // Drop the rune
	TransformHexEncode                     // Encode UTF-8 bytes as "<XXYY>"
	TransformJSONEscape                    // JSON-style backslash escapes
)

// Policy is a named, pre-configured rule set.
type Policy string

const (
	PolicyRaw   Policy = "raw"   // Passthrough
	PolicyLine  Policy = "line"  // For line-oriented text sinks: hex-encode anything non-printable
	PolicyJSON  Policy = "json"  // For values embedded in JSON strings
	PolicyShell Policy = "shell" // For values interpolated into shell commands
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[Policy][]rule{
	PolicyRaw:   {},
	PolicyLine:  {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyJSON:  {{filter: FilterControl, transform: TransformJSONEscape}},
	PolicyShell: {{filter: FilterShellSpecial | FilterWhitespace, transform: TransformStrip}},
}

// Sanitizer applies an ordered rule chain to input strings.
// Not safe for concurrent use; each writer owns its own instance.
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates an empty (passthrough) Sanitizer.
func New() *Sanitizer {
	return &Sanitizer{
		buf: make([]byte, 0, 256),
	}
}

// Rule appends a custom filter/transform pair. Earlier rules win.
func (s *Sanitizer) Rule(filter, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Use appends the rules of a pre-configured policy.
func (s *Sanitizer) Use(p Policy) *Sanitizer {
	if rules, ok := policyRules[p]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize applies the rule chain to data and returns the rewritten string.
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}

	s.buf = s.buf[:0]
	for _, r := range data {
		matched := false
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				s.buf = applyTransform(s.buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			s.buf = utf8.AppendRune(s.buf, r)
		}
	}
	return string(s.buf)
}

func matchesFilter(r rune, mask uint64) bool {
	if mask&FilterNonPrintable != 0 && !strconv.IsPrint(r) {
		return true
	}
	if mask&FilterControl != 0 && unicode.IsControl(r) {
		return true
	}
	if mask&FilterWhitespace != 0 && unicode.IsSpace(r) {
		return true
	}
	if mask&FilterShellSpecial != 0 {
		switch r {
		case '`', '$', ';', '|', '&', '>', '<', '(', ')', '#':
			return true
		}
	}
	return false
}

func applyTransform(buf []byte, r rune, mask uint64) []byte {
	switch {
	case mask&TransformStrip != 0:
		// Dropped

	case mask&TransformHexEncode != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		buf = append(buf, '<')
		buf = append(buf, hex.EncodeToString(runeBytes[:n])...)
		buf = append(buf, '>')

	case mask&TransformJSONEscape != 0:
		switch r {
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		default:
			if r < 0x20 || r == 0x7f {
				buf = append(buf, fmt.Sprintf("\\u%04x", r)...)
			} else {
				buf = utf8.AppendRune(buf, r)
			}
		}
	}
	return buf
}
