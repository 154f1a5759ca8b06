package dialogue

import (
	"strconv"
	"strings"
)

// ParseMulti interprets a multi-choice answer as a comma-separated list.
// It never fails: blanks are trimmed, empty elements dropped, and malformed
// input yields an empty list.
func ParseMulti(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseNumber interprets a numeric answer, falling back to def when the
// input is not a plain integer.
func ParseNumber(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}

// ParseAnswer normalizes a recorded answer according to the question's
// declared type. Multi-choice answers come back comma-joined in canonical
// "a, b" spacing, numbers as the parsed value (or the question default),
// everything else as trimmed text.
func ParseAnswer(q Question, raw string) string {
	switch q.Type {
	case TypeMultiSelect:
		return strings.Join(ParseMulti(raw), ", ")
	case TypeNumber:
		return strconv.Itoa(ParseNumber(raw, q.Default))
	default:
		return strings.TrimSpace(raw)
	}
}
