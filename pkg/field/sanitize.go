package field

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// SanitizeText strips markup from value and collapses every whitespace run,
// line breaks included, into a single space. Lists and maps sanitize to "".
func SanitizeText(value any) string {
	text := stripTags(scalar(value))
	return strings.Join(strings.Fields(text), " ")
}

// SanitizeTextarea strips markup but keeps line breaks. Each line is trimmed
// of trailing whitespace.
func SanitizeTextarea(value any) string {
	text := scalar(value)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(stripTags(text), "\n")
	for idx, line := range lines {
		lines[idx] = strings.TrimRightFunc(line, func(r rune) bool { return r == ' ' || r == '\t' })
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func stripTags(text string) string {
	if text == "" {
		return ""
	}
	return html.UnescapeString(policy().Sanitize(text))
}

func scalar(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []byte:
		return string(typed)
	case fmt.Stringer:
		return typed.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(typed)
	default:
		return ""
	}
}

// isMissing reports whether value counts as absent for the required check.
func isMissing(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	case []map[string]any:
		return len(typed) == 0
	}
	return false
}
