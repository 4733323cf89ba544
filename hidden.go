package formation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formation/pkg/attrs"
	"github.com/goliatone/go-formation/pkg/submission"
)

// HiddenField is an extra hidden input emitted after the form id input.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken constructs a hidden field carrying token under name
// (for example "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// WithHiddenFields adds hidden inputs to every rendered form. Empty names and
// the reserved form id name are ignored; later fields win on name collisions.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(e *Engine) {
		e.hidden = mergeHidden(e.hidden, fields...)
	}
}

func mergeHidden(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for name, value := range base {
		out[name] = value
	}
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" || name == submission.FormIDKey {
			continue
		}
		out[name] = f.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// hiddenInputs renders the form id input followed by the extra fields sorted
// by name.
func hiddenInputs(formID string, extra map[string]string) string {
	var builder strings.Builder
	builder.WriteString(hiddenInput(submission.FormIDKey, formID))

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		builder.WriteString(hiddenInput(name, extra[name]))
	}
	return builder.String()
}

func hiddenInput(name, value string) string {
	return "<input " + attrs.Build(attrs.New(
		attrs.Attr{Name: "type", Value: "hidden"},
		attrs.Attr{Name: "name", Value: name},
		attrs.Attr{Name: "value", Value: value},
	)) + ">"
}
