package field

import (
	"html"

	"github.com/goliatone/go-formation/pkg/attrs"
)

// InputTemplate renders the input element of a field from its filtered
// attributes.
type InputTemplate func(f *Base, attributes attrs.Attributes) string

// Definition describes a simple field variant. Nil hooks fall back to the
// Base behaviour.
type Definition struct {
	// Type is the field type identifier, e.g. "email".
	Type string
	// Defaults adjusts the variant defaults before raw attributes merge.
	Defaults func(cfg *Config)
	// InputAttributes builds the unfiltered input attributes.
	InputAttributes func(f *Base) attrs.Attributes
	Input           InputTemplate
	// Sanitize validates value and returns the value to store. A returned
	// error carries the notice code to record.
	Sanitize func(f *Base, value any) (any, error)
	// Messages extends the notice catalogue.
	Messages Messages
	// SkipLabel suppresses the label part.
	SkipLabel bool
	// Submitted reads the raw submitted value. Defaults to the scalar under
	// the input or base name.
	Submitted func(f *Base) any
	// LabelFor returns the id the label points at. Defaults to the field id;
	// an empty result drops the for attribute.
	LabelFor func(f *Base) string
}

// New builds a field instance from raw block attributes.
func (d Definition) New(raw map[string]any, env Env) *Base {
	b := newBase(d, env)
	b.self = b
	b.init(raw, b.SetValue)
	return b
}

// SelfClosing renders a void element such as <input>.
func SelfClosing(tag string) InputTemplate {
	return func(_ *Base, attributes attrs.Attributes) string {
		return "<" + tag + " " + attrs.Build(attributes) + ">"
	}
}

// Enclosing renders tag around the markup returned by content. content is
// expected to escape its own output.
func Enclosing(tag string, content func(f *Base) string) InputTemplate {
	return func(f *Base, attributes attrs.Attributes) string {
		inner := ""
		if content != nil {
			inner = content(f)
		}
		return "<" + tag + " " + attrs.Build(attributes) + ">" + inner + "</" + tag + ">"
	}
}

func escapedValue(f *Base) string {
	return html.EscapeString(scalar(f.cfg.Value))
}
