package attrs

import (
	"fmt"
	"html"
	"strings"
)

// Attr is a single HTML attribute. Value may be a string, a bool, a list of
// strings (class names) or any scalar that fmt can print.
type Attr struct {
	Name  string
	Value any
}

// Attributes is an ordered attribute set. Names are unique: Set replaces an
// existing entry in place so the original position is kept.
type Attributes []Attr

// New builds an attribute set from the supplied pairs, applying Set semantics
// so later duplicates replace earlier ones.
func New(pairs ...Attr) Attributes {
	out := make(Attributes, 0, len(pairs))
	for _, pair := range pairs {
		out.Set(pair.Name, pair.Value)
	}
	return out
}

// Get returns the value stored under name.
func (a Attributes) Get(name string) (any, bool) {
	name = strings.TrimSpace(name)
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return nil, false
}

// Has reports whether name is present, regardless of its value.
func (a Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Set stores value under name, appending when the name is new.
func (a *Attributes) Set(name string, value any) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for idx := range *a {
		if (*a)[idx].Name == name {
			(*a)[idx].Value = value
			return
		}
	}
	*a = append(*a, Attr{Name: name, Value: value})
}

// Delete removes name from the set.
func (a *Attributes) Delete(name string) {
	name = strings.TrimSpace(name)
	out := (*a)[:0]
	for _, attr := range *a {
		if attr.Name != name {
			out = append(out, attr)
		}
	}
	*a = out
}

// AddClass appends class names to the "class" attribute, creating it when
// missing. Existing string values are split on whitespace.
func (a *Attributes) AddClass(classes ...string) {
	current, _ := a.Get("class")
	list := classList(current)
	for _, class := range classes {
		if class = strings.TrimSpace(class); class != "" {
			list = append(list, class)
		}
	}
	a.Set("class", list)
}

// Clone returns a copy that can be mutated independently. List values are
// copied as well.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for idx, attr := range a {
		if list, ok := attr.Value.([]string); ok {
			attr.Value = append([]string(nil), list...)
		}
		out[idx] = attr
	}
	return out
}

// Names returns the attribute names in order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for _, attr := range a {
		names = append(names, attr.Name)
	}
	return names
}

// String renders the set. See Build.
func (a Attributes) String() string {
	return Build(a)
}

// Build serialises attributes into a space separated attribute string.
// Attributes whose value is nil, false, an empty string or an empty list are
// omitted; true renders the bare name; lists are space joined.
func Build(attributes Attributes) string {
	parts := make([]string, 0, len(attributes))
	for _, attr := range attributes {
		name := strings.TrimSpace(attr.Name)
		if name == "" {
			continue
		}
		value, bare, ok := format(attr.Value)
		if !ok {
			continue
		}
		if bare {
			parts = append(parts, html.EscapeString(name))
			continue
		}
		parts = append(parts, fmt.Sprintf(`%s="%s"`, html.EscapeString(name), html.EscapeString(value)))
	}
	return strings.Join(parts, " ")
}

func format(value any) (string, bool, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false, false
	case bool:
		return "", true, typed
	case string:
		return typed, false, typed != ""
	case []string:
		joined := strings.Join(compact(typed), " ")
		return joined, false, joined != ""
	case []any:
		list := make([]string, 0, len(typed))
		for _, item := range typed {
			if item != nil {
				list = append(list, fmt.Sprint(item))
			}
		}
		joined := strings.Join(compact(list), " ")
		return joined, false, joined != ""
	case fmt.Stringer:
		rendered := typed.String()
		return rendered, false, rendered != ""
	default:
		return fmt.Sprint(typed), false, true
	}
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func classList(value any) []string {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case string:
		return strings.Fields(typed)
	case nil:
		return nil
	default:
		return strings.Fields(fmt.Sprint(typed))
	}
}
