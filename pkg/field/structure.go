package field

import "strings"

// Part names of the default field structure.
const (
	PartOpeningWrapper = "opening_wrapper"
	PartLabel          = "label"
	PartRequired       = "required"
	PartInput          = "input"
	PartDescription    = "description"
	PartNotice         = "notice"
	PartCloseWrapper   = "close_wrapper"
)

// Part is a named piece of rendered markup.
type Part struct {
	Name string
	HTML string
}

// Structure is the ordered list of parts a field renders. Names are unique.
type Structure []Part

// Set stores html under name, keeping the original position of existing
// parts.
func (s *Structure) Set(name, html string) {
	for idx := range *s {
		if (*s)[idx].Name == name {
			(*s)[idx].HTML = html
			return
		}
	}
	*s = append(*s, Part{Name: name, HTML: html})
}

// Get returns the markup stored under name.
func (s Structure) Get(name string) (string, bool) {
	for _, part := range s {
		if part.Name == name {
			return part.HTML, true
		}
	}
	return "", false
}

// Delete removes name.
func (s *Structure) Delete(name string) {
	out := (*s)[:0]
	for _, part := range *s {
		if part.Name != name {
			out = append(out, part)
		}
	}
	*s = out
}

// InsertBefore places a part ahead of anchor, or appends when anchor is
// missing.
func (s *Structure) InsertBefore(anchor string, part Part) {
	s.Delete(part.Name)
	for idx := range *s {
		if (*s)[idx].Name == anchor {
			*s = append((*s)[:idx], append(Structure{part}, (*s)[idx:]...)...)
			return
		}
	}
	*s = append(*s, part)
}

// Names returns the part names in order.
func (s Structure) Names() []string {
	names := make([]string, 0, len(s))
	for _, part := range s {
		names = append(names, part.Name)
	}
	return names
}

// String concatenates the non-empty parts.
func (s Structure) String() string {
	var builder strings.Builder
	for _, part := range s {
		if strings.TrimSpace(part.HTML) == "" {
			continue
		}
		builder.WriteString(part.HTML)
	}
	return builder.String()
}
