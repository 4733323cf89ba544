package field

import (
	"github.com/goliatone/go-formation/pkg/attrs"
	"github.com/goliatone/go-formation/pkg/hooks"
)

// Attribute tags the Attributes point is keyed by.
const (
	TagWrapper     = "field_wrapper"
	TagLabel       = "label"
	TagRequired    = "required"
	TagInput       = "input"
	TagDescription = "description"
	TagNotice      = "notice"
)

// Hooks holds the extension points consulted by fields. Each point runs
// generic stages, then type stages, then type+slug stages. The zero value is
// ready to use and a single Hooks is shared by every field of a request.
type Hooks struct {
	// DefaultAttributes filters the variant defaults before raw attributes
	// are merged.
	DefaultAttributes hooks.Point[Config, Field]
	// SetArgs filters the merged configuration once the slug is derived.
	SetArgs hooks.Point[Config, Field]
	// Notices filters the notice catalogue.
	Notices hooks.Point[Messages, Field]
	// SetValue filters a value before it is validated.
	SetValue hooks.Point[any, Field]
	// Structure filters the ordered render structure.
	Structure hooks.Point[Structure, Field]
	// Parts filters a single structure piece, keyed by part name.
	Parts hooks.Keyed[string, Field]
	// Attributes filters attribute sets, keyed by tag.
	Attributes hooks.Keyed[attrs.Attributes, Field]
	// Init fires once construction completes.
	Init hooks.Event[Field]
}

// NewHooks returns an empty hook set.
func NewHooks() *Hooks {
	return &Hooks{}
}
