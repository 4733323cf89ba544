package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formation/pkg/block"
	"github.com/goliatone/go-formation/pkg/field"
)

// Block names of the built-in field types.
const (
	BlockText       = "formation/text"
	BlockTextarea   = "formation/textarea"
	BlockEmail      = "formation/email"
	BlockSelect     = "formation/select"
	BlockCheckbox   = "formation/checkbox"
	BlockRadio      = "formation/radio"
	BlockButton     = "formation/button"
	BlockRepeatable = "formation/repeatable"
)

var (
	// ErrTypeExists is returned when a block name is registered twice.
	ErrTypeExists = errors.New("registry: type already registered")
	// ErrInvalidType is returned for empty names or nil factories.
	ErrInvalidType = errors.New("registry: invalid type")
)

// Factory builds a field instance for a block.
type Factory func(b block.Block, env field.Env) field.Field

// FromDefinition adapts a simple variant definition into a Factory.
func FromDefinition(def field.Definition) Factory {
	return func(b block.Block, env field.Env) field.Field {
		return def.New(b.Attrs, env)
	}
}

// Repeater is the factory of the repeater variant.
func Repeater() Factory {
	return func(b block.Block, env field.Env) field.Field {
		return field.NewRepeater(b, env)
	}
}

// Types is the process-wide table of field types keyed by block name. It is
// safe for concurrent use; register every type before resolving requests.
type Types struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewTypes returns an empty table.
func NewTypes() *Types {
	return &Types{factories: make(map[string]Factory)}
}

// DefaultTypes returns a table holding the built-in field types.
func DefaultTypes() *Types {
	types := NewTypes()
	types.MustRegister(BlockText, FromDefinition(field.Text()))
	types.MustRegister(BlockTextarea, FromDefinition(field.Textarea()))
	types.MustRegister(BlockEmail, FromDefinition(field.Email()))
	types.MustRegister(BlockSelect, FromDefinition(field.Select()))
	types.MustRegister(BlockCheckbox, FromDefinition(field.Checkbox()))
	types.MustRegister(BlockRadio, FromDefinition(field.Radio()))
	types.MustRegister(BlockButton, FromDefinition(field.Button()))
	types.MustRegister(BlockRepeatable, Repeater())
	return types
}

// Register adds factory under name. Duplicate names return ErrTypeExists.
func (t *Types) Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return fmt.Errorf("%w: %q", ErrInvalidType, name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.factories == nil {
		t.factories = make(map[string]Factory)
	}
	if _, exists := t.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrTypeExists, name)
	}
	t.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (t *Types) MustRegister(name string, factory Factory) {
	if err := t.Register(name, factory); err != nil {
		panic(err)
	}
}

// Factory returns the factory registered under name.
func (t *Types) Factory(name string) (Factory, bool) {
	if t == nil {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	factory, ok := t.factories[strings.TrimSpace(name)]
	return factory, ok
}

// Has reports whether name is registered.
func (t *Types) Has(name string) bool {
	_, ok := t.Factory(name)
	return ok
}

// Names returns the registered block names, sorted.
func (t *Types) Names() []string {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.factories))
	for name := range t.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone copies the table so callers can extend it without touching the
// original.
func (t *Types) Clone() *Types {
	clone := NewTypes()
	if t == nil {
		return clone
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for name, factory := range t.factories {
		clone.factories[name] = factory
	}
	return clone
}
