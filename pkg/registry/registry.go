package registry

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formation/pkg/block"
	"github.com/goliatone/go-formation/pkg/field"
	"github.com/goliatone/go-formation/pkg/submission"
)

// Option configures a Registry.
type Option func(*Registry)

// WithSubmission sets the submission resolver handed to top-level fields.
func WithSubmission(resolver submission.Resolver) Option {
	return func(r *Registry) {
		if resolver != nil {
			r.submission = resolver
		}
	}
}

// WithHooks sets the extension points shared by every field.
func WithHooks(h *field.Hooks) Option {
	return func(r *Registry) {
		if h != nil {
			r.hooks = h
		}
	}
}

// WithLogger sets the logger used to report skipped blocks.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithTranslator sets the notice translator and locale.
func WithTranslator(translator field.Translator, locale string) Option {
	return func(r *Registry) {
		r.translator = translator
		r.locale = locale
	}
}

// WithFormID tags field wrappers with the owning form.
func WithFormID(formID string) Option {
	return func(r *Registry) {
		r.formID = formID
	}
}

// Registry is the request-scoped directory of field instances keyed by unique
// id. It is not safe for concurrent use.
type Registry struct {
	types      *Types
	submission submission.Resolver
	hooks      *field.Hooks
	translator field.Translator
	locale     string
	formID     string
	logger     zerolog.Logger

	instances map[string]field.Field
	order     []string
	nested    map[string]bool
	counters  map[string]int
}

// New builds an empty registry over types. A nil table means DefaultTypes.
func New(types *Types, opts ...Option) *Registry {
	if types == nil {
		types = DefaultTypes()
	}
	r := &Registry{
		types:      types,
		submission: submission.None(),
		hooks:      field.NewHooks(),
		logger:     zerolog.Nop(),
		instances:  make(map[string]field.Field),
		nested:     make(map[string]bool),
		counters:   make(map[string]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// ResolveTree walks blocks depth-first and instantiates one field per unique
// block. A parent is registered before its inner blocks are visited.
func (r *Registry) ResolveTree(blocks []block.Block) {
	r.resolve(blocks, false)
}

func (r *Registry) resolve(blocks []block.Block, nested bool) {
	for _, b := range blocks {
		_, isField := r.register(b, nested)
		r.resolve(b.InnerBlocks, nested || isField)
	}
}

// Resolve registers a single block and returns its instance. Blocks of
// unknown types or without a unique id are skipped; a duplicate id returns
// the instance registered first.
func (r *Registry) Resolve(b block.Block) (field.Field, bool) {
	return r.register(b, false)
}

func (r *Registry) register(b block.Block, nested bool) (field.Field, bool) {
	factory, ok := r.types.Factory(b.Name)
	if !ok {
		r.logger.Debug().Str("block", b.Name).Msg("registry: skipping unknown block type")
		return nil, false
	}
	id := b.UniqueID()
	if id == "" {
		r.logger.Debug().Str("block", b.Name).Msg("registry: skipping block without unique id")
		return nil, false
	}
	if existing, ok := r.instances[id]; ok {
		r.logger.Debug().Str("block", b.Name).Str("unique_id", id).Msg("registry: duplicate unique id")
		return existing, true
	}

	env := field.Env{
		Index:      r.counters[b.Name],
		FormID:     r.formID,
		Submission: r.submission,
		Hooks:      r.hooks,
		Lookup:     r,
		Translator: r.translator,
		Locale:     r.locale,
	}
	// Fields inside a composite receive their values from the parent only.
	if nested {
		env.Submission = submission.None()
	}
	r.counters[b.Name]++

	instance := factory(b, env)
	if instance == nil {
		return nil, false
	}
	r.instances[id] = instance
	r.order = append(r.order, id)
	if nested {
		r.nested[id] = true
	}
	return instance, true
}

// Instance returns the field registered under uniqueID.
func (r *Registry) Instance(uniqueID string) (field.Field, bool) {
	instance, ok := r.instances[uniqueID]
	return instance, ok
}

// Known reports whether blockName is a registered field type.
func (r *Registry) Known(blockName string) bool {
	return r.types.Has(blockName)
}

// Render renders the instance registered under uniqueID. Unknown ids render
// as "".
func (r *Registry) Render(uniqueID, content string) string {
	instance, ok := r.instances[uniqueID]
	if !ok {
		return ""
	}
	return instance.Render(content)
}

// Len reports the number of registered instances.
func (r *Registry) Len() int { return len(r.order) }

// Active reports whether the request resolved any field.
func (r *Registry) Active() bool { return len(r.order) > 0 }

// Instances returns every instance in registration order.
func (r *Registry) Instances() []field.Field {
	out := make([]field.Field, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.instances[id])
	}
	return out
}

// TopLevel returns the instances not nested inside a composite field, in
// registration order.
func (r *Registry) TopLevel() []field.Field {
	out := make([]field.Field, 0, len(r.order))
	for _, id := range r.order {
		if !r.nested[id] {
			out = append(out, r.instances[id])
		}
	}
	return out
}

// Values reads every top-level field, keyed by base name. During a
// submission reading validates the submitted values.
func (r *Registry) Values() map[string]any {
	values := make(map[string]any, len(r.order))
	for _, instance := range r.TopLevel() {
		values[instance.BaseName()] = instance.Value()
	}
	return values
}

// Valid reports whether every top-level field is currently valid.
func (r *Registry) Valid() bool {
	for _, instance := range r.TopLevel() {
		if !instance.Valid() {
			return false
		}
	}
	return true
}
