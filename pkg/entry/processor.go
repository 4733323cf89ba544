package entry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formation/pkg/field"
	"github.com/goliatone/go-formation/pkg/formstore"
	"github.com/goliatone/go-formation/pkg/registry"
	"github.com/goliatone/go-formation/pkg/submission"
)

// Option configures a Processor.
type Option func(*Processor)

// WithTypes sets the field type table. Defaults to registry.DefaultTypes.
func WithTypes(types *registry.Types) Option {
	return func(p *Processor) {
		if types != nil {
			p.types = types
		}
	}
}

// WithHooks sets the field extension points.
func WithHooks(h *field.Hooks) Option {
	return func(p *Processor) {
		if h != nil {
			p.hooks = h
		}
	}
}

// WithStore persists valid entries.
func WithStore(store Store) Option {
	return func(p *Processor) {
		p.store = store
	}
}

// WithLogger sets the processor logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithTranslator sets the notice translator and locale.
func WithTranslator(translator field.Translator, locale string) Option {
	return func(p *Processor) {
		p.translator = translator
		p.locale = locale
	}
}

// WithClock overrides time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// Processor turns submissions into validated results and persisted entries.
type Processor struct {
	forms      formstore.Lookup
	types      *registry.Types
	hooks      *field.Hooks
	store      Store
	translator field.Translator
	locale     string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewProcessor builds a processor resolving form ids through forms.
func NewProcessor(forms formstore.Lookup, opts ...Option) *Processor {
	p := &Processor{
		forms:  forms,
		types:  registry.DefaultTypes(),
		hooks:  field.NewHooks(),
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Result is the outcome of processing a submission.
type Result struct {
	FormID string
	Valid  bool
	// Values holds the validated top-level values keyed by base name.
	Values map[string]any
	// Notices holds the notices of every field that has any, keyed by base
	// name.
	Notices map[string][]field.Notice
	// Entry is set when the submission was valid and a store is configured.
	Entry *Entry
	// Registry is the resolved request registry, ready to render.
	Registry *registry.Registry
}

// Process handles sub. It returns nil, nil when sub is not a submission and
// a *formstore.NotFoundError when the submitted form id is unknown.
func (p *Processor) Process(ctx context.Context, sub submission.Resolver) (*Result, error) {
	if sub == nil || !sub.Submitting() {
		return nil, nil
	}
	formID := submission.FormID(sub)
	if p.forms == nil {
		return nil, &formstore.NotFoundError{FormID: formID}
	}
	form, err := p.forms.Form(ctx, formID)
	if err != nil {
		return nil, err
	}

	reg := registry.New(p.types,
		registry.WithSubmission(sub),
		registry.WithHooks(p.hooks),
		registry.WithLogger(p.logger),
		registry.WithTranslator(p.translator, p.locale),
		registry.WithFormID(form.ID),
	)
	reg.ResolveTree(form.Blocks)

	result := &Result{
		FormID:   form.ID,
		Values:   reg.Values(),
		Notices:  make(map[string][]field.Notice),
		Registry: reg,
	}
	result.Valid = reg.Valid()
	for _, instance := range reg.Instances() {
		if notices := instance.Notices(); len(notices) > 0 {
			result.Notices[instance.BaseName()] = notices
		}
	}

	log := p.logger.Info().Str("form", form.ID).Bool("valid", result.Valid).Int("fields", reg.Len())
	if !result.Valid || p.store == nil {
		log.Msg("entry: submission processed")
		return result, nil
	}

	entry := Entry{
		ID:        uuid.NewString(),
		FormID:    form.ID,
		Values:    result.Values,
		CreatedAt: p.now().UTC(),
	}
	if err := p.store.Save(ctx, entry); err != nil {
		return result, fmt.Errorf("entry: persist submission for %q: %w", form.ID, err)
	}
	result.Entry = &entry
	log.Str("entry", entry.ID).Msg("entry: submission stored")
	return result, nil
}
