package formation

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formation/pkg/attrs"
	"github.com/goliatone/go-formation/pkg/block"
	"github.com/goliatone/go-formation/pkg/entry"
	"github.com/goliatone/go-formation/pkg/field"
	"github.com/goliatone/go-formation/pkg/formstore"
	"github.com/goliatone/go-formation/pkg/registry"
	"github.com/goliatone/go-formation/pkg/submission"
)

// Option configures an Engine.
type Option func(*Engine)

// WithTypes sets the field type table. Defaults to registry.DefaultTypes.
func WithTypes(types *registry.Types) Option {
	return func(e *Engine) {
		if types != nil {
			e.types = types
		}
	}
}

// WithForms sets the form lookup.
func WithForms(forms formstore.Lookup) Option {
	return func(e *Engine) {
		e.forms = forms
	}
}

// WithHooks sets the field extension points.
func WithHooks(h *field.Hooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// WithStore persists valid submissions.
func WithStore(store entry.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger sets the engine logger, shared with the registry and processor.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTranslator translates notices and engine messages for locale.
func WithTranslator(translator field.Translator, locale string) Option {
	return func(e *Engine) {
		e.translator = translator
		e.locale = locale
	}
}

// Engine renders stored forms and processes their submissions.
type Engine struct {
	types      *registry.Types
	forms      formstore.Lookup
	hooks      *field.Hooks
	store      entry.Store
	logger     zerolog.Logger
	translator field.Translator
	locale     string
	hidden     map[string]string
	layout     func(formID, markup string) string
	processor  *entry.Processor
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		types:  registry.DefaultTypes(),
		hooks:  field.NewHooks(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.processor = entry.NewProcessor(e.forms,
		entry.WithTypes(e.types),
		entry.WithHooks(e.hooks),
		entry.WithStore(e.store),
		entry.WithLogger(e.logger),
		entry.WithTranslator(e.translator, e.locale),
	)
	return e
}

// Types returns the field type table. Register third-party types on it
// before serving requests.
func (e *Engine) Types() *registry.Types { return e.types }

// Hooks returns the shared extension points.
func (e *Engine) Hooks() *field.Hooks { return e.hooks }

// Render renders form formID. Fields read sub only when it is a submission of
// this very form. An unknown form renders a not-found notice and returns the
// *formstore.NotFoundError.
func (e *Engine) Render(ctx context.Context, formID string, sub submission.Resolver) (string, error) {
	if e.forms == nil {
		return e.notFound(), &formstore.NotFoundError{FormID: formID}
	}
	form, err := e.forms.Form(ctx, formID)
	if err != nil {
		if errors.Is(err, formstore.ErrFormNotFound) {
			return e.notFound(), err
		}
		return "", err
	}
	if sub == nil || submission.FormID(sub) != form.ID {
		sub = submission.None()
	}

	reg := registry.New(e.types,
		registry.WithSubmission(sub),
		registry.WithHooks(e.hooks),
		registry.WithLogger(e.logger),
		registry.WithTranslator(e.translator, e.locale),
		registry.WithFormID(form.ID),
	)
	reg.ResolveTree(form.Blocks)
	e.logger.Debug().Str("form", form.ID).Int("fields", reg.Len()).Bool("submitting", sub.Submitting()).Msg("formation: render form")

	return e.wrap(form, renderBlocks(reg, form.Blocks)), nil
}

// Submit processes sub. See entry.Processor.Process.
func (e *Engine) Submit(ctx context.Context, sub submission.Resolver) (*entry.Result, error) {
	return e.processor.Process(ctx, sub)
}

// renderBlocks renders inner blocks first and hands them to their parent as
// content. Blocks that are not fields emit their own markup followed by their
// children.
func renderBlocks(reg *registry.Registry, blocks []block.Block) string {
	var builder strings.Builder
	for _, b := range blocks {
		content := renderBlocks(reg, b.InnerBlocks)
		if _, ok := reg.Instance(b.UniqueID()); ok && reg.Known(b.Name) {
			builder.WriteString(reg.Render(b.UniqueID(), content))
			continue
		}
		builder.WriteString(b.InnerHTML)
		builder.WriteString(content)
	}
	return builder.String()
}

func (e *Engine) wrap(form formstore.Form, body string) string {
	formAttrs := attrs.New(
		attrs.Attr{Name: "method", Value: "post"},
		attrs.Attr{Name: "id", Value: "formation-form-" + form.ID},
		attrs.Attr{Name: "class", Value: []string{"formation-form"}},
		attrs.Attr{Name: "data-form", Value: form.ID},
	)
	return "<form " + attrs.Build(formAttrs) + ">" + hiddenInputs(form.ID, e.hidden) + body + "</form>"
}

func (e *Engine) notFound() string {
	message := e.translate("formation.form.not_found", "Form not found")
	return `<div class="formation-notice formation-notice-error">` + html.EscapeString(message) + `</div>`
}

func (e *Engine) translate(key, fallback string) string {
	if e.translator == nil {
		return fallback
	}
	translated, err := e.translator.Translate(e.locale, key)
	if err != nil || strings.TrimSpace(translated) == "" {
		return fallback
	}
	return translated
}
