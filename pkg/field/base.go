package field

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-formation/pkg/attrs"
	"github.com/goliatone/go-formation/pkg/submission"
)

// repetition is the index appended to base names. Fields currently render a
// single repetition.
const repetition = 0

// Base implements the shared field pipeline: configuration, slug derivation,
// validation, notices and rendering. Variants customise it through a
// Definition; composite variants embed it.
type Base struct {
	def      Definition
	env      Env
	cfg      Config
	messages Messages
	notices  []Notice
	valid    bool
	// self is the outermost field, handed to hook stages.
	self Field
	// decodeErr records a raw attribute that failed to decode.
	decodeErr error
}

func newBase(def Definition, env Env) *Base {
	return &Base{
		def:   def,
		env:   env.normalized(),
		valid: true,
	}
}

// init resolves configuration, derives the slug, builds the notice catalogue,
// applies the default value through assign and fires the init hooks.
func (b *Base) init(raw map[string]any, assign func(any) (any, error)) {
	defaults := baseDefaults(b.def.Type)
	if b.def.Defaults != nil {
		b.def.Defaults(&defaults)
	}
	defaults.Type = b.def.Type
	b.cfg = defaults
	defaults = b.env.Hooks.DefaultAttributes.Apply(defaults, b.self)

	cfg, err := decodeConfig(defaults, raw)
	b.decodeErr = err
	cfg.Type = b.def.Type
	cfg.Slug = deriveSlug(cfg, b.env.Index)
	b.cfg = cfg

	cfg = b.env.Hooks.SetArgs.Apply(b.cfg.clone(), b.self)
	cfg.Type = b.def.Type
	if cfg.Slug = SanitizeKey(cfg.Slug); cfg.Slug == "" {
		cfg.Slug = b.cfg.Slug
	}
	b.cfg = cfg

	b.messages = b.noticeMessages()

	if !isMissing(b.cfg.DefaultValue) {
		_, _ = assign(b.cfg.DefaultValue)
	}
	b.env.Hooks.Init.Fire(b.self)
}

// Definition returns the variant descriptor the field was built from.
func (b *Base) Definition() Definition { return b.def }

func (b *Base) Type() string     { return b.cfg.Type }
func (b *Base) Slug() string     { return b.cfg.Slug }
func (b *Base) UniqueID() string { return b.cfg.UniqueID }
func (b *Base) ID() string       { return b.cfg.Slug }

// Config returns a copy of the resolved configuration.
func (b *Base) Config() Config { return b.cfg.clone() }

func (b *Base) UpdateConfig(fn func(*Config)) {
	if fn == nil {
		return
	}
	fn(&b.cfg)
	b.cfg.Type = b.def.Type
}

// DecodeError reports whether a raw attribute could not be decoded into the
// configuration. The field still works off the remaining values.
func (b *Base) DecodeError() error { return b.decodeErr }

// BaseName is the slug suffixed with the repetition index. Submitted values
// are keyed by it.
func (b *Base) BaseName() string {
	return fmt.Sprintf("%s_%d", b.cfg.Slug, repetition)
}

// InputName is the name attribute of the input.
func (b *Base) InputName() string {
	if b.cfg.IsRepeatable {
		return fmt.Sprintf("%s[%d]", b.BaseName(), repetition)
	}
	return b.BaseName()
}

func (b *Base) SetValue(value any) (any, error) {
	return b.assign(value, b.validate)
}

func (b *Base) assign(value any, validate func(any) (any, error)) (any, error) {
	value = b.env.Hooks.SetValue.Apply(value, b.self)
	proposed, err := validate(value)
	b.cfg.Value = proposed
	return proposed, err
}

func (b *Base) validate(value any) (any, error) {
	var errs []error
	if err := b.checkRequired(value); err != nil {
		errs = append(errs, err)
	}
	proposed, err := b.sanitize(value)
	if err != nil {
		b.fail(err)
		errs = append(errs, err)
	}
	return proposed, errors.Join(errs...)
}

func (b *Base) sanitize(value any) (any, error) {
	if b.def.Sanitize != nil {
		return b.def.Sanitize(b, value)
	}
	return SanitizeText(value), nil
}

func (b *Base) checkRequired(value any) error {
	if !b.cfg.Required || !isMissing(value) {
		return nil
	}
	b.AddNotice(CodeRequired)
	b.valid = false
	return Invalid(CodeRequired, "")
}

func (b *Base) fail(err error) {
	b.AddNotice(CodeOf(err))
	b.valid = false
}

// Value returns the stored value. While a submission is in progress the
// submitted value is validated and stored first.
func (b *Base) Value() any {
	if b.env.Submission.Submitting() {
		_, _ = b.SetValue(b.SubmittedValue())
	}
	return b.cfg.Value
}

func (b *Base) SubmittedValue() any {
	if !b.env.Submission.Submitting() {
		return nil
	}
	if b.def.Submitted != nil {
		return b.def.Submitted(b)
	}
	if b.cfg.IsRepeatable {
		if value, ok := b.env.Submission.Value(b.InputName()); ok {
			return value
		}
	}
	if value, ok := b.env.Submission.Value(b.BaseName()); ok {
		return value
	}
	return nil
}

// Submission returns the resolver the field reads from.
func (b *Base) Submission() submission.Resolver { return b.env.Submission }

func (b *Base) Valid() bool  { return b.valid }
func (b *Base) Invalidate() { b.valid = false }

// Notices returns a copy of the accumulated notices.
func (b *Base) Notices() []Notice {
	return append([]Notice(nil), b.notices...)
}

// AddNotice appends the catalogue entry for code. Unknown codes record the
// general error.
func (b *Base) AddNotice(code string) {
	notice, ok := b.messages[code]
	if !ok {
		notice, ok = b.messages[CodeGeneralError]
		if !ok {
			notice = generalError()
		}
	}
	b.notices = append(b.notices, notice)
}

func (b *Base) appendNotice(notice Notice) {
	b.notices = append(b.notices, notice)
}

func (b *Base) hasMessage(code string) bool {
	_, ok := b.messages[code]
	return ok
}

// WrapperAttributes are the attributes of the element wrapping the field.
func (b *Base) WrapperAttributes() attrs.Attributes {
	wrapper := attrs.New(
		attrs.Attr{Name: "class", Value: []string{"formation-field", "formation-field-" + b.cfg.Type}},
		attrs.Attr{Name: "data-field-type", Value: b.cfg.Type},
		attrs.Attr{Name: "data-form", Value: b.env.FormID},
	)
	if !b.valid {
		wrapper.AddClass("formation-field-invalid")
	}
	return wrapper
}

func (b *Base) InputAttributes() attrs.Attributes {
	if b.def.InputAttributes != nil {
		return b.def.InputAttributes(b)
	}
	return b.DefaultInputAttributes()
}

// DefaultInputAttributes is the attribute set shared by plain inputs.
func (b *Base) DefaultInputAttributes() attrs.Attributes {
	return attrs.New(
		attrs.Attr{Name: "type", Value: b.cfg.Type},
		attrs.Attr{Name: "name", Value: b.InputName()},
		attrs.Attr{Name: "id", Value: b.ID()},
		attrs.Attr{Name: "placeholder", Value: b.cfg.Placeholder},
		attrs.Attr{Name: "required", Value: b.cfg.Required},
		attrs.Attr{Name: "value", Value: displayValue(b.cfg.Value)},
	)
}

func (b *Base) LabelAttributes() attrs.Attributes {
	target := b.ID()
	if b.def.LabelFor != nil {
		target = b.def.LabelFor(b)
	}
	return attrs.New(
		attrs.Attr{Name: "for", Value: target},
		attrs.Attr{Name: "class", Value: []string{"formation-field-label"}},
	)
}

func (b *Base) RequiredAttributes() attrs.Attributes {
	return attrs.New(attrs.Attr{Name: "class", Value: []string{"required"}})
}

func (b *Base) DescriptionAttributes() attrs.Attributes {
	return attrs.New(attrs.Attr{Name: "class", Value: []string{"description", "formation-field-description"}})
}

func (b *Base) NoticeAttributes(notice Notice) attrs.Attributes {
	kind := notice.Kind
	if kind == "" {
		kind = NoticeInfo
	}
	return attrs.New(attrs.Attr{Name: "class", Value: []string{"notice", "formation-field-notice", "formation-field-notice-" + string(kind)}})
}

// Attributes runs the attribute hooks for tag and serialises the result.
func (b *Base) Attributes(tag string, attributes attrs.Attributes) string {
	return attrs.Build(b.filterAttributes(tag, attributes))
}

func (b *Base) filterAttributes(tag string, attributes attrs.Attributes) attrs.Attributes {
	return b.env.Hooks.Attributes.Apply(tag, attributes, b.self)
}

func (b *Base) part(name, markup string) string {
	return b.env.Hooks.Parts.Apply(name, markup, b.self)
}

// Render assembles the field structure. The input is rendered first so the
// value is synchronised and its notices are known before the rest is built.
func (b *Base) Render(_ string) string {
	input := b.renderInput()
	label := b.renderLabel()
	required := b.renderRequired()
	description := b.renderDescription()
	notice := b.renderNotice()

	var structure Structure
	structure.Set(PartOpeningWrapper, "<div "+b.Attributes(TagWrapper, b.WrapperAttributes())+">")
	structure.Set(PartLabel, label)
	structure.Set(PartRequired, required)
	structure.Set(PartInput, input)
	structure.Set(PartDescription, description)
	structure.Set(PartNotice, notice)
	structure.Set(PartCloseWrapper, "</div>")
	return b.assemble(structure)
}

func (b *Base) assemble(structure Structure) string {
	for idx := range structure {
		structure[idx].HTML = b.part(structure[idx].Name, structure[idx].HTML)
	}
	return b.env.Hooks.Structure.Apply(structure, b.self).String()
}

func (b *Base) renderInput() string {
	b.Value()
	attributes := b.filterAttributes(TagInput, b.InputAttributes())
	template := b.def.Input
	if template == nil {
		template = SelfClosing("input")
	}
	return template(b, attributes)
}

func (b *Base) renderLabel() string {
	if b.def.SkipLabel || strings.TrimSpace(b.cfg.Label) == "" {
		return ""
	}
	return "<label " + b.Attributes(TagLabel, b.LabelAttributes()) + ">" + html.EscapeString(b.cfg.Label) + "</label>"
}

func (b *Base) renderRequired() string {
	if !b.cfg.Required {
		return ""
	}
	return "<span " + b.Attributes(TagRequired, b.RequiredAttributes()) + ">" + html.EscapeString(b.cfg.RequiredText) + "</span>"
}

func (b *Base) renderDescription() string {
	if strings.TrimSpace(b.cfg.Description) == "" {
		return ""
	}
	return "<div " + b.Attributes(TagDescription, b.DescriptionAttributes()) + ">" + html.EscapeString(b.cfg.Description) + "</div>"
}

// renderNotice renders the most recent notice only.
func (b *Base) renderNotice() string {
	if len(b.notices) == 0 {
		return ""
	}
	notice := b.notices[len(b.notices)-1]
	return "<div " + b.Attributes(TagNotice, b.NoticeAttributes(notice)) + ">" + html.EscapeString(notice.Message) + "</div>"
}

func displayValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return typed
	case bool:
		if typed {
			return "1"
		}
		return nil
	default:
		if text := scalar(typed); text != "" {
			return text
		}
		return nil
	}
}
