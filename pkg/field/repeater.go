package field

import (
	"encoding/json"
	"errors"
	"html"
	"strings"

	"github.com/goliatone/go-formation/pkg/attrs"
	"github.com/goliatone/go-formation/pkg/block"
)

// Part names of the repeater structure.
const (
	PartRepeatableWrapperStart         = "repeatable_wrapper_start"
	PartRepeatableTemplateWrapperStart = "repeatable_template_wrapper_start"
	PartRepeatableTemplateStart        = "repeatable_template_start"
	PartRepeatableTemplateCloser       = "repeatable_template_closer"
	PartRepeatableTemplate             = "repeatable_template"
	PartRepeatableTemplateEnd          = "repeatable_template_end"
	PartRepeatableTemplateWrapperEnd   = "repeatable_template_wrapper_end"
	PartRepeatableContainer            = "repeatable_container"
	PartRepeatableAddButton            = "repeatable_add_button"
	PartRepeatableEntryInput           = "repeatable_entry_input"
	PartRepeatableWrapperEnd           = "repeatable_wrapper_end"
)

// Repeater is a composite field whose value is a list of records, one entry
// per child field keyed by the child's base name. It holds child unique ids
// and reaches the child instances through the registry lookup.
type Repeater struct {
	*Base
	children []string
}

// RepeaterDefinition describes the repeater variant.
func RepeaterDefinition() Definition {
	return Definition{
		Type: TypeRepeater,
		Defaults: func(cfg *Config) {
			cfg.Label = "Add"
		},
		SkipLabel: true,
	}
}

// NewRepeater builds a repeater from its block. Inner blocks the lookup knows
// as field types become children.
func NewRepeater(b block.Block, env Env) *Repeater {
	r := &Repeater{}
	r.Base = newBase(RepeaterDefinition(), env)
	r.Base.self = r
	if lookup := r.env.Lookup; lookup != nil {
		for _, inner := range b.InnerBlocks {
			if !lookup.Known(inner.Name) {
				continue
			}
			if id := inner.UniqueID(); id != "" {
				r.children = append(r.children, id)
			}
		}
	}
	r.Base.init(b.Attrs, r.SetValue)
	return r
}

// Children returns the unique ids of the child fields.
func (r *Repeater) Children() []string {
	return append([]string(nil), r.children...)
}

func (r *Repeater) SetValue(value any) (any, error) {
	return r.assign(value, r.validate)
}

// validate runs each record through the child fields. Child notices are
// propagated and the sanitized child values are written back.
func (r *Repeater) validate(value any) (any, error) {
	var errs []error
	if err := r.checkRequired(value); err != nil {
		errs = append(errs, err)
	}
	records, err := toRecords(value)
	if err != nil {
		r.fail(err)
		return value, errors.Join(append(errs, err)...)
	}
	if records == nil {
		return nil, errors.Join(errs...)
	}
	for _, record := range records {
		for _, id := range r.children {
			child, ok := r.lookupChild(id)
			if !ok {
				continue
			}
			name := child.BaseName()
			proposed, err := child.SetValue(record[name])
			if err != nil {
				for _, code := range Codes(err) {
					r.propagate(child, code)
				}
				r.valid = false
				errs = append(errs, err)
			}
			record[name] = proposed
		}
	}
	return records, errors.Join(errs...)
}

func (r *Repeater) lookupChild(id string) (Field, bool) {
	if r.env.Lookup == nil {
		return nil, false
	}
	return r.env.Lookup.Instance(id)
}

// propagate records code on the repeater, borrowing the child's message when
// the repeater catalogue does not know the code.
func (r *Repeater) propagate(child Field, code string) {
	if r.hasMessage(code) {
		r.AddNotice(code)
		return
	}
	notices := child.Notices()
	for idx := len(notices) - 1; idx >= 0; idx-- {
		if notices[idx].Code == code {
			r.appendNotice(notices[idx])
			return
		}
	}
	r.AddNotice(code)
}

func (r *Repeater) Value() any {
	if r.env.Submission.Submitting() {
		_, _ = r.SetValue(r.SubmittedValue())
	}
	return r.cfg.Value
}

// SubmittedValue decodes the JSON posted in the hidden input. Undecodable
// payloads count as no value.
func (r *Repeater) SubmittedValue() any {
	raw, ok := r.Base.SubmittedValue().(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}
	return decoded
}

func (r *Repeater) InputAttributes() attrs.Attributes {
	return attrs.New(
		attrs.Attr{Name: "type", Value: "hidden"},
		attrs.Attr{Name: "name", Value: r.InputName()},
		attrs.Attr{Name: "id", Value: r.cfg.Slug},
		attrs.Attr{Name: "value", Value: encodeRecords(r.cfg.Value)},
		attrs.Attr{Name: "data-parent", Value: r.cfg.UniqueID},
	)
}

// Render lays out the hidden row template around content, the row
// container, the add button and the hidden JSON input.
func (r *Repeater) Render(content string) string {
	r.Value()
	input := "<input " + r.Attributes(TagInput, r.InputAttributes()) + ">"
	notice := r.renderNotice()
	id := html.EscapeString(r.cfg.UniqueID)

	var structure Structure
	structure.Set(PartRepeatableWrapperStart, "<div "+r.Attributes(TagWrapper, r.WrapperAttributes())+">")
	structure.Set(PartRepeatableTemplateWrapperStart, `<div data-template="`+id+`" style="display:none;visibility:hidden;">`)
	structure.Set(PartRepeatableTemplateStart, `<div class="formation-repeatable">`)
	structure.Set(PartRepeatableTemplateCloser, `<button type="button" class="formation-repeatable-remove" data-closer="true">&times;</button>`)
	structure.Set(PartRepeatableTemplate, content)
	structure.Set(PartRepeatableTemplateEnd, "</div>")
	structure.Set(PartRepeatableTemplateWrapperEnd, "</div>")
	structure.Set(PartRepeatableContainer, `<div class="formation-repeatable-container" data-container="`+id+`"></div>`)
	structure.Set(PartRepeatableAddButton, `<button type="button" class="button formation-repeatable-add" data-repeater="`+id+`">`+html.EscapeString(r.cfg.Label)+`</button>`)
	structure.Set(PartRepeatableEntryInput, input)
	structure.Set(PartNotice, notice)
	structure.Set(PartRepeatableWrapperEnd, "</div>")
	return r.assemble(structure)
}

func toRecords(value any) ([]map[string]any, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		out := make([]map[string]any, 0, len(typed))
		for _, record := range typed {
			out = append(out, copyRecord(record))
		}
		return out, nil
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for _, item := range typed {
			switch record := item.(type) {
			case map[string]any:
				out = append(out, copyRecord(record))
			case map[string]string:
				converted := make(map[string]any, len(record))
				for key, val := range record {
					converted[key] = val
				}
				out = append(out, converted)
			default:
				return nil, Invalid(CodeInvalidValue, "repeater record is not an object")
			}
		}
		return out, nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil, nil
		}
	}
	return nil, Invalid(CodeInvalidValue, "repeater value is not a list")
}

func copyRecord(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for key, value := range record {
		out[key] = value
	}
	return out
}

func encodeRecords(value any) string {
	if value == nil {
		return "[]"
	}
	if records, ok := value.([]map[string]any); ok && records == nil {
		return "[]"
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
