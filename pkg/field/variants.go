package field

import (
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formation/pkg/attrs"
)

// Field type identifiers of the built-in variants.
const (
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypeEmail    = "email"
	TypeSelect   = "select"
	TypeCheckbox = "checkbox"
	TypeRadio    = "radio"
	TypeButton   = "button"
	TypeRepeater = "repeater"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Text is a single line text input.
func Text() Definition {
	return Definition{Type: TypeText}
}

// Textarea is a multi line text input. Line breaks survive sanitizing.
func Textarea() Definition {
	return Definition{
		Type: TypeTextarea,
		InputAttributes: func(f *Base) attrs.Attributes {
			attributes := f.DefaultInputAttributes()
			attributes.Delete("type")
			attributes.Delete("value")
			return attributes
		},
		Input: Enclosing("textarea", escapedValue),
		Sanitize: func(_ *Base, value any) (any, error) {
			return SanitizeTextarea(value), nil
		},
	}
}

// Email accepts a single email address. Empty values pass so the required
// check stays the only source of missing-value notices.
func Email() Definition {
	return Definition{
		Type: TypeEmail,
		Sanitize: func(_ *Base, value any) (any, error) {
			address := SanitizeText(value)
			if address == "" {
				return address, nil
			}
			if err := validatorInstance().Var(address, "email"); err != nil {
				return address, Invalid(CodeInvalidEmail, err.Error())
			}
			return address, nil
		},
		Messages: Messages{
			CodeInvalidEmail: {Kind: NoticeError, Message: "Invalid email address"},
		},
	}
}

// Select renders a drop down over the configured options. The placeholder
// becomes an empty leading option.
func Select() Definition {
	return Definition{
		Type: TypeSelect,
		InputAttributes: func(f *Base) attrs.Attributes {
			return attrs.New(
				attrs.Attr{Name: "name", Value: f.InputName()},
				attrs.Attr{Name: "id", Value: f.cfg.Slug},
				attrs.Attr{Name: "required", Value: f.cfg.Required},
			)
		},
		Input:    Enclosing("select", selectOptions),
		Sanitize: sanitizeChoice,
		Messages: Messages{
			CodeInvalidOption: {Kind: NoticeError, Message: "Invalid option"},
		},
	}
}

func selectOptions(f *Base) string {
	current := scalar(f.cfg.Value)
	var builder strings.Builder
	if f.cfg.Placeholder != "" {
		builder.WriteString(`<option value="">` + html.EscapeString(f.cfg.Placeholder) + `</option>`)
	}
	for _, option := range f.cfg.Options {
		attributes := attrs.New(
			attrs.Attr{Name: "value", Value: option.Value},
			attrs.Attr{Name: "selected", Value: current != "" && current == option.Value},
		)
		if option.Value == "" {
			builder.WriteString(`<option value="">` + html.EscapeString(option.Label) + `</option>`)
			continue
		}
		builder.WriteString("<option " + attrs.Build(attributes) + ">" + html.EscapeString(option.Label) + "</option>")
	}
	return builder.String()
}

func sanitizeChoice(f *Base, value any) (any, error) {
	choice := SanitizeText(value)
	if choice == "" || len(f.cfg.Options) == 0 {
		return choice, nil
	}
	if !f.cfg.HasOption(choice) {
		return choice, Invalid(CodeInvalidOption, choice)
	}
	return choice, nil
}

// Radio renders one radio input per option, sharing the field name.
func Radio() Definition {
	return Definition{
		Type: TypeRadio,
		InputAttributes: func(f *Base) attrs.Attributes {
			return attrs.New(
				attrs.Attr{Name: "type", Value: "radio"},
				attrs.Attr{Name: "name", Value: f.InputName()},
				attrs.Attr{Name: "required", Value: f.cfg.Required},
			)
		},
		Input:    radioInputs,
		LabelFor: radioLabelFor,
		Sanitize: sanitizeChoice,
		Messages: Messages{
			CodeInvalidOption: {Kind: NoticeError, Message: "Invalid option"},
		},
	}
}

// radioLabelFor points the label at the first choice; without choices there is
// nothing to point at.
func radioLabelFor(f *Base) string {
	if len(f.cfg.Options) == 0 {
		return ""
	}
	return radioID(f, 0)
}

func radioID(f *Base, idx int) string {
	return f.cfg.Slug + "_" + strconv.Itoa(idx)
}

func radioInputs(f *Base, attributes attrs.Attributes) string {
	current := scalar(f.cfg.Value)
	var builder strings.Builder
	builder.WriteString(`<div class="formation-choices">`)
	for idx, option := range f.cfg.Options {
		input := attributes.Clone()
		input.Set("id", radioID(f, idx))
		input.Set("value", option.Value)
		input.Set("checked", current != "" && current == option.Value)
		builder.WriteString(`<label class="formation-choice"><input ` + attrs.Build(input) + "> " + html.EscapeString(option.Label) + "</label>")
	}
	builder.WriteString("</div>")
	return builder.String()
}

// Checkbox stores a boolean. Unchecked boxes are absent from submissions and
// keep a nil value.
func Checkbox() Definition {
	return Definition{
		Type: TypeCheckbox,
		InputAttributes: func(f *Base) attrs.Attributes {
			checked, _ := f.cfg.Value.(bool)
			return attrs.New(
				attrs.Attr{Name: "type", Value: "checkbox"},
				attrs.Attr{Name: "name", Value: f.InputName()},
				attrs.Attr{Name: "id", Value: f.cfg.Slug},
				attrs.Attr{Name: "required", Value: f.cfg.Required},
				attrs.Attr{Name: "value", Value: "1"},
				attrs.Attr{Name: "checked", Value: checked},
			)
		},
		Sanitize: func(_ *Base, value any) (any, error) {
			switch typed := value.(type) {
			case nil:
				return nil, nil
			case bool:
				return typed, nil
			}
			switch strings.ToLower(SanitizeText(value)) {
			case "1", "on", "true", "yes":
				return true, nil
			case "", "0", "off", "false", "no":
				return false, nil
			}
			return false, Invalid(CodeInvalidValue, "")
		},
	}
}

// Button renders a submit button labelled with the field label.
func Button() Definition {
	return Definition{
		Type: TypeButton,
		Defaults: func(cfg *Config) {
			cfg.Label = "Submit"
		},
		InputAttributes: func(f *Base) attrs.Attributes {
			return attrs.New(
				attrs.Attr{Name: "type", Value: "submit"},
				attrs.Attr{Name: "name", Value: f.InputName()},
				attrs.Attr{Name: "id", Value: f.cfg.Slug},
				attrs.Attr{Name: "class", Value: []string{"button", "formation-button"}},
				attrs.Attr{Name: "value", Value: displayValue(f.cfg.Value)},
			)
		},
		Input: Enclosing("button", func(f *Base) string {
			return html.EscapeString(f.cfg.Label)
		}),
		SkipLabel: true,
	}
}
