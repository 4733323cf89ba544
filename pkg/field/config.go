package field

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Config is the resolved configuration of a field. Raw block attributes are
// decoded over the variant defaults; unknown keys land in Extra.
type Config struct {
	Type         string         `mapstructure:"type"`
	Slug         string         `mapstructure:"slug"`
	Label        string         `mapstructure:"label"`
	Placeholder  string         `mapstructure:"placeholder"`
	Value        any            `mapstructure:"value"`
	Description  string         `mapstructure:"description"`
	Required     bool           `mapstructure:"required"`
	RequiredText string         `mapstructure:"required_text"`
	IsRepeatable bool           `mapstructure:"is_repeatable"`
	DefaultValue any            `mapstructure:"default_value"`
	UniqueID     string         `mapstructure:"_unique_id"`
	Options      []Choice       `mapstructure:"options"`
	Extra        map[string]any `mapstructure:",remain"`
}

// Choice is a selectable option of a select or radio field. Options may be
// declared as plain strings, in which case label and value match.
type Choice struct {
	Label string `mapstructure:"label"`
	Value string `mapstructure:"value"`
}

func (c Config) clone() Config {
	out := c
	if c.Options != nil {
		out.Options = append([]Choice(nil), c.Options...)
	}
	if c.Extra != nil {
		out.Extra = make(map[string]any, len(c.Extra))
		for key, value := range c.Extra {
			out.Extra[key] = value
		}
	}
	return out
}

// HasOption reports whether value matches one of the configured options.
func (c Config) HasOption(value string) bool {
	for _, option := range c.Options {
		if option.Value == value {
			return true
		}
	}
	return false
}

func baseDefaults(fieldType string) Config {
	return Config{
		Type:         fieldType,
		RequiredText: "*",
	}
}

// decodeConfig overlays raw onto defaults. Scalars are weakly typed so a
// JSON number unique id or a "true" string flag decode as expected.
func decodeConfig(defaults Config, raw map[string]any) (Config, error) {
	cfg := defaults.clone()
	if len(raw) == 0 {
		return cfg, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(choiceHook),
	})
	if err != nil {
		return defaults, fmt.Errorf("field: config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return cfg, fmt.Errorf("field: decode config: %w", err)
	}
	return cfg, nil
}

var choiceType = reflect.TypeOf(Choice{})

func choiceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != choiceType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String:
		text := strings.TrimSpace(data.(string))
		return Choice{Label: text, Value: text}, nil
	case reflect.Int, reflect.Int64, reflect.Float64, reflect.Bool:
		text := fmt.Sprint(data)
		return Choice{Label: text, Value: text}, nil
	}
	return data, nil
}
