package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formation/pkg/field"
	"github.com/goliatone/go-formation/pkg/formstore"
	"github.com/goliatone/go-formation/pkg/registry"
	"github.com/goliatone/go-formation/pkg/submission"
)

const skipOption = "(skip)"

// Option configures a Filler.
type Option func(*Filler)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithTypes sets the field type table.
func WithTypes(types *registry.Types) Option {
	return func(f *Filler) {
		if types != nil {
			f.types = types
		}
	}
}

// WithHooks sets the field extension points.
func WithHooks(h *field.Hooks) Option {
	return func(f *Filler) {
		if h != nil {
			f.hooks = h
		}
	}
}

// WithLogger sets the filler logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Filler) {
		f.logger = logger
	}
}

// Filler walks a form in the terminal and collects answers as submission
// data. Answers are validated by the fields themselves, so a rejected answer
// is asked again with the field's notice as the error.
type Filler struct {
	driver Driver
	types  *registry.Types
	hooks  *field.Hooks
	logger zerolog.Logger
}

// New builds a Filler. Without WithDriver it prompts through survey.
func New(opts ...Option) *Filler {
	f := &Filler{
		types:  registry.DefaultTypes(),
		hooks:  field.NewHooks(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// Fill prompts for every top-level field of form and returns the answers in
// submission form, form id included.
func (f *Filler) Fill(ctx context.Context, form formstore.Form) (url.Values, error) {
	reg := registry.New(f.types,
		registry.WithHooks(f.hooks),
		registry.WithLogger(f.logger),
		registry.WithFormID(form.ID),
	)
	reg.ResolveTree(form.Blocks)

	values := url.Values{}
	values.Set(submission.FormIDKey, form.ID)
	if title := strings.TrimSpace(form.Title); title != "" {
		if err := f.driver.Info(ctx, title); err != nil {
			return nil, err
		}
	}

	for _, instance := range reg.TopLevel() {
		if repeater, ok := instance.(*field.Repeater); ok {
			encoded, err := f.fillRepeater(ctx, reg, repeater)
			if err != nil {
				return nil, err
			}
			values.Set(repeater.InputName(), encoded)
			continue
		}
		answer, ok, err := f.ask(ctx, instance)
		if err != nil {
			return nil, err
		}
		if ok {
			values.Set(instance.InputName(), answer)
		}
	}
	f.logger.Debug().Str("form", form.ID).Int("answers", len(values)-1).Msg("prompt: form filled")
	return values, nil
}

func (f *Filler) fillRepeater(ctx context.Context, reg *registry.Registry, repeater *field.Repeater) (string, error) {
	cfg := repeater.Config()
	records := make([]map[string]any, 0)
	for {
		more, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("%s? (%d so far)", cfg.Label, len(records)),
			Help:    cfg.Description,
		})
		if err != nil {
			return "", err
		}
		if !more {
			break
		}
		record := make(map[string]any)
		for _, id := range repeater.Children() {
			child, ok := reg.Instance(id)
			if !ok {
				continue
			}
			answer, ok, err := f.ask(ctx, child)
			if err != nil {
				return "", err
			}
			if ok {
				record[child.BaseName()] = answer
			}
		}
		records = append(records, record)
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("prompt: encode %s: %w", repeater.Slug(), err)
	}
	return string(encoded), nil
}

// ask prompts for one field. ok is false when the field contributes nothing
// to the submission.
func (f *Filler) ask(ctx context.Context, instance field.Field) (string, bool, error) {
	cfg := instance.Config()
	message := cfg.Label
	if message == "" {
		message = instance.Slug()
	}
	if cfg.Required {
		message += " " + cfg.RequiredText
	}
	validate := validatorFor(instance)

	switch instance.Type() {
	case field.TypeButton:
		return "", false, nil
	case field.TypeCheckbox:
		checked, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Help: cfg.Description})
		if err != nil {
			return "", false, err
		}
		if !checked {
			if cfg.Required {
				return "", false, fmt.Errorf("prompt: %s must be checked", instance.Slug())
			}
			return "", false, nil
		}
		return "1", true, nil
	case field.TypeSelect, field.TypeRadio:
		return f.choose(ctx, instance, message)
	case field.TypeTextarea:
		answer, err := f.driver.TextArea(ctx, TextAreaConfig{
			Message:   message,
			Help:      cfg.Description,
			Default:   fmt.Sprint(valueOrEmpty(cfg.Value)),
			Validator: validate,
		})
		return answer, err == nil, err
	default:
		answer, err := f.driver.Input(ctx, InputConfig{
			Message:   message,
			Help:      helpText(cfg),
			Default:   fmt.Sprint(valueOrEmpty(cfg.Value)),
			Validator: validate,
		})
		return answer, err == nil, err
	}
}

func (f *Filler) choose(ctx context.Context, instance field.Field, message string) (string, bool, error) {
	cfg := instance.Config()
	options := make([]string, 0, len(cfg.Options)+1)
	if !cfg.Required {
		options = append(options, skipOption)
	}
	for _, option := range cfg.Options {
		options = append(options, option.Label)
	}
	if len(options) == 0 {
		return "", false, nil
	}
	idx, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: options, Help: cfg.Description})
	if err != nil {
		return "", false, err
	}
	if idx < 0 || idx >= len(options) {
		return "", false, fmt.Errorf("prompt: %s: invalid choice %d", instance.Slug(), idx)
	}
	if !cfg.Required {
		if idx == 0 {
			return "", false, nil
		}
		idx--
	}
	return cfg.Options[idx].Value, true, nil
}

// validatorFor checks answers through the field itself and reports its most
// recent notice.
func validatorFor(instance field.Field) func(string) error {
	return func(answer string) error {
		if _, err := instance.SetValue(answer); err != nil {
			notices := instance.Notices()
			if len(notices) > 0 {
				return errors.New(notices[len(notices)-1].Message)
			}
			return err
		}
		return nil
	}
}

func helpText(cfg field.Config) string {
	parts := make([]string, 0, 2)
	if cfg.Description != "" {
		parts = append(parts, cfg.Description)
	}
	if cfg.Placeholder != "" {
		parts = append(parts, "e.g. "+cfg.Placeholder)
	}
	return strings.Join(parts, " ")
}

func valueOrEmpty(value any) any {
	if value == nil {
		return ""
	}
	return value
}
