package field

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-formation/pkg/attrs"
	"github.com/goliatone/go-formation/pkg/hooks"
	"github.com/goliatone/go-formation/pkg/submission"
)

func TestSlugDerivation(t *testing.T) {
	cases := []struct {
		name  string
		raw   map[string]any
		index int
		want  string
	}{
		{name: "explicit slug wins", raw: map[string]any{"slug": "Contact Me", "label": "Email"}, want: "contact-me"},
		{name: "label fallback", raw: map[string]any{"label": "Email"}, want: "email"},
		{name: "label diacritics", raw: map[string]any{"label": "Dirección Postal"}, want: "direccion-postal"},
		{name: "type and index", raw: map[string]any{}, index: 3, want: "text_3"},
		{name: "label without key characters", raw: map[string]any{"label": "!!!"}, index: 1, want: "text_1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Text().New(tc.raw, Env{Index: tc.index})
			if got := f.Slug(); got != tc.want {
				t.Fatalf("slug = %q, want %q", got, tc.want)
			}
			if got := f.BaseName(); got != tc.want+"_0" {
				t.Fatalf("base name = %q", got)
			}
		})
	}
}

func TestSlugPropertyMatchesSanitizedLabel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		label := rapid.StringMatching(`[A-Za-z][A-Za-z0-9 _-]{0,20}`).Draw(t, "label")
		index := rapid.IntRange(0, 50).Draw(t, "index")

		f := Text().New(map[string]any{"label": label}, Env{Index: index})
		if want := SanitizeKey(label); f.Slug() != want {
			t.Fatalf("slug = %q, want %q", f.Slug(), want)
		}

		unlabeled := Email().New(nil, Env{Index: index})
		if want := "email_" + strconv.Itoa(index); unlabeled.Slug() != want {
			t.Fatalf("slug = %q, want %q", unlabeled.Slug(), want)
		}
	})
}

func TestSanitizeKeyIsStable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")
		once := SanitizeKey(input)
		if SanitizeKey(once) != once {
			t.Fatalf("sanitize key not idempotent for %q", input)
		}
		for _, r := range once {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
				t.Fatalf("unexpected rune %q in %q", r, once)
			}
		}
	})
}

func TestSetValueIsIdempotent(t *testing.T) {
	definitions := []Definition{Text(), Textarea(), Email()}
	rapid.Check(t, func(t *rapid.T) {
		def := rapid.SampledFrom(definitions).Draw(t, "definition")
		input := rapid.String().Draw(t, "input")

		f := def.New(map[string]any{"label": "Probe"}, Env{})
		first, _ := f.SetValue(input)
		second, _ := f.SetValue(input)
		if first != second {
			t.Fatalf("%s: first %q, second %q", def.Type, first, second)
		}
		if f.Value() != second {
			t.Fatalf("%s: stored value mismatch", def.Type)
		}
	})
}

func TestRequiredEmailSubmittedEmpty(t *testing.T) {
	sub := submission.Static(map[string]string{
		submission.FormIDKey: "contact",
		"email_0":            "",
	})
	f := Email().New(map[string]any{"label": "Email", "required": true}, Env{Submission: sub})

	if !f.Valid() {
		t.Fatalf("field should start valid")
	}
	if got := f.Value(); got != "" {
		t.Fatalf("value = %v, want empty", got)
	}
	if f.Valid() {
		t.Fatalf("expected required failure to invalidate field")
	}
	notices := f.Notices()
	if len(notices) == 0 || notices[len(notices)-1].Code != CodeRequired {
		t.Fatalf("expected required notice, got %+v", notices)
	}

	html := f.Render("")
	for _, fragment := range []string{
		`<label for="email" class="formation-field-label">Email</label>`,
		`<span class="required">*</span>`,
		`name="email_0"`,
		`required`,
		`Field is required`,
		`formation-field-invalid`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("render missing %q:\n%s", fragment, html)
		}
	}
}

func TestEmailRejectsInvalidAddress(t *testing.T) {
	f := Email().New(map[string]any{"label": "Email"}, Env{})
	stored, err := f.SetValue("<b>not-an-email</b>")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if diff := cmp.Diff([]string{CodeInvalidEmail}, Codes(err)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if stored != "not-an-email" {
		t.Fatalf("stored = %v", stored)
	}
	if f.Valid() {
		t.Fatalf("expected invalid field")
	}
	if got := f.Notices()[0].Message; got != "Invalid email address" {
		t.Fatalf("notice message = %q", got)
	}

	ok := Email().New(nil, Env{})
	if _, err := ok.SetValue("user@example.com"); err != nil || !ok.Valid() {
		t.Fatalf("valid address rejected: %v", err)
	}
}

func TestRequiredAndSanitizerErrorsJoin(t *testing.T) {
	f := Checkbox().New(map[string]any{"required": true}, Env{})
	_, err := f.SetValue(nil)
	if diff := cmp.Diff([]string{CodeRequired}, Codes(err)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}

	joined := errors.Join(Invalid(CodeRequired, ""), errors.New("boom"))
	if diff := cmp.Diff([]string{CodeRequired, CodeGeneralError}, Codes(joined)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOmitsEmptyParts(t *testing.T) {
	f := Text().New(nil, Env{})
	html := f.Render("")
	want := `<div class="formation-field formation-field-text" data-field-type="text"><input type="text" name="text_0" id="text_0"></div>`
	if html != want {
		t.Fatalf("render mismatch\nwant %s\ngot  %s", want, html)
	}
	if strings.Contains(html, "<label") || strings.Contains(html, "notice") {
		t.Fatalf("unexpected label or notice: %s", html)
	}
}

func TestUnknownNoticeFallsBackToGeneralError(t *testing.T) {
	f := Text().New(nil, Env{})
	f.AddNotice("made_up")
	notices := f.Notices()
	if len(notices) != 1 || notices[0].Code != CodeGeneralError {
		t.Fatalf("expected general error notice, got %+v", notices)
	}
	if !f.Valid() {
		t.Fatalf("adding a notice must not change validity")
	}
}

func TestNoticeHooksCannotRemoveGeneralError(t *testing.T) {
	h := NewHooks()
	h.Notices.Add(hooks.Generic(), func(Messages, Field) Messages { return nil })
	f := Text().New(nil, Env{Hooks: h})
	f.AddNotice(CodeRequired)
	if got := f.Notices()[0].Code; got != CodeGeneralError {
		t.Fatalf("code = %q, want general error", got)
	}
}

type translator map[string]string

func (tr translator) Translate(locale, key string) (string, error) {
	if value, ok := tr[locale+":"+key]; ok {
		return value, nil
	}
	return "", errors.New("missing")
}

func TestNoticeMessagesAreTranslated(t *testing.T) {
	f := Text().New(map[string]any{"required": true}, Env{
		Locale:     "es",
		Translator: translator{"es:formation.notice.required": "Campo obligatorio"},
	})
	f.SetValue("")
	if got := f.Notices()[0].Message; got != "Campo obligatorio" {
		t.Fatalf("message = %q", got)
	}
}

func TestHooksRunInPipelineOrder(t *testing.T) {
	h := NewHooks()
	var trace []string
	h.DefaultAttributes.Add(hooks.ForType(TypeText), func(cfg Config, _ Field) Config {
		trace = append(trace, "defaults")
		cfg.Placeholder = "from defaults"
		return cfg
	})
	h.SetArgs.Add(hooks.Generic(), func(cfg Config, _ Field) Config {
		trace = append(trace, "args:"+cfg.Slug)
		cfg.Type = "hijacked"
		return cfg
	})
	h.Init.On(hooks.ForSlug(TypeText, "name"), func(Field) {
		trace = append(trace, "init")
	})
	h.SetValue.Add(hooks.ForType(TypeText), func(value any, _ Field) any {
		return strings.ToUpper(value.(string))
	})

	f := Text().New(map[string]any{"label": "Name"}, Env{Hooks: h})
	if diff := cmp.Diff([]string{"defaults", "args:name", "init"}, trace); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
	if f.Type() != TypeText {
		t.Fatalf("type must not change, got %q", f.Type())
	}
	if f.Config().Placeholder != "from defaults" {
		t.Fatalf("default attribute hook lost")
	}
	if got, _ := f.SetValue("ada"); got != "ADA" {
		t.Fatalf("set value hook not applied, got %v", got)
	}
}

func TestRenderHooks(t *testing.T) {
	h := NewHooks()
	h.Attributes.Add(TagInput, hooks.ForType(TypeText), func(a attrs.Attributes, _ Field) attrs.Attributes {
		a.Set("autocomplete", "off")
		return a
	})
	h.Parts.Add(PartLabel, hooks.Generic(), func(string, Field) string { return "" })
	h.Structure.Add(hooks.ForSlug(TypeText, "name"), func(s Structure, _ Field) Structure {
		s.InsertBefore(PartCloseWrapper, Part{Name: "hint", HTML: "<small>hint</small>"})
		return s
	})

	f := Text().New(map[string]any{"label": "Name"}, Env{Hooks: h})
	html := f.Render("")
	if strings.Contains(html, "<label") {
		t.Fatalf("label part should be filtered out: %s", html)
	}
	if !strings.Contains(html, `autocomplete="off"`) {
		t.Fatalf("input attribute hook missing: %s", html)
	}
	if !strings.HasSuffix(html, "<small>hint</small></div>") {
		t.Fatalf("structure hook missing: %s", html)
	}
}

func TestTextareaKeepsLinesAndDropsValueAttribute(t *testing.T) {
	f := Textarea().New(map[string]any{"label": "Message"}, Env{})
	got, _ := f.SetValue("line one  \r\n<script>x</script>line two")
	if got != "line one\nline two" {
		t.Fatalf("textarea value = %q", got)
	}
	html := f.Render("")
	if strings.Contains(html, "value=") {
		t.Fatalf("textarea must not carry a value attribute: %s", html)
	}
	if !strings.Contains(html, `<textarea name="message_0" id="message">line one`+"\n"+`line two</textarea>`) {
		t.Fatalf("textarea content missing: %s", html)
	}
}

func TestSelectAndRadioValidateOptions(t *testing.T) {
	raw := map[string]any{
		"label":   "Color",
		"options": []any{"red", map[string]any{"label": "Deep Blue", "value": "blue"}},
	}
	for _, def := range []Definition{Select(), Radio()} {
		f := def.New(raw, Env{})
		if _, err := f.SetValue("blue"); err != nil {
			t.Fatalf("%s: valid option rejected: %v", def.Type, err)
		}
		html := f.Render("")
		if def.Type == TypeSelect && !strings.Contains(html, `<option value="blue" selected>Deep Blue</option>`) {
			t.Fatalf("select render: %s", html)
		}
		if def.Type == TypeRadio && !strings.Contains(html, `id="color_1" value="blue" checked`) {
			t.Fatalf("radio render: %s", html)
		}
		if _, err := f.SetValue("green"); CodeOf(err) != CodeInvalidOption || f.Valid() {
			t.Fatalf("%s: expected invalid option, got %v", def.Type, err)
		}
	}
}

func TestRadioLabelPointsAtFirstChoice(t *testing.T) {
	f := Radio().New(map[string]any{"label": "Color", "options": []any{"red", "blue"}}, Env{})
	html := f.Render("")
	if !strings.Contains(html, `<label for="color_0" class="formation-field-label">Color</label>`) {
		t.Fatalf("label should target the first choice: %s", html)
	}
	if !strings.Contains(html, `id="color_0"`) {
		t.Fatalf("first choice id missing: %s", html)
	}

	empty := Radio().New(map[string]any{"label": "Color"}, Env{})
	if html := empty.Render(""); !strings.Contains(html, `<label class="formation-field-label">Color</label>`) {
		t.Fatalf("label without choices should drop for: %s", html)
	}
}

func TestDefinitionSubmittedReadsMultipleValues(t *testing.T) {
	tags := Definition{
		Type: "tags",
		Submitted: func(f *Base) any {
			values, ok := f.Submission().Values(f.BaseName())
			if !ok {
				return nil
			}
			return values
		},
		Sanitize: func(_ *Base, value any) (any, error) { return value, nil },
	}
	sub := submission.FromValues(url.Values{
		submission.FormIDKey: {"signup"},
		"tags_0[]":           {"go", "html"},
	})
	f := tags.New(map[string]any{"label": "Tags"}, Env{Submission: sub})

	if diff := cmp.Diff([]string{"go", "html"}, f.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckboxSanitizes(t *testing.T) {
	cases := []struct {
		in   any
		want any
		code string
	}{
		{in: nil, want: nil},
		{in: "1", want: true},
		{in: "on", want: true},
		{in: "off", want: false},
		{in: true, want: true},
		{in: "maybe", want: false, code: CodeInvalidValue},
	}
	for _, tc := range cases {
		f := Checkbox().New(map[string]any{"label": "Agree"}, Env{})
		got, err := f.SetValue(tc.in)
		if got != tc.want {
			t.Fatalf("%v: got %v", tc.in, got)
		}
		if tc.code != "" && CodeOf(err) != tc.code {
			t.Fatalf("%v: code %v", tc.in, err)
		}
		if tc.code == "" && err != nil {
			t.Fatalf("%v: unexpected error %v", tc.in, err)
		}
	}

	f := Checkbox().New(map[string]any{"label": "Agree", "default_value": "1"}, Env{})
	if !strings.Contains(f.Render(""), `value="1" checked`) {
		t.Fatalf("checked box not rendered: %s", f.Render(""))
	}
}

func TestButtonSkipsLabel(t *testing.T) {
	f := Button().New(nil, Env{})
	html := f.Render("")
	if strings.Contains(html, "<label") {
		t.Fatalf("button must not render a label: %s", html)
	}
	if !strings.Contains(html, `<button type="submit" name="submit_0" id="submit" class="button formation-button">Submit</button>`) {
		t.Fatalf("button render: %s", html)
	}
}

func TestRepeatableInputName(t *testing.T) {
	sub := submission.Static(map[string]string{submission.FormIDKey: "f", "city_0[0]": "Lyon"})
	f := Text().New(map[string]any{"label": "City", "is_repeatable": true}, Env{Submission: sub})
	if f.InputName() != "city_0[0]" {
		t.Fatalf("input name = %q", f.InputName())
	}
	if f.Value() != "Lyon" {
		t.Fatalf("value = %v", f.Value())
	}
}

func TestDefaultValueIsValidated(t *testing.T) {
	f := Text().New(map[string]any{"default_value": "  <i>hello</i>  world "}, Env{})
	if f.Value() != "hello world" {
		t.Fatalf("value = %q", f.Value())
	}
}

func TestWeaklyTypedConfig(t *testing.T) {
	f := Text().New(map[string]any{"required": "true", "_unique_id": 42, "data-extra": "x"}, Env{})
	cfg := f.Config()
	if !cfg.Required || cfg.UniqueID != "42" {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Extra["data-extra"] != "x" {
		t.Fatalf("extra = %+v", cfg.Extra)
	}
	if f.DecodeError() != nil {
		t.Fatalf("decode error: %v", f.DecodeError())
	}
}
