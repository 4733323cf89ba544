package submission

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// FormIDKey is the submitted key identifying the form being posted. Its
// presence is what makes a request a submission.
const FormIDKey = "formation_form_id"

// Resolver tells fields whether the current request is a submission and hands
// out the raw submitted values keyed by field base name.
type Resolver interface {
	Submitting() bool
	// Value returns the scalar submitted under name.
	Value(name string) (string, bool)
	// Values returns every value submitted under name, including the
	// name[] array convention. Built-in fields post one scalar per base name
	// (the repeater posts JSON), so Values serves host-defined variants such as
	// multi-selects that read several values through Definition.Submitted.
	Values(name string) ([]string, bool)
}

type valuesResolver struct {
	values     url.Values
	submitting bool
}

// FromValues wraps already-parsed form data. The resolver reports a submission
// when values carry a non-empty FormIDKey.
func FromValues(values url.Values) Resolver {
	if values == nil {
		values = url.Values{}
	}
	return &valuesResolver{
		values:     values,
		submitting: strings.TrimSpace(values.Get(FormIDKey)) != "",
	}
}

// Static builds a resolver from a flat map, mostly useful in tests and the
// CLI.
func Static(values map[string]string) Resolver {
	form := make(url.Values, len(values))
	for key, value := range values {
		form.Set(key, value)
	}
	return FromValues(form)
}

// FromRequest parses the request body and returns a resolver over the posted
// form. Non-POST requests never count as submissions.
func FromRequest(r *http.Request) (Resolver, error) {
	if r == nil {
		return None(), nil
	}
	if r.Method != http.MethodPost {
		return None(), nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("submission: parse form: %w", err)
	}
	return FromValues(r.PostForm), nil
}

// None returns a resolver for plain page views.
func None() Resolver {
	return &valuesResolver{values: url.Values{}}
}

// FormID returns the submitted form identifier, or "".
func FormID(r Resolver) string {
	if r == nil || !r.Submitting() {
		return ""
	}
	id, _ := r.Value(FormIDKey)
	return strings.TrimSpace(id)
}

func (v *valuesResolver) Submitting() bool {
	return v.submitting
}

func (v *valuesResolver) Value(name string) (string, bool) {
	values, ok := v.values[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (v *valuesResolver) Values(name string) ([]string, bool) {
	values, ok := v.values[name]
	if !ok {
		values, ok = v.values[name+"[]"]
	}
	if !ok || len(values) == 0 {
		return nil, false
	}
	return append([]string(nil), values...), true
}
