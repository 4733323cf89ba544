package field

import (
	"errors"

	"github.com/goliatone/go-formation/pkg/attrs"
	"github.com/goliatone/go-formation/pkg/submission"
)

// Field is the capability contract every field variant satisfies. One Field
// exists per unique block per request.
type Field interface {
	// Type is the field type identifier ("text", "email", ...). It never
	// changes after construction.
	Type() string
	// Slug is the DOM and URL safe identifier derived at construction.
	Slug() string
	UniqueID() string
	Config() Config
	// UpdateConfig lets extension callbacks mutate the configuration. The
	// type is restored after fn returns.
	UpdateConfig(fn func(*Config))
	// ID is the DOM id of the input.
	ID() string
	BaseName() string
	InputName() string

	// SetValue runs value through the set-value hooks and validation, stores
	// the validated value and returns it together with any validation error.
	SetValue(value any) (any, error)
	// Value returns the stored value. During a submission the submitted value
	// is pulled and validated first.
	Value() any
	// SubmittedValue returns the raw submitted value for the field, or nil.
	SubmittedValue() any

	Valid() bool
	Invalidate()
	Notices() []Notice
	AddNotice(code string)

	InputAttributes() attrs.Attributes
	LabelAttributes() attrs.Attributes
	RequiredAttributes() attrs.Attributes
	DescriptionAttributes() attrs.Attributes
	NoticeAttributes(notice Notice) attrs.Attributes

	// Render returns the field markup. content carries pre-rendered inner
	// blocks; only composite fields use it.
	Render(content string) string
}

// Lookup is the registry handle composite fields use to reach their
// children.
type Lookup interface {
	Instance(uniqueID string) (Field, bool)
	Known(blockName string) bool
}

// Env carries the request-scoped collaborators a field is constructed with.
type Env struct {
	// Index is the per-type occurrence index used for slug fallback.
	Index      int
	FormID     string
	Submission submission.Resolver
	Hooks      *Hooks
	Lookup     Lookup
	Translator Translator
	Locale     string
}

func (e Env) normalized() Env {
	if e.Submission == nil {
		e.Submission = submission.None()
	}
	if e.Hooks == nil {
		e.Hooks = NewHooks()
	}
	return e
}

// Notice codes raised by the built-in variants.
const (
	CodeInvalidValue  = "invalid_value"
	CodeRequired      = "required"
	CodeGeneralError  = "general_error"
	CodeInvalidEmail  = "invalid_email"
	CodeInvalidOption = "invalid_option"
)

// ValidationError is raised by sanitizers and the required check. It is
// always absorbed by the field and turned into a notice.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return "field: " + e.Code + ": " + e.Message
	}
	return "field: " + e.Code
}

// Invalid builds a ValidationError for code.
func Invalid(code, message string) error {
	return &ValidationError{Code: code, Message: message}
}

// CodeOf returns the notice code carried by err, falling back to
// CodeGeneralError for foreign errors.
func CodeOf(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Code != "" {
		return verr.Code
	}
	return CodeGeneralError
}

// Codes flattens joined validation errors into their codes, in order.
func Codes(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var codes []string
		for _, inner := range joined.Unwrap() {
			codes = append(codes, Codes(inner)...)
		}
		return codes
	}
	return []string{CodeOf(err)}
}
