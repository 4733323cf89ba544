package field

import "strings"

// NoticeKind classifies a notice for styling.
type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice is a feedback message attached to a field.
type Notice struct {
	Kind    NoticeKind
	Code    string
	Message string
}

// Messages is the notice catalogue of a field, keyed by code.
type Messages map[string]Notice

// Translator resolves notice messages for a locale. It mirrors the
// translation seam hosts already provide for labels.
type Translator interface {
	Translate(locale, key string) (string, error)
}

func defaultMessages() Messages {
	return Messages{
		CodeInvalidValue: {Kind: NoticeError, Message: "Invalid Value"},
		CodeRequired:     {Kind: NoticeError, Message: "Field is required"},
	}
}

func generalError() Notice {
	return Notice{Kind: NoticeError, Code: CodeGeneralError, Message: "General Error"}
}

func (m Messages) clone() Messages {
	out := make(Messages, len(m))
	for code, notice := range m {
		out[code] = notice
	}
	return out
}

// noticeMessages builds the catalogue: built-ins, the definition's own
// messages, the notices hooks and finally the non-removable general error.
func (b *Base) noticeMessages() Messages {
	messages := defaultMessages()
	for code, notice := range b.def.Messages {
		messages[code] = notice
	}
	messages = b.env.Hooks.Notices.Apply(messages, b.self)
	if messages == nil {
		messages = Messages{}
	}
	messages[CodeGeneralError] = generalError()

	for code, notice := range messages {
		notice.Code = code
		if notice.Kind == "" {
			notice.Kind = NoticeInfo
		}
		notice.Message = b.translate("formation.notice."+code, notice.Message)
		messages[code] = notice
	}
	return messages
}

func (b *Base) translate(key, fallback string) string {
	if b.env.Translator == nil {
		return fallback
	}
	translated, err := b.env.Translator.Translate(b.env.Locale, key)
	if err != nil || strings.TrimSpace(translated) == "" {
		return fallback
	}
	return translated
}
