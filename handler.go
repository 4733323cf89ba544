package formation

import (
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/goliatone/go-formation/pkg/formstore"
	"github.com/goliatone/go-formation/pkg/submission"
)

// Handler serves form formID: GET renders it, POST processes the submission
// and renders the form again with its notices. A stored entry renders a
// success notice above a blank form. Submissions naming another form are
// treated as no submission.
func (e *Engine) Handler(formID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, err := submission.FromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if submission.FormID(sub) != formID {
			sub = submission.None()
		}

		var notice string
		if sub.Submitting() {
			result, err := e.Submit(r.Context(), sub)
			switch {
			case errors.Is(err, formstore.ErrFormNotFound):
				e.writeHTML(w, http.StatusNotFound, e.notFound())
				return
			case err != nil:
				e.logger.Error().Err(err).Str("form", formID).Msg("formation: submission failed")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			case result != nil && result.Entry != nil:
				message := e.translate("formation.form.submitted", "Thank you, your submission was received.")
				notice = `<div class="formation-notice formation-notice-success">` + html.EscapeString(message) + `</div>`
				sub = submission.None()
			}
		}

		markup, err := e.Render(r.Context(), formID, sub)
		switch {
		case errors.Is(err, formstore.ErrFormNotFound):
			e.writeHTML(w, http.StatusNotFound, markup)
		case err != nil:
			e.logger.Error().Err(err).Str("form", formID).Msg("formation: render failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		default:
			e.writeHTML(w, http.StatusOK, e.page(formID, notice+markup))
		}
	})
}

// WithLayout wraps the markup written by Handler, for example into a full
// page that loads AssetsFS.
func WithLayout(layout func(formID, markup string) string) Option {
	return func(e *Engine) {
		e.layout = layout
	}
}

func (e *Engine) page(formID, markup string) string {
	if e.layout == nil {
		return markup
	}
	return e.layout(formID, markup)
}

func (e *Engine) writeHTML(w http.ResponseWriter, status int, markup string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(strings.TrimSpace(markup)))
}
