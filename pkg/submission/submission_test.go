package submission

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromValuesDetectsSubmission(t *testing.T) {
	if FromValues(url.Values{"email_0": {"a@b.c"}}).Submitting() {
		t.Fatalf("values without a form id must not count as a submission")
	}

	sub := FromValues(url.Values{FormIDKey: {"contact"}, "email_0": {"a@b.c"}})
	if !sub.Submitting() {
		t.Fatalf("expected submission")
	}
	if got := FormID(sub); got != "contact" {
		t.Fatalf("FormID() = %q, want contact", got)
	}
	if got, ok := sub.Value("email_0"); !ok || got != "a@b.c" {
		t.Fatalf("Value() = %q, %v", got, ok)
	}
	if _, ok := sub.Value("missing"); ok {
		t.Fatalf("missing key must report absent")
	}
}

func TestValuesReadsArrayConvention(t *testing.T) {
	sub := FromValues(url.Values{"tags_0[]": {"a", "b"}})
	got, ok := sub.Values("tags_0")
	if !ok {
		t.Fatalf("expected array values")
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRequest(t *testing.T) {
	body := url.Values{FormIDKey: {"contact"}, "name_0": {"Ada"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	sub, err := FromRequest(req)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if !sub.Submitting() {
		t.Fatalf("expected posted form to be a submission")
	}
	if got, _ := sub.Value("name_0"); got != "Ada" {
		t.Fatalf("Value(name_0) = %q", got)
	}

	get := httptest.NewRequest(http.MethodGet, "/contact?"+body, nil)
	sub, err = FromRequest(get)
	if err != nil {
		t.Fatalf("FromRequest(GET): %v", err)
	}
	if sub.Submitting() {
		t.Fatalf("GET requests are page views")
	}
}

func TestNone(t *testing.T) {
	if None().Submitting() {
		t.Fatalf("None must never submit")
	}
	if FormID(None()) != "" {
		t.Fatalf("None must not carry a form id")
	}
}
