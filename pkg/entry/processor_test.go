package entry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formation/pkg/block"
	"github.com/goliatone/go-formation/pkg/field"
	"github.com/goliatone/go-formation/pkg/formstore"
	"github.com/goliatone/go-formation/pkg/submission"
)

func contactForms(t *testing.T) formstore.Lookup {
	t.Helper()
	forms, err := formstore.NewMemory(formstore.Form{
		ID: "contact",
		Blocks: []block.Block{
			{Name: "formation/text", Attrs: map[string]any{"label": "Name", "_unique_id": "name"}},
			{Name: "formation/email", Attrs: map[string]any{"label": "Email", "required": true, "_unique_id": "email"}},
			{Name: "formation/button", Attrs: map[string]any{"_unique_id": "send"}},
		},
	})
	if err != nil {
		t.Fatalf("forms: %v", err)
	}
	return forms
}

func TestProcessIgnoresNonSubmissions(t *testing.T) {
	p := NewProcessor(contactForms(t))
	result, err := p.Process(context.Background(), submission.None())
	if result != nil || err != nil {
		t.Fatalf("expected nil result, got %+v, %v", result, err)
	}
}

func TestProcessUnknownForm(t *testing.T) {
	p := NewProcessor(contactForms(t))
	sub := submission.Static(map[string]string{submission.FormIDKey: "nope"})
	_, err := p.Process(context.Background(), sub)
	var notFound *formstore.NotFoundError
	if !errors.As(err, &notFound) || notFound.FormID != "nope" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestProcessValidSubmissionIsStored(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	p := NewProcessor(contactForms(t), WithStore(store), WithClock(func() time.Time { return now }))

	sub := submission.Static(map[string]string{
		submission.FormIDKey: "contact",
		"name_0":             "<b>Ada</b>",
		"email_0":            "ada@example.com",
	})
	result, err := p.Process(context.Background(), sub)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !result.Valid || result.Entry == nil {
		t.Fatalf("expected stored valid result, got %+v", result)
	}
	want := map[string]any{"name_0": "Ada", "email_0": "ada@example.com", "submit_0": ""}
	if diff := cmp.Diff(want, result.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	stored, err := store.List(context.Background(), "contact")
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected one stored entry, got %d (%v)", len(stored), err)
	}
	if !stored[0].CreatedAt.Equal(now) || stored[0].ID != result.Entry.ID {
		t.Fatalf("unexpected entry %+v", stored[0])
	}
}

func TestProcessInvalidSubmissionIsNotStored(t *testing.T) {
	store := NewMemoryStore()
	p := NewProcessor(contactForms(t), WithStore(store))

	sub := submission.Static(map[string]string{
		submission.FormIDKey: "contact",
		"email_0":            "not-an-email",
	})
	result, err := p.Process(context.Background(), sub)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Valid || result.Entry != nil {
		t.Fatalf("expected invalid unsaved result, got %+v", result)
	}
	notices := result.Notices["email_0"]
	if len(notices) != 1 || notices[0].Code != field.CodeInvalidEmail {
		t.Fatalf("notices = %+v", notices)
	}
	if stored, _ := store.List(context.Background(), "contact"); len(stored) != 0 {
		t.Fatalf("invalid submission must not be stored")
	}
	if html := result.Registry.Render("email", ""); html == "" {
		t.Fatalf("result registry should render fields")
	}
}
