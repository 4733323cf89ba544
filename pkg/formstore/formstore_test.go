package formstore

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formation/pkg/block"
)

const contactYAML = `
title: Contact
blocks:
  - blockName: formation/text
    attrs:
      label: Name
      _unique_id: name
  - blockName: core/group
    innerBlocks:
      - blockName: formation/email
        attrs:
          label: Email
          required: true
`

const newsletterJSON = `{
  "id": "newsletter",
  "blocks": [{"blockName": "formation/email", "attrs": {"label": "Email"}}]
}`

func TestFSLoadsYAMLAndJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte(contactYAML)},
		"forms/signup.json":  {Data: []byte(newsletterJSON)},
		"forms/README.md":    {Data: []byte("ignored")},
		"forms/nested/x.txt": {Data: []byte("ignored")},
	}
	store := NewFS(fsys)

	ids, err := store.IDs(context.Background())
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if diff := cmp.Diff([]string{"contact", "newsletter"}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	form, err := store.Form(context.Background(), "contact")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.Title != "Contact" || form.Source != "forms/contact.yaml" {
		t.Fatalf("unexpected form %+v", form)
	}
	if got := form.Blocks[0].UniqueID(); got != "name" {
		t.Fatalf("explicit unique id lost: %q", got)
	}
	generated := form.Blocks[1].InnerBlocks[0].UniqueID()
	if generated == "" {
		t.Fatalf("expected generated unique id")
	}

	again, err := NewFS(fsys).Form(context.Background(), "contact")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Blocks[1].InnerBlocks[0].UniqueID() != generated {
		t.Fatalf("generated ids must be stable across loads")
	}
}

func TestFSNotFound(t *testing.T) {
	store := NewFS(fstest.MapFS{"contact.yaml": {Data: []byte(contactYAML)}})
	_, err := store.Form(context.Background(), "missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) || notFound.FormID != "missing" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound in chain")
	}
}

func TestFSServesFromCache(t *testing.T) {
	fsys := fstest.MapFS{"contact.yaml": {Data: []byte(contactYAML)}}
	store := NewFS(fsys, WithCacheTTL(time.Hour))
	if _, err := store.Form(context.Background(), "contact"); err != nil {
		t.Fatalf("form: %v", err)
	}
	delete(fsys, "contact.yaml")
	if _, err := store.Form(context.Background(), "contact"); err != nil {
		t.Fatalf("expected cached form, got %v", err)
	}
	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, err := store.Form(context.Background(), "contact"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected form gone after reload, got %v", err)
	}
}

func TestLoadFSRejectsBadDocuments(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"empty":        {"a.yaml": {Data: []byte("  ")}},
		"invalid json": {"a.json": {Data: []byte("{")}},
		"duplicate": {
			"a.yaml": {Data: []byte("id: same\nblocks: []")},
			"b.json": {Data: []byte(`{"id":"same","blocks":[]}`)},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFS(context.Background(), fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	store, err := NewMemory(Form{ID: "contact", Blocks: []block.Block{{Name: "formation/text"}}})
	if err != nil {
		t.Fatalf("new memory: %v", err)
	}
	if err := store.Add(Form{ID: "contact"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	form, err := store.Form(context.Background(), "contact")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.Blocks[0].UniqueID() == "" {
		t.Fatalf("expected generated unique id")
	}
	if _, err := store.Form(context.Background(), "other"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
