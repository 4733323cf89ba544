package testsupport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formation/pkg/block"
	"github.com/goliatone/go-formation/pkg/formstore"
	"github.com/goliatone/go-formation/pkg/submission"
)

// ContactYAML is a small form document exercising plain fields, a layout
// block and a repeater.
const ContactYAML = `id: contact
title: Contact us
blocks:
  - blockName: formation/text
    attrs:
      _unique_id: name
      label: Name
  - blockName: formation/email
    attrs:
      _unique_id: email
      label: Email
      required: true
  - blockName: core/group
    innerHTML: <h3>Guests</h3>
    innerBlocks:
      - blockName: formation/repeatable
        attrs:
          _unique_id: guests
          label: Add guest
          slug: guests
        innerBlocks:
          - blockName: formation/text
            attrs:
              _unique_id: guest
              label: Guest
  - blockName: formation/button
    attrs:
      _unique_id: send
      label: Send
`

// ContactBlocks returns the blocks of ContactYAML.
func ContactBlocks(t *testing.T) []block.Block {
	t.Helper()
	return ContactForm(t).Blocks
}

// ContactForm returns ContactYAML loaded through the filesystem store.
func ContactForm(t *testing.T) formstore.Form {
	t.Helper()
	form, err := FormsFS(t).Form(context.Background(), "contact")
	if err != nil {
		t.Fatalf("load contact form: %v", err)
	}
	return form
}

// FormsFS returns a filesystem store seeded with ContactYAML.
func FormsFS(t *testing.T) *formstore.FS {
	t.Helper()
	return formstore.NewFS(fstest.MapFS{
		"contact.yaml": {Data: []byte(ContactYAML)},
	})
}

// Submission builds a submission of formID from key/value pairs.
func Submission(formID string, pairs ...string) submission.Resolver {
	if len(pairs)%2 != 0 {
		panic("testsupport: submission pairs must be even")
	}
	values := map[string]string{submission.FormIDKey: formID}
	for i := 0; i < len(pairs); i += 2 {
		values[pairs[i]] = pairs[i+1]
	}
	return submission.Static(values)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGoldenString reads a golden file. Trailing whitespace is trimmed so
// editors adding a final newline do not break comparisons.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return strings.TrimRight(string(data), "\n")
}

// CompareHTML diffs rendered markup split at tag boundaries so failures point
// at the offending element.
func CompareHTML(want, got string) string {
	return cmp.Diff(splitTags(want), splitTags(got))
}

func splitTags(markup string) []string {
	markup = strings.ReplaceAll(markup, "><", ">\n<")
	return strings.Split(markup, "\n")
}

// Must fails the test on err.
func Must(t *testing.T, err error, format string, args ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", fmt.Sprintf(format, args...), err)
	}
}
