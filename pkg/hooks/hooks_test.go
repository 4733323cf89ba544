package hooks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type subject struct {
	kind string
	slug string
}

func (s subject) Type() string { return s.kind }
func (s subject) Slug() string { return s.slug }

func TestPointAppliesTiersInPrecedenceOrder(t *testing.T) {
	var point Point[[]string, subject]

	trace := func(label string) Func[[]string, subject] {
		return func(value []string, _ subject) []string {
			return append(value, label)
		}
	}

	point.Add(ForSlug("email", "contact"), trace("slug"))
	point.Add(ForType("email"), trace("type-1"))
	point.Add(Generic(), trace("generic"))
	point.Add(ForType("email"), trace("type-2"))
	point.Add(ForType("text"), trace("other-type"))
	point.Add(ForSlug("email", "other"), trace("other-slug"))

	got := point.Apply(nil, subject{kind: "email", slug: "contact"})
	want := []string{"generic", "type-1", "type-2", "slug"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stage order mismatch (-want +got):\n%s", diff)
	}
}

func TestPointIgnoresSlugWithoutType(t *testing.T) {
	var point Point[int, subject]
	point.Add(Scope{Slug: "orphan"}, func(v int, _ subject) int { return v + 1 })

	if point.Len() != 0 {
		t.Fatalf("expected invalid scope to be ignored")
	}
	if got := point.Apply(1, subject{}); got != 1 {
		t.Fatalf("expected value unchanged, got %d", got)
	}
}

func TestNilPointIsPassThrough(t *testing.T) {
	var point *Point[string, subject]
	if got := point.Apply("x", subject{}); got != "x" {
		t.Fatalf("nil point should pass value through, got %q", got)
	}
}

func TestKeyedSeparatesKeys(t *testing.T) {
	var keyed Keyed[string, subject]
	keyed.Add("label", Generic(), func(v string, _ subject) string { return v + "-label" })

	if got := keyed.Apply("input", "x", subject{}); got != "x" {
		t.Fatalf("unrelated key should be untouched, got %q", got)
	}
	if got := keyed.Apply("label", "x", subject{}); got != "x-label" {
		t.Fatalf("keyed stage not applied, got %q", got)
	}
}

func TestEventFiresMatchingCallbacks(t *testing.T) {
	var event Event[subject]
	var fired []string
	event.On(ForType("text"), func(s subject) { fired = append(fired, "type:"+s.slug) })
	event.On(Generic(), func(s subject) { fired = append(fired, "generic:"+s.slug) })
	event.On(ForType("email"), func(s subject) { fired = append(fired, "email") })

	event.Fire(subject{kind: "text", slug: "name"})

	want := []string{"generic:name", "type:name"}
	if diff := cmp.Diff(want, fired); diff != "" {
		t.Fatalf("event order mismatch (-want +got):\n%s", diff)
	}
}
