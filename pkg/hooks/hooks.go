package hooks

import (
	"strings"
	"sync"
)

// Subject is the value a stage runs against. Scopes match on its type and
// slug.
type Subject interface {
	Type() string
	Slug() string
}

// Tier orders stages by specificity. Lower tiers run first.
type Tier int

const (
	TierGeneric Tier = iota
	TierType
	TierSlug
)

var tiers = [...]Tier{TierGeneric, TierType, TierSlug}

// Scope selects which subjects a stage applies to. The zero Scope is generic.
type Scope struct {
	Type string
	Slug string
}

// Generic matches every subject.
func Generic() Scope {
	return Scope{}
}

// ForType matches subjects of the given type.
func ForType(fieldType string) Scope {
	return Scope{Type: strings.TrimSpace(fieldType)}
}

// ForSlug matches subjects of the given type and slug.
func ForSlug(fieldType, slug string) Scope {
	return Scope{Type: strings.TrimSpace(fieldType), Slug: strings.TrimSpace(slug)}
}

// Tier reports the specificity of the scope.
func (s Scope) Tier() Tier {
	switch {
	case s.Type == "":
		return TierGeneric
	case s.Slug == "":
		return TierType
	default:
		return TierSlug
	}
}

func (s Scope) valid() bool {
	return !(s.Type == "" && s.Slug != "")
}

func (s Scope) matches(subject Subject) bool {
	switch s.Tier() {
	case TierGeneric:
		return true
	case TierType:
		return subject.Type() == s.Type
	default:
		return subject.Type() == s.Type && subject.Slug() == s.Slug
	}
}

// Func transforms value for subject and passes the result downstream.
// Stages may read and mutate subject.
type Func[T any, S Subject] func(value T, subject S) T

type stage[T any, S Subject] struct {
	scope Scope
	fn    Func[T, S]
}

// Point is a single extension point: an ordered pipeline of stages. Apply runs
// generic stages, then type stages, then type+slug stages; within a tier
// stages run in registration order. The zero value is ready to use.
type Point[T any, S Subject] struct {
	mu     sync.RWMutex
	stages []stage[T, S]
}

// Add registers fn under scope. Scopes naming a slug without a type are
// ignored.
func (p *Point[T, S]) Add(scope Scope, fn Func[T, S]) {
	if p == nil || fn == nil || !scope.valid() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, stage[T, S]{scope: scope, fn: fn})
}

// Apply threads value through every matching stage.
func (p *Point[T, S]) Apply(value T, subject S) T {
	if p == nil {
		return value
	}
	p.mu.RLock()
	stages := append([]stage[T, S](nil), p.stages...)
	p.mu.RUnlock()

	for _, tier := range tiers {
		for _, entry := range stages {
			if entry.scope.Tier() != tier || !entry.scope.matches(subject) {
				continue
			}
			value = entry.fn(value, subject)
		}
	}
	return value
}

// Len reports the number of registered stages.
func (p *Point[T, S]) Len() int {
	if p == nil {
		return 0
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.stages)
}

// Keyed groups points by a key such as a tag or structure part name.
type Keyed[T any, S Subject] struct {
	mu     sync.Mutex
	points map[string]*Point[T, S]
}

// At returns the point for key, creating it on first use.
func (k *Keyed[T, S]) At(key string) *Point[T, S] {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.points == nil {
		k.points = make(map[string]*Point[T, S])
	}
	key = strings.TrimSpace(key)
	point, ok := k.points[key]
	if !ok {
		point = &Point[T, S]{}
		k.points[key] = point
	}
	return point
}

// Add registers fn on the point for key.
func (k *Keyed[T, S]) Add(key string, scope Scope, fn Func[T, S]) {
	k.At(key).Add(scope, fn)
}

// Apply runs the point for key. Keys without stages return value unchanged.
func (k *Keyed[T, S]) Apply(key string, value T, subject S) T {
	k.mu.Lock()
	point := k.points[strings.TrimSpace(key)]
	k.mu.Unlock()
	return point.Apply(value, subject)
}

// Event is an action point: callbacks observe the subject and return
// nothing. Dispatch order follows Point.
type Event[S Subject] struct {
	point Point[struct{}, S]
}

// On registers fn under scope.
func (e *Event[S]) On(scope Scope, fn func(S)) {
	if fn == nil {
		return
	}
	e.point.Add(scope, func(value struct{}, subject S) struct{} {
		fn(subject)
		return value
	})
}

// Fire dispatches subject to every matching callback.
func (e *Event[S]) Fire(subject S) {
	e.point.Apply(struct{}{}, subject)
}
