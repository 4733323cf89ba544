package formstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formation/pkg/block"
)

// ErrFormNotFound is wrapped by every NotFoundError.
var ErrFormNotFound = errors.New("formstore: form not found")

// NotFoundError reports a form id no store knows about.
type NotFoundError struct {
	FormID string
}

func (e *NotFoundError) Error() string {
	if e.FormID == "" {
		return "formstore: form not found: missing form id"
	}
	return fmt.Sprintf("formstore: form %q not found", e.FormID)
}

func (e *NotFoundError) Unwrap() error { return ErrFormNotFound }

// Form is a stored block tree addressable by id.
type Form struct {
	ID     string
	Title  string
	Source string
	Blocks []block.Block
}

// Lookup resolves form ids into their block trees.
type Lookup interface {
	Form(ctx context.Context, id string) (Form, error)
}

// Lister is implemented by stores able to enumerate their forms.
type Lister interface {
	IDs(ctx context.Context) ([]string, error)
}

// Memory holds forms in process. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	forms map[string]Form
}

// NewMemory builds a store seeded with forms. Blocks lacking a unique id get
// a deterministic one derived from the form id.
func NewMemory(forms ...Form) (*Memory, error) {
	store := &Memory{forms: make(map[string]Form)}
	for _, form := range forms {
		if err := store.Add(form); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Add stores form. Ids must be unique.
func (m *Memory) Add(form Form) error {
	form.ID = strings.TrimSpace(form.ID)
	if form.ID == "" {
		return fmt.Errorf("formstore: form id is required")
	}
	form.Blocks = block.EnsureUniqueIDs(form.Blocks, form.ID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.forms[form.ID]; exists {
		return fmt.Errorf("formstore: duplicate form %q", form.ID)
	}
	m.forms[form.ID] = form
	return nil
}

func (m *Memory) Form(_ context.Context, id string) (Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	form, ok := m.forms[strings.TrimSpace(id)]
	if !ok {
		return Form{}, &NotFoundError{FormID: id}
	}
	return form, nil
}

func (m *Memory) IDs(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.forms))
	for id := range m.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
