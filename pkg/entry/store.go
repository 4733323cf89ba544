package entry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrEntryNotFound is returned when an entry id is unknown.
var ErrEntryNotFound = errors.New("entry: not found")

// Entry is a persisted, valid submission.
type Entry struct {
	ID        string         `json:"id"`
	FormID    string         `json:"form_id"`
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store persists entries.
type Store interface {
	Save(ctx context.Context, entry Entry) error
	Get(ctx context.Context, id string) (Entry, error)
	// List returns the entries of a form, oldest first.
	List(ctx context.Context, formID string) ([]Entry, error)
}

// MemoryStore keeps entries in process. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Save(_ context.Context, entry Entry) error {
	if strings.TrimSpace(entry.ID) == "" {
		return fmt.Errorf("entry: id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[entry.ID]; exists {
		return fmt.Errorf("entry: duplicate id %q", entry.ID)
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return entry, nil
}

func (m *MemoryStore) List(_ context.Context, formID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0)
	for _, entry := range m.entries {
		if entry.FormID == formID {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
