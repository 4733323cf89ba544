package formstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formation/pkg/block"
)

// DefaultCacheTTL is how long parsed forms stay cached before the
// filesystem is read again.
const DefaultCacheTTL = 5 * time.Minute

// FSOption configures an FS store.
type FSOption func(*FS)

// WithCacheTTL overrides DefaultCacheTTL. A non-positive ttl keeps entries
// until the store is reloaded.
func WithCacheTTL(ttl time.Duration) FSOption {
	return func(s *FS) {
		s.ttl = ttl
	}
}

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) FSOption {
	return func(s *FS) {
		s.logger = logger
	}
}

// FS serves forms from JSON or YAML documents in a filesystem. Each file
// holds one form; its id defaults to the file name without extension.
type FS struct {
	fsys   fs.FS
	ttl    time.Duration
	logger zerolog.Logger

	mu    sync.Mutex
	cache *cache.Cache
}

// NewFS builds a store over fsys. Files are read lazily on first lookup.
func NewFS(fsys fs.FS, opts ...FSOption) *FS {
	store := &FS{
		fsys:   fsys,
		ttl:    DefaultCacheTTL,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	expiration := store.ttl
	if expiration <= 0 {
		expiration = cache.NoExpiration
	}
	store.cache = cache.New(expiration, 2*expiration)
	return store
}

func (s *FS) Form(ctx context.Context, id string) (Form, error) {
	id = strings.TrimSpace(id)
	if cached, ok := s.cache.Get(id); ok {
		s.logger.Debug().Str("form", id).Msg("formstore: cache hit")
		return cached.(Form), nil
	}
	forms, err := s.reload(ctx)
	if err != nil {
		return Form{}, err
	}
	form, ok := forms[id]
	if !ok {
		return Form{}, &NotFoundError{FormID: id}
	}
	return form, nil
}

func (s *FS) IDs(ctx context.Context) ([]string, error) {
	forms, err := s.reload(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(forms))
	for id := range forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Reload drops cached forms and reads the filesystem again.
func (s *FS) Reload(ctx context.Context) error {
	s.cache.Flush()
	_, err := s.reload(ctx)
	return err
}

func (s *FS) reload(ctx context.Context) (map[string]Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	forms, err := LoadFS(ctx, s.fsys)
	if err != nil {
		return nil, err
	}
	for id, form := range forms {
		s.cache.Set(id, form, cache.DefaultExpiration)
	}
	s.logger.Debug().Int("forms", len(forms)).Msg("formstore: loaded forms")
	return forms, nil
}

type documentFile struct {
	ID     string        `json:"id" yaml:"id"`
	Title  string        `json:"title" yaml:"title"`
	Blocks []block.Block `json:"blocks" yaml:"blocks"`
}

// LoadFS walks fsys and parses every JSON or YAML form document. Duplicate
// form ids are an error.
func LoadFS(ctx context.Context, fsys fs.FS) (map[string]Form, error) {
	forms := make(map[string]Form)
	if fsys == nil {
		return forms, nil
	}

	err := fs.WalkDir(fsys, ".", func(filePath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !isFormFile(filePath) {
			return nil
		}

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return fmt.Errorf("formstore: read %s: %w", filePath, err)
		}
		form, err := parseForm(data, filePath)
		if err != nil {
			return err
		}
		if existing, exists := forms[form.ID]; exists {
			return fmt.Errorf("formstore: duplicate form %q (files %s and %s)", form.ID, existing.Source, filePath)
		}
		forms[form.ID] = form
		return nil
	})
	if err != nil {
		return nil, err
	}
	return forms, nil
}

func parseForm(data []byte, source string) (Form, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Form{}, fmt.Errorf("formstore: file %s is empty", source)
	}

	var doc documentFile
	var err error
	if strings.EqualFold(path.Ext(source), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return Form{}, fmt.Errorf("formstore: parse %s: %w", source, err)
	}

	id := strings.TrimSpace(doc.ID)
	if id == "" {
		base := path.Base(source)
		id = strings.TrimSuffix(base, path.Ext(base))
	}
	return Form{
		ID:     id,
		Title:  doc.Title,
		Source: source,
		Blocks: block.EnsureUniqueIDs(doc.Blocks, id),
	}, nil
}

func isFormFile(filePath string) bool {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
