package reportgen

import (
	"container/list"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/quillforge/go-reportgen/internal/fileutil"
)

// memoCapacity bounds the registry's lookup memoization.
const memoCapacity = 32

// Registry maps human-chosen names to templates, backed by two tiers: an
// on-disk serialized form (authoritative) and an optional database-backed
// record store. Lookups are memoized in a small bounded cache owned by
// the instance; saving under a name invalidates its entry.
//
// Templates returned from the memo are shared; they must be treated as
// immutable, which the rendering pipeline already requires.
type Registry struct {
	dir   string
	store TemplateStore
	log   *zap.Logger

	mu    sync.Mutex
	memo  map[string]*list.Element
	order *list.List // front = most recently used
}

type memoEntry struct {
	name string
	tpl  *Template
}

// NewRegistry creates a registry persisting templates under dir.
// store may be nil to disable the database tier; a nil logger disables
// logging.
func NewRegistry(dir string, store TemplateStore, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		dir:   dir,
		store: store,
		log:   log,
		memo:  make(map[string]*list.Element, memoCapacity),
		order: list.New(),
	}
}

// GetByName resolves a template: memo, then the on-disk form, then the
// record store by title (injecting the stored title into the result).
// A name resolving nowhere yields an error matching ErrTemplateNotFound.
func (r *Registry) GetByName(ctx context.Context, name string) (*Template, error) {
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}

	if tpl, ok := r.memoGet(name); ok {
		return tpl, nil
	}

	tpl, err := r.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	r.memoPut(name, tpl)
	return tpl, nil
}

func (r *Registry) lookup(ctx context.Context, name string) (*Template, error) {
	// Disk tier is authoritative when both exist.
	path := r.templatePath(name)
	if fileutil.FileExists(path) {
		return LoadTemplateFile(path)
	}

	if r.store != nil {
		rec, err := r.store.GetByTitle(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("looking up template %q: %w", name, err)
		}
		if rec != nil {
			tpl, err := ParseTemplate(rec.Document)
			if err != nil {
				return nil, err
			}
			tpl.Title = rec.Title
			return tpl, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// Save persists the template under name and invalidates any memoized
// lookup for it. Returns the on-disk path.
func (r *Registry) Save(tpl *Template, name string) (string, error) {
	if err := validateTemplateName(name); err != nil {
		return "", err
	}
	if tpl == nil {
		return "", ErrNilTemplate
	}

	if err := os.MkdirAll(r.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating templates dir: %w", err)
	}

	path := r.templatePath(name)
	if err := tpl.SaveFile(path); err != nil {
		return "", err
	}

	r.Invalidate(name)
	r.log.Debug("template saved", zap.String("name", name), zap.String("path", path))
	return path, nil
}

// Invalidate drops the memoized lookup for name, if any.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if elem, ok := r.memo[name]; ok {
		r.order.Remove(elem)
		delete(r.memo, name)
	}
}

func (r *Registry) templatePath(name string) string {
	return filepath.Join(r.dir, name+".json")
}

func (r *Registry) memoGet(name string) (*Template, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	elem, ok := r.memo[name]
	if !ok {
		return nil, false
	}
	r.order.MoveToFront(elem)
	return elem.Value.(*memoEntry).tpl, true
}

func (r *Registry) memoPut(name string, tpl *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if elem, ok := r.memo[name]; ok {
		elem.Value.(*memoEntry).tpl = tpl
		r.order.MoveToFront(elem)
		return
	}

	r.memo[name] = r.order.PushFront(&memoEntry{name: name, tpl: tpl})

	if r.order.Len() > memoCapacity {
		oldest := r.order.Back()
		r.order.Remove(oldest)
		delete(r.memo, oldest.Value.(*memoEntry).name)
	}
}

// validateTemplateName rejects names unusable as file stems.
func validateTemplateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, "/\\\x00") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrNameTraversal, name)
	}
	return nil
}
