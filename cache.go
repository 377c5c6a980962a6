package reportgen

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/quillforge/go-reportgen/internal/fileutil"
)

// RenderCache stores rendered outputs keyed by a content hash of the full
// render request. Entries are written once and never mutated; concurrent
// writers of the same key race harmlessly because rendering is
// deterministic. Caching is best-effort: store failures are logged and
// swallowed, never propagated.
type RenderCache struct {
	dir string
	log *zap.Logger
}

// NewRenderCache creates a cache rooted at dir. A nil logger disables
// logging.
func NewRenderCache(dir string, log *zap.Logger) *RenderCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RenderCache{dir: dir, log: log}
}

// cacheKeyPayload is the canonical serialization hashed into a cache key.
// encoding/json sorts map keys, so equal requests hash equally regardless
// of construction order.
type cacheKeyPayload struct {
	Template TemplateDocument `json:"template"`
	Data     any              `json:"data"`
	Format   Format           `json:"format"`
	Options  Options          `json:"options"`
}

// Key computes the cache key for a request: a blake3 hash of the
// canonical serialization plus the format's file extension.
// Non-serializable values in the data fall back to their string
// representation so the key is always computable.
func (c *RenderCache) Key(req *RenderRequest) string {
	payload := cacheKeyPayload{
		Template: req.Template.Document(),
		Data:     req.Data,
		Format:   req.Format,
		Options:  req.Options,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		payload.Data = sanitizeForHash(req.Data)
		if data, err = json.Marshal(payload); err != nil {
			// Options carried something non-serializable too; hash the
			// formatted value instead.
			data = fmt.Appendf(nil, "%#v", payload)
		}
	}

	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]) + "." + req.Format.Extension()
}

// sanitizeForHash deep-copies v, replacing values encoding/json cannot
// serialize (functions, channels, complex types) with their fmt.Sprint
// form.
func sanitizeForHash(v any) any {
	switch val := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return val
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = sanitizeForHash(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeForHash(item)
		}
		return out
	default:
		if _, err := json.Marshal(val); err != nil {
			return fmt.Sprint(val)
		}
		return val
	}
}

// Get returns the cached artifact for key, or a miss. Lookups are pure
// reads with no side effects.
func (c *RenderCache) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(c.dir, key)) // #nosec G304 -- key is an internally computed hash
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores the artifact for key. Failures (disk full, permissions) are
// logged and swallowed: caching is an optimization, never a correctness
// dependency.
func (c *RenderCache) Put(key string, data []byte) {
	if err := os.MkdirAll(c.dir, 0o750); err != nil {
		c.log.Warn("render cache: creating cache dir failed", zap.String("dir", c.dir), zap.Error(err))
		return
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(c.dir, key), data, 0o644); err != nil {
		c.log.Warn("render cache: storing artifact failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear removes every cached artifact. Entries are otherwise kept until
// manually cleared; there is no time- or pressure-based eviction.
func (c *RenderCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("removing cache entry: %w", err)
		}
	}
	return nil
}
