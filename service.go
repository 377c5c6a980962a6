package reportgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/quillforge/go-reportgen/internal/fileutil"
)

// defaultTimeout bounds the PDF backend's page load when the caller's
// context carries no deadline.
const defaultTimeout = 30 * time.Second

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout      time.Duration
	cacheDir     string
	cacheEnabled bool
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("reportgen: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithCacheDir sets the render cache directory.
func WithCacheDir(dir string) Option {
	return func(s *Service) {
		s.cfg.cacheDir = dir
	}
}

// WithCacheDisabled turns the render cache off entirely.
func WithCacheDisabled() Option {
	return func(s *Service) {
		s.cfg.cacheEnabled = false
	}
}

// WithConverter overrides the converter for one format (e.g. by tests).
func WithConverter(format Format, conv formatConverter) Option {
	return func(s *Service) {
		s.converters[format] = conv
	}
}

// Service orchestrates the template-to-report pipeline: variable binding,
// Markdown compilation, format conversion, and the render cache. Renders
// are synchronous and share no mutable state beyond the cache, so one
// Service may serve concurrent calls.
type Service struct {
	cfg        serviceConfig
	log        *zap.Logger
	html       *htmlStage
	cache      *RenderCache
	converters map[Format]formatConverter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g. WithCacheDir, WithLogger).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:      defaultTimeout,
			cacheEnabled: true,
		},
		log:        zap.NewNop(),
		converters: make(map[Format]formatConverter, 3),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.html = newHTMLStage()

	// Wire default converters where not injected (e.g. by tests)
	if _, ok := s.converters[FormatMarkdown]; !ok {
		s.converters[FormatMarkdown] = markdownConverter{}
	}
	if _, ok := s.converters[FormatDOCX]; !ok {
		s.converters[FormatDOCX] = newPandocConverter(s.html)
	}
	if _, ok := s.converters[FormatPDF]; !ok {
		s.converters[FormatPDF] = newRodConverter(s.html, s.cfg.timeout)
	}

	if s.cfg.cacheEnabled {
		dir := s.cfg.cacheDir
		if dir == "" {
			dir = defaultCacheDir()
		}
		s.cache = NewRenderCache(dir, s.log)
	}

	return s
}

// defaultCacheDir resolves the user cache location, falling back to the
// system temp dir.
func defaultCacheDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "reportgen")
	}
	return filepath.Join(os.TempDir(), "reportgen-cache")
}

// Render produces the report for one request. Identical requests are
// served from the render cache without re-invoking any converter; cache
// stores are best-effort and never fail a render.
func (s *Service) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil {
		key = s.cache.Key(&req)
		if data, ok := s.cache.Get(key); ok {
			s.log.Info("report served from cache",
				zap.String("key", key),
				zap.String("format", string(req.Format)))
			return s.result(data, req.Format, true), nil
		}
	}

	bound := Substitute(req.Template.ToMarkdown(), req.Data)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compiled := CompileMarkdown(bound, req.Options)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conv := s.converters[req.Format]
	out, err := conv.Convert(ctx, compiled, &req)
	if err != nil {
		if errors.Is(err, ErrConversionUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, req.Format, err)
	}

	if s.cache != nil {
		s.cache.Put(key, out)
	}

	s.log.Info("report generated",
		zap.String("format", string(req.Format)),
		zap.Int("bytes", len(out)))
	return s.result(out, req.Format, false), nil
}

// RenderToFile renders the request and writes the output to path
// atomically; a failed conversion leaves no partial file behind.
// An empty path writes the suggested filename in the working directory.
func (s *Service) RenderToFile(ctx context.Context, req RenderRequest, path string) (*RenderResult, error) {
	result, err := s.Render(ctx, req)
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = result.Filename
	}
	if err := fileutil.WriteFileAtomic(path, result.Bytes, 0o644); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	return result, nil
}

func (s *Service) result(data []byte, format Format, fromCache bool) *RenderResult {
	return &RenderResult{
		Bytes:     data,
		Filename:  fmt.Sprintf("report_%s.%s", time.Now().Format("20060102_150405"), format.Extension()),
		MediaType: format.MediaType(),
		FromCache: fromCache,
	}
}

// Close releases converter resources (the headless browser).
func (s *Service) Close() error {
	var errs []error
	for _, conv := range s.converters {
		if err := conv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
