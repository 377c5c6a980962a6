package reportgen

import "context"

// formatConverter turns compiled Markdown into the bytes of one target
// format. Each format is its own variant behind this interface; adding a
// format means adding a variant, not extending a branch chain.
type formatConverter interface {
	Convert(ctx context.Context, compiled string, req *RenderRequest) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ formatConverter = (*markdownConverter)(nil)
	_ formatConverter = (*pandocConverter)(nil)
	_ formatConverter = (*rodConverter)(nil)
)

// markdownConverter is the terminal variant: compiled Markdown is the
// output, no backend involved.
type markdownConverter struct{}

func (markdownConverter) Convert(_ context.Context, compiled string, _ *RenderRequest) ([]byte, error) {
	return []byte(compiled), nil
}

func (markdownConverter) Close() error { return nil }
