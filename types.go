package reportgen

import (
	"fmt"
	"strings"
)

// Format identifies a report output format.
type Format string

// Supported report formats.
const (
	FormatMarkdown Format = "markdown"
	FormatDOCX     Format = "docx"
	FormatPDF      Format = "pdf"
)

// ParseFormat converts a string to a Format (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatDOCX:
		return FormatDOCX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q (must be markdown, docx, or pdf)", ErrInvalidFormat, s)
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	}
	return false
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatDOCX:
		return "docx"
	case FormatPDF:
		return "pdf"
	default:
		return "md"
	}
}

// MediaType returns the MIME type for the format.
func (f Format) MediaType() string {
	switch f {
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/markdown"
	}
}

// Chart describes one chart entry rendered into a report.
// Charts are emitted as two-column category/value tables; true chart
// drawing is a documented product limitation.
type Chart struct {
	Title string         `json:"title"`
	Type  string         `json:"type"` // informational only, e.g. "bar"
	Data  map[string]any `json:"data"` // category -> value
}

// ChartData carries the chart entries for one render.
type ChartData struct {
	Charts []Chart `json:"charts"`
}

// Options control per-render formatting behavior.
type Options struct {
	IncludeTOC              bool       `json:"include_toc"`
	IncludeCodeHighlighting bool       `json:"include_code_highlighting"`
	IncludeStyles           bool       `json:"include_styles"`
	IncludeCharts           bool       `json:"include_charts"`
	Style                   string     `json:"style,omitempty"` // built-in stylesheet name, empty = default
	ChartData               *ChartData `json:"chart_data,omitempty"`
}

// DefaultOptions returns the options used when the caller passes none:
// TOC, highlighting and styles on, charts off.
func DefaultOptions() Options {
	return Options{
		IncludeTOC:              true,
		IncludeCodeHighlighting: true,
		IncludeStyles:           true,
	}
}

// RenderRequest bundles everything needed to render one report.
// Requests are ephemeral and never persisted.
type RenderRequest struct {
	Template *Template
	Data     map[string]any
	Format   Format
	Options  Options
}

// Validate checks that the request can be rendered.
func (r *RenderRequest) Validate() error {
	if r.Template == nil {
		return ErrNilTemplate
	}
	if !r.Format.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, string(r.Format))
	}
	if r.Options.Style != "" {
		if _, ok := builtinStyles[r.Options.Style]; !ok {
			return fmt.Errorf("%w: %q (available: %s)", ErrUnknownStyle, r.Options.Style, strings.Join(StyleNames(), ", "))
		}
	}
	return nil
}

// RenderResult is the outcome of a successful render.
type RenderResult struct {
	Bytes     []byte // rendered document
	Filename  string // suggested filename, e.g. report_20240101_120000.pdf
	MediaType string // e.g. application/pdf
	FromCache bool   // true when served from the render cache
}
