package reportgen

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrTemplateFormat        = errors.New("malformed template document")
	ErrTemplateNotFound      = errors.New("template not found")
	ErrConversionUnavailable = errors.New("conversion backend unavailable")
	ErrRender                = errors.New("report rendering failed")

	// Request validation errors.
	ErrNilTemplate   = errors.New("template cannot be nil")
	ErrInvalidFormat = errors.New("invalid report format")
	ErrUnknownStyle  = errors.New("unknown style sheet")
	ErrEmptyName     = errors.New("template name cannot be empty")
	ErrNameTraversal = errors.New("template name contains path separator or null byte")

	// Conversion pipeline errors.
	ErrHTMLConversion = errors.New("HTML conversion failed")

	// PDF backend errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// ConversionUnavailableError reports a missing optional converter backend.
// It names the dependency so operators can install it, and matches
// ErrConversionUnavailable under errors.Is so callers can distinguish it
// from a generic failure and fall back to Markdown output.
type ConversionUnavailableError struct {
	Format     Format // target format that could not be produced
	Dependency string // missing backend, e.g. "pandoc" or "chromium"
	Hint       string // optional actionable hint, pre-formatted
	Err        error  // underlying cause, may be nil
}

func (e *ConversionUnavailableError) Error() string {
	msg := fmt.Sprintf("%s conversion unavailable: missing dependency %q", e.Format, e.Dependency)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += e.Hint
	}
	return msg
}

func (e *ConversionUnavailableError) Is(target error) bool {
	return target == ErrConversionUnavailable
}

func (e *ConversionUnavailableError) Unwrap() error { return e.Err }
