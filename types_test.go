package reportgen

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseFormat
// ---------------------------------------------------------------------------

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "markdown", input: "markdown", want: FormatMarkdown},
		{name: "docx", input: "docx", want: FormatDOCX},
		{name: "pdf", input: "pdf", want: FormatPDF},
		{name: "uppercase", input: "PDF", want: FormatPDF},
		{name: "mixed case", input: "Markdown", want: FormatMarkdown},
		{name: "unknown", input: "html", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "md shorthand rejected", input: "md", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrInvalidFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFormat_Properties
// ---------------------------------------------------------------------------

func TestFormat_Properties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format    Format
		extension string
		mediaType string
	}{
		{FormatMarkdown, "md", "text/markdown"},
		{FormatDOCX, "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{FormatPDF, "pdf", "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			if !tt.format.Valid() {
				t.Errorf("%q should be valid", tt.format)
			}
			if got := tt.format.Extension(); got != tt.extension {
				t.Errorf("Extension() = %q, want %q", got, tt.extension)
			}
			if got := tt.format.MediaType(); got != tt.mediaType {
				t.Errorf("MediaType() = %q, want %q", got, tt.mediaType)
			}
		})
	}

	if Format("html").Valid() {
		t.Error("unsupported format must not validate")
	}
}

// ---------------------------------------------------------------------------
// TestDefaultOptions
// ---------------------------------------------------------------------------

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.IncludeTOC || !opts.IncludeCodeHighlighting || !opts.IncludeStyles {
		t.Errorf("defaults should enable TOC, highlighting and styles: %+v", opts)
	}
	if opts.IncludeCharts {
		t.Error("charts default to off")
	}
	if opts.Style != "" {
		t.Errorf("Style defaults to empty (resolved to %q later), got %q", DefaultStyle, opts.Style)
	}
}

// ---------------------------------------------------------------------------
// TestStyleNames
// ---------------------------------------------------------------------------

func TestStyleNames(t *testing.T) {
	t.Parallel()

	names := StyleNames()
	if len(names) == 0 {
		t.Fatal("at least one built-in style expected")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("StyleNames() not sorted: %v", names)
		}
	}

	found := false
	for _, n := range names {
		if n == DefaultStyle {
			found = true
		}
	}
	if !found {
		t.Errorf("StyleNames() = %v, must include %q", names, DefaultStyle)
	}
}

func TestStyleSheet(t *testing.T) {
	t.Parallel()

	if styleSheet("") != builtinStyles[DefaultStyle] {
		t.Error("empty name should resolve to the default sheet")
	}
	if styleSheet("compact") != builtinStyles["compact"] {
		t.Error("named sheet should resolve directly")
	}
	if styleSheet("nope") != builtinStyles[DefaultStyle] {
		t.Error("unknown name falls back to the default sheet")
	}
}

// ---------------------------------------------------------------------------
// TestConversionUnavailableError
// ---------------------------------------------------------------------------

func TestConversionUnavailableError(t *testing.T) {
	t.Parallel()

	cause := errors.New("not found")
	err := &ConversionUnavailableError{
		Format:     FormatPDF,
		Dependency: "chromium",
		Hint:       "\n  hint: set ROD_BROWSER_BIN",
		Err:        cause,
	}

	if !errors.Is(err, ErrConversionUnavailable) {
		t.Error("must match ErrConversionUnavailable under errors.Is")
	}
	if !errors.Is(err, cause) {
		t.Error("must unwrap to the underlying cause")
	}
	msg := err.Error()
	for _, want := range []string{"pdf", "chromium", "not found", "ROD_BROWSER_BIN"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want it to contain %q", msg, want)
		}
	}
}
