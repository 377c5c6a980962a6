package reportgen

// Notes:
// - missing pandoc: ConversionUnavailableError naming the binary
// - fake runner: argument shape, output file read back, stderr surfaced

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// fakeRunner records invocations and simulates pandoc writing its output
// file.
type fakeRunner struct {
	name   string
	args   []string
	out    []byte
	stderr string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.name = name
	f.args = args
	if f.err != nil {
		return "", f.stderr, f.err
	}
	// pandoc writes the file named by -o.
	for i, arg := range args {
		if arg == "-o" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1], f.out, 0o600); err != nil {
				return "", "", err
			}
		}
	}
	return "", "", nil
}

var _ CommandRunner = (*fakeRunner)(nil)

func pandocForTest(runner CommandRunner, lookPathErr error) *pandocConverter {
	conv := newPandocConverter(newHTMLStage())
	conv.runner = runner
	conv.lookPath = func(string) (string, error) {
		if lookPathErr != nil {
			return "", lookPathErr
		}
		return "/usr/bin/pandoc", nil
	}
	return conv
}

// ---------------------------------------------------------------------------
// TestPandocConverter
// ---------------------------------------------------------------------------

func TestPandocConverter_MissingBinary(t *testing.T) {
	t.Parallel()

	conv := pandocForTest(&fakeRunner{}, errors.New("executable file not found in $PATH"))
	req := demoRequest(FormatDOCX)

	_, err := conv.Convert(context.Background(), "# Doc\n", &req)
	if !errors.Is(err, ErrConversionUnavailable) {
		t.Fatalf("Convert() error = %v, want ErrConversionUnavailable", err)
	}

	var unavailable *ConversionUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Convert() error = %T, want *ConversionUnavailableError", err)
	}
	if unavailable.Dependency != "pandoc" {
		t.Errorf("Dependency = %q, want pandoc", unavailable.Dependency)
	}
	if unavailable.Format != FormatDOCX {
		t.Errorf("Format = %q, want docx", unavailable.Format)
	}
	if !strings.Contains(err.Error(), "pandoc") {
		t.Errorf("error message should name the missing binary: %v", err)
	}
}

func TestPandocConverter_Convert(t *testing.T) {
	t.Parallel()

	want := []byte("PK\x03\x04 fake docx payload")
	runner := &fakeRunner{out: want}
	conv := pandocForTest(runner, nil)
	req := demoRequest(FormatDOCX)

	got, err := conv.Convert(context.Background(), "# Doc\n\ncontent\n", &req)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Convert() = %q, want %q", got, want)
	}

	if runner.name != "pandoc" {
		t.Errorf("invoked binary = %q, want pandoc", runner.name)
	}
	joined := strings.Join(runner.args, " ")
	for _, want := range []string{"-f html", "-t docx", "-o"} {
		if !strings.Contains(joined, want) {
			t.Errorf("pandoc args %q missing %q", joined, want)
		}
	}
	if !strings.HasSuffix(runner.args[0], ".html") {
		t.Errorf("first arg should be the HTML input file, got %q", runner.args[0])
	}
}

func TestPandocConverter_RunFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: errors.New("exit status 1"), stderr: "pandoc: parse failure"}
	conv := pandocForTest(runner, nil)
	req := demoRequest(FormatDOCX)

	_, err := conv.Convert(context.Background(), "# Doc\n", &req)
	if err == nil {
		t.Fatal("Convert() should surface pandoc failures")
	}
	if !strings.Contains(err.Error(), "parse failure") {
		t.Errorf("stderr should be included in the error: %v", err)
	}
	if errors.Is(err, ErrConversionUnavailable) {
		t.Error("a pandoc run failure is not an unavailable backend")
	}
}

func TestPandocConverter_CancelledContext(t *testing.T) {
	t.Parallel()

	conv := pandocForTest(&fakeRunner{}, nil)
	req := demoRequest(FormatDOCX)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := conv.Convert(ctx, "# Doc\n", &req); err == nil {
		t.Fatal("Convert() with cancelled context should fail")
	}
}
