package reportgen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/quillforge/go-reportgen/internal/fileutil"
	"github.com/quillforge/go-reportgen/internal/hints"
)

// pandocBinary is the external HTML-to-DOCX backend.
const pandocBinary = "pandoc"

// CommandRunner abstracts command execution to enable testing without
// real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// execRunner implements CommandRunner using os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// pandocConverter produces DOCX by rendering compiled Markdown to styled
// HTML and handing it to the pandoc CLI.
type pandocConverter struct {
	html     *htmlStage
	runner   CommandRunner
	lookPath func(string) (string, error) // exec.LookPath, injectable for tests
}

func newPandocConverter(stage *htmlStage) *pandocConverter {
	return &pandocConverter{
		html:     stage,
		runner:   execRunner{},
		lookPath: exec.LookPath,
	}
}

// Convert renders the styled HTML intermediate and invokes pandoc.
// A missing pandoc binary is an operator-actionable condition reported as
// ConversionUnavailableError, distinct from a generic failure.
func (c *pandocConverter) Convert(ctx context.Context, compiled string, req *RenderRequest) ([]byte, error) {
	if _, err := c.lookPath(pandocBinary); err != nil {
		return nil, &ConversionUnavailableError{
			Format:     FormatDOCX,
			Dependency: pandocBinary,
			Hint:       hints.ForPandoc(),
			Err:        err,
		}
	}

	htmlContent, err := c.html.BuildHTML(ctx, compiled, req.Template.Title, req.Options)
	if err != nil {
		return nil, err
	}

	inPath, cleanupIn, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanupIn()

	outPath, cleanupOut, err := tempOutputPath("docx")
	if err != nil {
		return nil, err
	}
	defer cleanupOut()

	_, stderr, err := c.runner.Run(ctx, pandocBinary, inPath, "-f", "html", "-t", "docx", "-o", outPath)
	if err != nil {
		if stderr != "" {
			return nil, fmt.Errorf("converting to DOCX: %s: %w", stderr, err)
		}
		return nil, fmt.Errorf("converting to DOCX: %w", err)
	}

	docxBytes, err := os.ReadFile(outPath) // #nosec G304 -- path created by tempOutputPath above
	if err != nil {
		return nil, fmt.Errorf("reading DOCX output: %w", err)
	}
	return docxBytes, nil
}

func (c *pandocConverter) Close() error { return nil }

// tempOutputPath reserves a temp file path for a backend that writes its
// own output file. Returns the path and a cleanup function removing it.
func tempOutputPath(extension string) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "reportgen-out-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp output file: %w", err)
	}
	path = tmpFile.Name()
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("closing temp output file: %w", err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}
