// Package hints provides actionable error hints for common failure
// scenarios. Hints are formatted as "\n  hint: <text>" for appending to
// error messages.
package hints

import (
	"os"
	"strings"

	"github.com/quillforge/go-reportgen/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Overridable in tests.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection failures during
// PDF generation. Detects CI/Docker and suggests the relevant
// environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a pre-installed Chrome")
	}

	return formatHints(hints)
}

// ForPandoc returns the hint for a missing pandoc binary during DOCX
// generation.
func ForPandoc() string {
	return format("install pandoc (https://pandoc.org/installing.html) or request markdown output")
}

// ForConfigNotFound returns hints for config resolution failures.
func ForConfigNotFound() string {
	return format("use --config /path/to/file.yaml or create one under ~/.config/reportgen/")
}

func format(hint string) string {
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	var b strings.Builder
	for _, h := range hints {
		b.WriteString(format(h))
	}
	return b.String()
}
