package reportgen

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Precompiled regex patterns for performance.
var (
	// ATX heading with required space after the hashes
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

	// Fenced code block delimiter (backticks or tildes)
	fenceDelimiter = regexp.MustCompile("^(```|~~~)")

	// Full fenced block with optional language tag (allows c++, c#,
	// objective-c)
	fencedBlockPattern = regexp.MustCompile("(?s)```([\\w+#-]*)[ \t]*\n(.*?)\n```")

	// Characters stripped from anchor slugs
	slugStripPattern = regexp.MustCompile(`[^a-z0-9-]`)
)

// tocHeading titles the generated table of contents.
const tocHeading = "## 目录"

// tocExcludedTitles are headings skipped in the generated list to avoid
// the table of contents referencing itself.
var tocExcludedTitles = map[string]struct{}{
	"目录":                {},
	"table of contents": {},
}

// chromaStyle is the color scheme for inline-styled code highlighting.
const chromaStyle = "github"

// CompileMarkdown turns bound Markdown into final Markdown honoring the
// TOC and code-highlighting toggles. The two transforms are independent
// and composable; with both disabled the input is returned unchanged.
func CompileMarkdown(content string, opts Options) string {
	result := content
	if opts.IncludeTOC {
		result = insertTOC(result)
	}
	if opts.IncludeCodeHighlighting {
		result = highlightCodeBlocks(result)
	}
	return result
}

// headingSlug derives an anchor slug: lowercase, spaces to hyphens, and
// everything outside [a-z0-9-] stripped.
func headingSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "-")
	return slugStripPattern.ReplaceAllString(s, "")
}

type tocEntry struct {
	level int
	title string
	slug  string
}

// toggleFence advances the open-fence state for one line. Only a marker
// of the opening kind closes a block; a mismatched marker inside an open
// block is literal content. Returns the new state and whether the line
// is a fence delimiter line.
func toggleFence(open, line string) (string, bool) {
	m := fenceDelimiter.FindStringSubmatch(line)
	if m == nil {
		return open, false
	}
	switch {
	case open == "":
		return m[1], true
	case m[1] == open:
		return "", true
	}
	return open, false
}

// scanHeadings collects ATX headings outside fenced code blocks.
func scanHeadings(content string) []tocEntry {
	var entries []tocEntry
	fence := ""
	for _, line := range strings.Split(content, "\n") {
		if next, isFence := toggleFence(fence, line); isFence {
			fence = next
			continue
		}
		if fence != "" {
			continue
		}
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			title := strings.TrimSpace(m[2])
			entries = append(entries, tocEntry{
				level: len(m[1]),
				title: title,
				slug:  headingSlug(title),
			})
		}
	}
	return entries
}

// insertTOC builds a nested bullet-list table of contents from the
// document's headings, inserts it after the first heading, and places an
// anchor tag before every heading so intra-document links resolve.
func insertTOC(content string) string {
	entries := scanHeadings(content)
	if len(entries) == 0 {
		return content
	}

	var toc strings.Builder
	toc.WriteString(tocHeading)
	toc.WriteString("\n")
	for _, e := range entries {
		if _, excluded := tocExcludedTitles[strings.ToLower(e.title)]; excluded {
			continue
		}
		indent := strings.Repeat("  ", e.level-1)
		fmt.Fprintf(&toc, "%s- [%s](#%s)\n", indent, e.title, e.slug)
	}

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines)+len(entries)+4)

	fence := ""
	tocInserted := false
	for _, line := range lines {
		if next, isFence := toggleFence(fence, line); isFence {
			fence = next
			result = append(result, line)
			continue
		}
		if fence == "" {
			if m := headingPattern.FindStringSubmatch(line); m != nil {
				title := strings.TrimSpace(m[2])
				result = append(result, fmt.Sprintf(`<a id="%s"></a>`, headingSlug(title)))
				result = append(result, line)
				if !tocInserted {
					result = append(result, "", toc.String())
					tocInserted = true
				}
				continue
			}
		}
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

// highlightCodeBlocks replaces fenced code blocks with syntax-highlighted
// HTML markup. An unknown language falls back to an unstyled, escaped
// <pre><code> block rather than erroring.
func highlightCodeBlocks(content string) string {
	return fencedBlockPattern.ReplaceAllStringFunc(content, func(block string) string {
		m := fencedBlockPattern.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		lang, code := m[1], m[2]
		if lang == "" {
			lang = "text"
		}
		return highlightBlock(lang, code)
	})
}

// highlightBlock renders one code block with chroma using inline styles
// so the output is self-contained Markdown-embedded HTML.
func highlightBlock(lang, code string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return fallbackCodeBlock(lang, code)
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(chromaStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fallbackCodeBlock(lang, code)
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.Standalone(false), chromahtml.WithClasses(false))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return fallbackCodeBlock(lang, code)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// fallbackCodeBlock renders an escaped, unstyled code block.
func fallbackCodeBlock(lang, code string) string {
	return fmt.Sprintf("<pre><code class=\"language-%s\">%s</code></pre>", lang, html.EscapeString(code))
}
