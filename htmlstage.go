package reportgen

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// chartsHeading titles the appended chart section.
const chartsHeading = "## 图表"

// htmlStage converts compiled Markdown into a styled HTML document, the
// shared intermediate consumed by the DOCX and PDF backends.
type htmlStage struct {
	md goldmark.Markdown
}

// newHTMLStage creates an htmlStage with GFM extensions and syntax
// highlighting for fenced blocks the compiler left untouched.
func newHTMLStage() *htmlStage {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// The compiler emits raw HTML (TOC anchors, highlighted code
			// blocks) that must survive the conversion. All input is
			// engine-generated, not end-user HTML.
			html.WithUnsafe(),
		),
	)
	return &htmlStage{md: md}
}

// BuildHTML produces the styled HTML document for a render: chart tables
// appended when requested, Markdown converted via Goldmark, and the
// selected built-in stylesheet injected when styles are enabled.
func (h *htmlStage) BuildHTML(ctx context.Context, compiled, title string, opts Options) (string, error) {
	md := compiled
	if opts.IncludeCharts && opts.ChartData != nil {
		md = appendChartTables(md, opts.ChartData)
	}

	htmlContent, err := h.toHTML(ctx, md, title)
	if err != nil {
		return "", err
	}

	if opts.IncludeStyles {
		htmlContent = injectCSS(htmlContent, styleSheet(opts.Style))
	}
	return htmlContent, nil
}

// toHTML converts Markdown to a standalone HTML5 document. Supports
// context cancellation via goroutine + select since Goldmark doesn't
// natively take a context.
func (h *htmlStage) toHTML(ctx context.Context, content, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := h.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, htmlEscape(title), buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// injectCSS inserts a <style> block before </head>, falling back to
// prepending when the document has no head. CSS is sanitized so it cannot
// close the style tag prematurely.
func injectCSS(htmlContent, css string) string {
	if css == "" {
		return htmlContent
	}
	styleBlock := "<style>" + strings.ReplaceAll(css, "</", `<\/`) + "</style>"

	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	return styleBlock + htmlContent
}

// appendChartTables renders chart entries as two-column category/value
// Markdown tables under a dedicated heading. Categories are sorted so the
// output is deterministic. Rendering tables instead of drawn charts is a
// documented capability limit of the non-Markdown formats.
func appendChartTables(content string, charts *ChartData) string {
	if len(charts.Charts) == 0 {
		return content
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(content, "\n"))
	b.WriteString("\n\n")
	b.WriteString(chartsHeading)
	b.WriteString("\n")

	for _, chart := range charts.Charts {
		title := chart.Title
		if title == "" {
			title = "图表"
		}
		fmt.Fprintf(&b, "\n### %s\n\n", title)
		b.WriteString("| 类别 | 值 |\n| --- | --- |\n")

		categories := make([]string, 0, len(chart.Data))
		for c := range chart.Data {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Fprintf(&b, "| %s | %v |\n", c, chart.Data[c])
		}
	}
	return b.String()
}
