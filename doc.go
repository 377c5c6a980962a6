// Package reportgen generates reports from section-tree templates in
// Markdown, DOCX, or PDF format.
//
// # Quick Start
//
// Build a template, bind data, and render:
//
//	tpl := reportgen.NewTemplate("{{project_name}} Report", "", nil)
//	tpl.AddSection(reportgen.NewSection("Overview", "Project: {{project_name}}", 1))
//
//	svc := reportgen.New()
//	defer svc.Close()
//
//	result, err := svc.Render(ctx, reportgen.RenderRequest{
//	    Template: tpl,
//	    Data:     map[string]any{"project_name": "Demo"},
//	    Format:   reportgen.FormatMarkdown,
//	    Options:  reportgen.DefaultOptions(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename, result.Bytes, 0644)
//
// # Rendering Pipeline
//
// Rendering follows these stages:
//
//  1. Variable binding ({{name}}, {name}, ${name} placeholders, dotted
//     paths for nested data)
//  2. Markdown compilation (table of contents, fenced-code highlighting)
//  3. For DOCX and PDF: styled HTML stage via Goldmark, then a
//     format-specific backend (pandoc for DOCX, headless Chrome for PDF)
//
// Outputs are cached under a content hash of (template, data, format,
// options); identical requests are served from the cache without
// re-invoking any converter.
//
// # Named Templates
//
// Registry persists templates by name with a two-tier lookup: an on-disk
// JSON form (authoritative) backed by a SQLite record store. See
// OpenTemplateStore and NewRegistry.
//
// # Backend Requirements
//
// PDF generation requires Chrome/Chromium; the go-rod library downloads a
// managed Chromium on first run. Set ROD_NO_SANDBOX=1 in containers and
// ROD_BROWSER_BIN to use a pre-installed browser. DOCX generation requires
// the pandoc binary on PATH. A missing backend surfaces as
// ConversionUnavailableError naming the dependency; Markdown output has no
// external requirements.
package reportgen
