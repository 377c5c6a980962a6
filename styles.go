package reportgen

import "sort"

// DefaultStyle is the stylesheet used when Options.Style is empty.
const DefaultStyle = "default"

// Built-in stylesheets for the HTML stage feeding the DOCX and PDF
// converters: heading colors, table borders, monospace code blocks.
// Styling is deliberately limited to this handful of sheets.
var builtinStyles = map[string]string{
	"default": `
body { font-family: 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #24292e; max-width: 52em; margin: 0 auto; padding: 1em; }
h1 { color: #1a365d; border-bottom: 2px solid #2b6cb0; padding-bottom: 0.3em; }
h2 { color: #2c5282; border-bottom: 1px solid #e2e8f0; padding-bottom: 0.2em; }
h3, h4, h5, h6 { color: #2d3748; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #cbd5e0; padding: 0.4em 0.8em; text-align: left; }
th { background-color: #edf2f7; }
pre { background-color: #f6f8fa; padding: 1em; overflow-x: auto; border-radius: 4px; }
code { font-family: 'SFMono-Regular', Consolas, Menlo, monospace; font-size: 0.92em; }
blockquote { border-left: 4px solid #cbd5e0; margin-left: 0; padding-left: 1em; color: #4a5568; }
`,
	"professional": `
body { font-family: Georgia, 'Times New Roman', serif; line-height: 1.7; color: #1a202c; max-width: 48em; margin: 0 auto; padding: 1.5em; }
h1 { color: #1a202c; font-size: 1.9em; border-bottom: 3px double #718096; padding-bottom: 0.4em; }
h2 { color: #2d3748; font-size: 1.5em; }
h3, h4, h5, h6 { color: #4a5568; }
table { border-collapse: collapse; width: 100%; margin: 1.2em 0; }
th, td { border: 1px solid #a0aec0; padding: 0.5em 0.9em; }
th { background-color: #e2e8f0; }
pre { background-color: #f7fafc; border: 1px solid #e2e8f0; padding: 1em; overflow-x: auto; }
code { font-family: 'Courier New', Courier, monospace; font-size: 0.9em; }
`,
	"compact": `
body { font-family: Arial, sans-serif; line-height: 1.4; color: #222; padding: 0.5em; font-size: 0.95em; }
h1, h2, h3, h4, h5, h6 { color: #234; margin: 0.6em 0 0.3em; }
table { border-collapse: collapse; width: 100%; margin: 0.5em 0; }
th, td { border: 1px solid #999; padding: 0.2em 0.5em; }
th { background-color: #eee; }
pre { background-color: #f4f4f4; padding: 0.5em; overflow-x: auto; }
code { font-family: Consolas, Menlo, monospace; font-size: 0.9em; }
`,
}

// StyleNames lists the built-in stylesheet names in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(builtinStyles))
	for name := range builtinStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// styleSheet resolves a stylesheet name, defaulting to DefaultStyle for
// the empty string. Unknown names are rejected earlier by request
// validation; this returns the default as a safety net.
func styleSheet(name string) string {
	if name == "" {
		name = DefaultStyle
	}
	if css, ok := builtinStyles[name]; ok {
		return css
	}
	return builtinStyles[DefaultStyle]
}
