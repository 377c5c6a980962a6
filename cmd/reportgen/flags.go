package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all command-line flags.
type cliFlags struct {
	templatePath    string
	templateName    string
	projectTemplate bool
	saveAs          string

	dataPath      string
	format        string
	output        string
	chartDataPath string

	toc       bool
	highlight bool
	styles    bool
	charts    bool
	style     string

	config   string
	cacheDir string
	noCache  bool
	timeout  time.Duration

	listStyles bool
	verbose    bool
	version    bool

	fs *flag.FlagSet
}

// changed reports whether the named flag was given on the command line,
// distinguishing an explicit value from the flag's default.
func (f *cliFlags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// parseFlags parses command-line arguments into cliFlags.
func parseFlags(args []string) (*cliFlags, error) {
	flags := &cliFlags{}
	fs := flag.NewFlagSet("reportgen", flag.ContinueOnError)

	fs.StringVarP(&flags.templatePath, "template", "t", "", "path to a template JSON file")
	fs.StringVar(&flags.templateName, "use-template", "", "load a named template from the registry")
	fs.BoolVar(&flags.projectTemplate, "project-template", false, "use the built-in project report template")
	fs.StringVar(&flags.saveAs, "save-as", "", "save the template under this name in the registry")

	fs.StringVarP(&flags.dataPath, "data", "d", "", "path to a JSON file with template data")
	fs.StringVarP(&flags.format, "format", "f", "markdown", "output format: markdown, docx, or pdf")
	fs.StringVarP(&flags.output, "output", "o", "", "output path (empty = generated name in the output dir)")
	fs.StringVar(&flags.chartDataPath, "chart-data", "", "path to a JSON file with chart data")

	fs.BoolVar(&flags.toc, "toc", true, "include a table of contents")
	fs.BoolVar(&flags.highlight, "highlight", true, "include code highlighting")
	fs.BoolVar(&flags.styles, "styles", true, "apply a built-in stylesheet (docx/pdf)")
	fs.BoolVar(&flags.charts, "charts", false, "render chart data as tables")
	fs.StringVar(&flags.style, "style", "", "built-in stylesheet name")

	fs.StringVarP(&flags.config, "config", "c", "", "config file name or path")
	fs.StringVar(&flags.cacheDir, "cache-dir", "", "render cache directory")
	fs.BoolVar(&flags.noCache, "no-cache", false, "disable the render cache")
	fs.DurationVar(&flags.timeout, "timeout", 0, "conversion timeout (0 = default)")

	fs.BoolVar(&flags.listStyles, "list-styles", false, "list built-in stylesheets and exit")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	flags.fs = fs
	return flags, nil
}
