package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	reportgen "github.com/quillforge/go-reportgen"
)

// Sentinel errors for CLI operations.
var (
	ErrNoTemplate    = errors.New("no template given: use --template, --use-template, or --project-template")
	ErrReadData      = errors.New("failed to read data file")
	ErrReadChartData = errors.New("failed to read chart data file")
)

// run executes one CLI invocation and writes human output to stdout.
func run(ctx context.Context, flags *cliFlags, log *zap.Logger, stdout io.Writer) error {
	if flags.listStyles {
		fmt.Fprintln(stdout, strings.Join(reportgen.StyleNames(), "\n"))
		return nil
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	registry, store, err := openRegistry(cfg, log)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	tpl, err := resolveTemplate(ctx, flags, registry)
	if err != nil {
		return err
	}

	if flags.saveAs != "" {
		path, err := registry.Save(tpl, flags.saveAs)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Saved template %q to %s\n", flags.saveAs, path)
	}

	data, err := readDataFile(flags.dataPath)
	if err != nil {
		return err
	}

	format, err := reportgen.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	opts, err := buildOptions(flags, cfg)
	if err != nil {
		return err
	}

	svc := newService(flags, cfg, log)
	defer svc.Close()

	outPath := outputPath(flags, cfg, format)
	result, err := svc.RenderToFile(ctx, reportgen.RenderRequest{
		Template: tpl,
		Data:     data,
		Format:   format,
		Options:  opts,
	}, outPath)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = result.Filename
	}
	if result.FromCache {
		fmt.Fprintf(stdout, "Created %s (from cache)\n", outPath)
	} else {
		fmt.Fprintf(stdout, "Created %s\n", outPath)
	}
	return nil
}

func loadConfig(flags *cliFlags) (*reportgen.Config, error) {
	if flags.config == "" {
		return reportgen.DefaultConfig(), nil
	}
	return reportgen.LoadConfig(flags.config)
}

// openRegistry wires the two-tier template registry: on-disk directory
// plus the optional SQLite store from config.
func openRegistry(cfg *reportgen.Config, log *zap.Logger) (*reportgen.Registry, *reportgen.SQLiteTemplateStore, error) {
	dir := cfg.Templates.Dir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "reportgen", "templates")
	}

	var store *reportgen.SQLiteTemplateStore
	if cfg.Templates.Database != "" {
		s, err := reportgen.OpenTemplateStore(cfg.Templates.Database)
		if err != nil {
			return nil, nil, err
		}
		store = s
	}

	if store != nil {
		return reportgen.NewRegistry(dir, store, log), store, nil
	}
	return reportgen.NewRegistry(dir, nil, log), nil, nil
}

func resolveTemplate(ctx context.Context, flags *cliFlags, registry *reportgen.Registry) (*reportgen.Template, error) {
	switch {
	case flags.templatePath != "":
		return reportgen.LoadTemplateFile(flags.templatePath)
	case flags.templateName != "":
		return registry.GetByName(ctx, flags.templateName)
	case flags.projectTemplate:
		return reportgen.DefaultProjectTemplate(), nil
	}
	return nil, ErrNoTemplate
}

func readDataFile(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := os.ReadFile(path) // #nosec G304 -- data path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadData, err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadData, err)
	}
	return data, nil
}

func buildOptions(flags *cliFlags, cfg *reportgen.Config) (reportgen.Options, error) {
	// Config supplies the render defaults; a flag overrides only when
	// given explicitly.
	opts := cfg.Options()
	if flags.changed("toc") {
		opts.IncludeTOC = flags.toc
	}
	if flags.changed("highlight") {
		opts.IncludeCodeHighlighting = flags.highlight
	}
	if flags.changed("styles") {
		opts.IncludeStyles = flags.styles
	}
	if flags.changed("charts") {
		opts.IncludeCharts = flags.charts
	}
	if flags.style != "" {
		opts.Style = flags.style
	}

	if flags.chartDataPath != "" {
		raw, err := os.ReadFile(flags.chartDataPath) // #nosec G304 -- chart data path is user-provided
		if err != nil {
			return opts, fmt.Errorf("%w: %v", ErrReadChartData, err)
		}
		var charts reportgen.ChartData
		if err := json.Unmarshal(raw, &charts); err != nil {
			return opts, fmt.Errorf("%w: %v", ErrReadChartData, err)
		}
		opts.ChartData = &charts
		opts.IncludeCharts = true
	}
	return opts, nil
}

func newService(flags *cliFlags, cfg *reportgen.Config, log *zap.Logger) *reportgen.Service {
	opts := []reportgen.Option{reportgen.WithLogger(log)}
	if flags.timeout > 0 {
		opts = append(opts, reportgen.WithTimeout(flags.timeout))
	}
	switch {
	case flags.noCache || cfg.Cache.Disabled:
		opts = append(opts, reportgen.WithCacheDisabled())
	case flags.cacheDir != "":
		opts = append(opts, reportgen.WithCacheDir(flags.cacheDir))
	case cfg.Cache.Dir != "":
		opts = append(opts, reportgen.WithCacheDir(cfg.Cache.Dir))
	}
	return reportgen.New(opts...)
}

func outputPath(flags *cliFlags, cfg *reportgen.Config, format reportgen.Format) string {
	if flags.output != "" {
		return flags.output
	}
	if cfg.Output.DefaultDir != "" {
		// Empty means "suggested filename in working dir"; anchor it to
		// the configured output dir instead.
		name := fmt.Sprintf("report_%s.%s", time.Now().Format("20060102_150405"), format.Extension())
		return filepath.Join(cfg.Output.DefaultDir, name)
	}
	return ""
}
