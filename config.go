package reportgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillforge/go-reportgen/internal/fileutil"
	"github.com/quillforge/go-reportgen/internal/hints"
	"github.com/quillforge/go-reportgen/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds all configuration for report generation.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Cache     CacheConfig     `yaml:"cache"`
	Templates TemplatesConfig `yaml:"templates"`
	Render    RenderConfig    `yaml:"render"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = working directory)
}

// CacheConfig defines render cache options.
type CacheConfig struct {
	Dir      string `yaml:"dir"`      // Cache directory (empty = user cache dir)
	Disabled bool   `yaml:"disabled"` // Disable the render cache entirely
}

// TemplatesConfig defines named template registry options.
type TemplatesConfig struct {
	Dir      string `yaml:"dir"`      // On-disk template directory
	Database string `yaml:"database"` // SQLite database path (empty = disk tier only)
}

// RenderConfig defines default formatting options, overridable per run.
type RenderConfig struct {
	IncludeTOC              bool   `yaml:"includeToc"`
	IncludeCodeHighlighting bool   `yaml:"includeCodeHighlighting"`
	IncludeStyles           bool   `yaml:"includeStyles"`
	Style                   string `yaml:"style"` // Built-in stylesheet name (empty = default)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			IncludeTOC:              true,
			IncludeCodeHighlighting: true,
			IncludeStyles:           true,
		},
	}
}

// Options converts the configured render defaults to Options.
func (c *Config) Options() Options {
	return Options{
		IncludeTOC:              c.Render.IncludeTOC,
		IncludeCodeHighlighting: c.Render.IncludeCodeHighlighting,
		IncludeStyles:           c.Render.IncludeStyles,
		Style:                   c.Render.Style,
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator it's treated as a file path;
// otherwise it's searched in the current directory and the user config
// directory. Returns an error when not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s%s", ErrConfigNotFound, configPath, hints.ForConfigNotFound())
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name.
// Extensions tried in order: .yaml, .yml.
// Locations tried in order: current directory, ~/.config/reportgen/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "reportgen", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound, strings.Join(triedPaths, ", "), hints.ForConfigNotFound())
}
