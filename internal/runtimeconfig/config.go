package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-readtime/internal/collapse"
	"github.com/goliatone/go-readtime/internal/readingtime"
	"github.com/goliatone/go-readtime/internal/toc"
)

var (
	ErrMarkdownContentDirRequired = errors.New("readtime config: markdown content directory is required")
	ErrMarkdownPluginInvalid      = errors.New("readtime config: markdown plugin list is invalid")
	ErrMarkdownOptionsInvalid     = errors.New("readtime config: markdown stage options are invalid")
	ErrGeneratorOutputDirRequired = errors.New("readtime config: generator output directory is required")
	ErrGeneratorWorkersInvalid    = errors.New("readtime config: generator workers must be zero or positive")
	ErrSiteURLInvalid             = errors.New("readtime config: site url must be an absolute http(s) url")
	ErrLoggingProviderRequired    = errors.New("readtime config: logging provider is required")
	ErrLoggingProviderUnknown     = errors.New("readtime config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("readtime config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("readtime config: logging format is invalid")
)

// DefaultPlugins is the transform stage order used when none is configured.
var DefaultPlugins = []string{toc.StageName, readingtime.StageName, collapse.StageName}

// Config aggregates everything a site build needs.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Generator GeneratorConfig `yaml:"generator"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	// URL is the public base URL used for sitemap and robots entries.
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
}

// MarkdownConfig captures filesystem, parser and transform stage behaviour.
type MarkdownConfig struct {
	ContentDir string               `yaml:"content_dir"`
	Pattern    string               `yaml:"pattern"`
	Recursive  bool                 `yaml:"recursive"`
	Parser     MarkdownParserConfig `yaml:"parser"`
	// Plugins lists transform stages in execution order.
	Plugins     []string            `yaml:"plugins"`
	ReadingTime readingtime.Options `yaml:"reading_time"`
	TOC         toc.Options         `yaml:"toc"`
	Collapse    collapse.Options    `yaml:"collapse"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	OutputDir string `yaml:"output_dir"`
	// RoutePrefix is the path segment pages are published under.
	RoutePrefix string `yaml:"route_prefix"`
	// Templates is a glob of html/template files layered over the built-in
	// page layout.
	Templates       string `yaml:"templates"`
	CleanBuild      bool   `yaml:"clean_build"`
	GenerateSitemap bool   `yaml:"sitemap"`
	GenerateRobots  bool   `yaml:"robots"`
	GenerateFeed    bool   `yaml:"feed"`
	Workers         int    `yaml:"workers"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the defaults a site starts from.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title: "readtime",
		},
		Markdown: MarkdownConfig{
			ContentDir:  "content",
			Pattern:     "*.md",
			Recursive:   true,
			Plugins:     append([]string(nil), DefaultPlugins...),
			ReadingTime: readingtime.DefaultOptions(),
			TOC:         toc.Options{Heading: toc.DefaultHeading, MaxDepth: toc.DefaultMaxDepth},
			Collapse:    collapse.Options{Test: collapse.DefaultTest},
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			RoutePrefix:     "posts",
			CleanBuild:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeed:    true,
			Workers:         0,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if raw := strings.TrimSpace(cfg.Site.URL); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("%w: %s", ErrSiteURLInvalid, raw)
		}
	}
	if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if err := validatePlugins(cfg.Markdown.Plugins); err != nil {
		return err
	}
	if err := cfg.Markdown.ReadingTime.Validate(); err != nil {
		return fmt.Errorf("%w: reading_time: %w", ErrMarkdownOptionsInvalid, err)
	}
	if err := cfg.Markdown.TOC.Validate(); err != nil {
		return fmt.Errorf("%w: toc: %w", ErrMarkdownOptionsInvalid, err)
	}
	if err := cfg.Markdown.Collapse.Validate(); err != nil {
		return fmt.Errorf("%w: collapse: %w", ErrMarkdownOptionsInvalid, err)
	}
	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if cfg.Generator.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrGeneratorWorkersInvalid, cfg.Generator.Workers)
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// validatePlugins rejects blank and repeated names. Unknown names are left to
// the stage registry, which knows what is installed.
func validatePlugins(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return fmt.Errorf("%w: blank entry at position %d", ErrMarkdownPluginInvalid, i)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s listed twice", ErrMarkdownPluginInvalid, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
