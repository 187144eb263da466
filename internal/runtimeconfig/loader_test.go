package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-readtime/internal/runtimeconfig"
)

const sampleConfig = `
site:
  url: https://example.com
  title: Notes
markdown:
  content_dir: posts
  plugins: [reading-time]
  reading_time:
    words_per_minute: 250
    exclude_code: true
generator:
  output_dir: public
  workers: 4
logging:
  provider: gologger
  format: json
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	cfg, err := runtimeconfig.LoadFile(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Site.URL != "https://example.com" || cfg.Markdown.ContentDir != "posts" {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if len(cfg.Markdown.Plugins) != 1 || cfg.Markdown.Plugins[0] != "reading-time" {
		t.Fatalf("expected plugin list replaced, got %v", cfg.Markdown.Plugins)
	}
	if cfg.Markdown.ReadingTime.WordsPerMinute != 250 || !cfg.Markdown.ReadingTime.ExcludeCode {
		t.Fatalf("unexpected reading time options: %+v", cfg.Markdown.ReadingTime)
	}
	if cfg.Markdown.ReadingTime.MetadataKey != "readingTime" {
		t.Fatalf("expected default metadata key to survive, got %q", cfg.Markdown.ReadingTime.MetadataKey)
	}
	if cfg.Markdown.Pattern != "*.md" || !cfg.Generator.GenerateSitemap {
		t.Fatalf("expected untouched keys to keep defaults: %+v", cfg)
	}
	if cfg.Generator.OutputDir != "public" || cfg.Generator.Workers != 4 {
		t.Fatalf("unexpected generator config: %+v", cfg.Generator)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := runtimeconfig.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, runtimeconfig.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	_, err := runtimeconfig.LoadFile(writeConfig(t, "markdown:\n  content_dri: posts\n"))
	if err == nil || !strings.Contains(err.Error(), "content_dri") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	cfg, err := runtimeconfig.LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Markdown.ContentDir != "content" {
		t.Fatalf("expected defaults for empty file, got %+v", cfg.Markdown)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, used, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path || cfg.Site.Title != "Notes" {
		t.Fatalf("expected config from %s, got %s (%+v)", path, used, cfg.Site)
	}

	if _, _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, runtimeconfig.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound for missing explicit path, got %v", err)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "generator:\n  workers: -2\n")
	if _, _, err := runtimeconfig.Load(path); !errors.Is(err, runtimeconfig.ErrGeneratorWorkersInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := runtimeconfig.DefaultConfigPath()
	if filepath.Base(path) != "config.yaml" || filepath.Base(filepath.Dir(path)) != "readtime" {
		t.Fatalf("unexpected default config path %s", path)
	}
}
