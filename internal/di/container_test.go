package di_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-readtime/internal/di"
	"github.com/goliatone/go-readtime/internal/generator"
	"github.com/goliatone/go-readtime/internal/pipeline"
	"github.com/goliatone/go-readtime/internal/runtimeconfig"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.ContentDir = t.TempDir()
	cfg.Generator.OutputDir = t.TempDir()
	return cfg
}

func TestNewContainer_DefaultStageOrder(t *testing.T) {
	rec := newRecordingProvider()
	c, err := di.NewContainer(testConfig(t), di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	got := strings.Join(c.Pipeline().Stages(), ",")
	if got != "toc,reading-time,collapse" {
		t.Fatalf("unexpected stage order %s", got)
	}
	if c.MarkdownService() == nil || c.GeneratorService() == nil || c.TemplateRenderer() == nil {
		t.Fatalf("expected services to be wired")
	}

	entry := rec.find("container configured")
	if entry == nil {
		t.Fatalf("expected container configured entry, got %#v", rec.entries)
	}
	if entry.fields["module"] != "readtime" || entry.fields["plugins"] != got {
		t.Fatalf("unexpected log fields %#v", entry.fields)
	}
}

func TestNewContainer_CustomStage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Markdown.Plugins = []string{"word-marker", "reading-time"}

	var called bool
	stage := di.WithStage("word-marker", func(interfaces.Logger) (interfaces.Transformer, error) {
		return interfaces.TransformerFunc{StageName: "word-marker", Fn: func(_ context.Context, doc *interfaces.Document) error {
			called = true
			doc.Metadata["marked"] = true
			return nil
		}}, nil
	})

	c, err := di.NewContainer(cfg, stage, di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	doc, err := c.MarkdownService().Render(context.Background(), []byte("one two three"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !called || doc.Metadata["marked"] != true {
		t.Fatalf("expected custom stage to run, metadata %#v", doc.Metadata)
	}
	if _, ok := doc.Metadata["readingTime"]; !ok {
		t.Fatalf("expected reading time after custom stage")
	}
}

func TestNewContainer_UnknownStage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Markdown.Plugins = []string{"remark-math"}

	_, err := di.NewContainer(cfg, di.WithLoggerProvider(newRecordingProvider()))
	if !errors.Is(err, pipeline.ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Provider = "syslog"
	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestNewContainer_MissingContentDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Markdown.ContentDir = cfg.Markdown.ContentDir + "/missing"
	if _, err := di.NewContainer(cfg, di.WithLoggerProvider(newRecordingProvider())); err == nil {
		t.Fatal("expected error for missing content directory")
	}
}

func TestNewLoggerProvider(t *testing.T) {
	if _, err := di.NewLoggerProvider(runtimeconfig.LoggingConfig{Provider: "gologger", Level: "debug", Format: "json"}); err != nil {
		t.Fatalf("gologger provider: %v", err)
	}
	if _, err := di.NewLoggerProvider(runtimeconfig.LoggingConfig{Provider: "console", Level: "warn"}); err != nil {
		t.Fatalf("console provider: %v", err)
	}
	if _, err := di.NewLoggerProvider(runtimeconfig.LoggingConfig{Provider: "console", Level: "loud"}); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{entries: []recordedEntry{}}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{
		provider: p,
		fields: map[string]any{
			"logger": name,
		},
	}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("trace", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("debug", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("info", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("error", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("fatal", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	for k, v := range l.fields {
		fields[k] = v
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	l.provider.record(recordedEntry{level: level, msg: msg, fields: fields})
}

func TestNewContainer_PaddedReadingTimeKeyReachesPages(t *testing.T) {
	cfg := testConfig(t)
	cfg.Markdown.ReadingTime.MetadataKey = " rt "
	post := "---\ntitle: Padded\n---\n" + strings.Repeat("word ", 250) + "\n"
	if err := os.WriteFile(filepath.Join(cfg.Markdown.ContentDir, "padded.md"), []byte(post), 0o644); err != nil {
		t.Fatalf("write post: %v", err)
	}

	c, err := di.NewContainer(cfg, di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	ctx := context.Background()
	docs, err := c.MarkdownService().LoadDirectory(ctx, ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if _, ok := docs[0].Metadata["rt"]; !ok {
		t.Fatalf("expected metric under trimmed key, got %#v", docs[0].Metadata)
	}

	result, err := c.GeneratorService().Build(ctx, docs, generator.BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Rendered) != 1 || !strings.Contains(result.Rendered[0].HTML, "2 min read") {
		t.Fatalf("expected reading time label on page, got %+v", result.Rendered)
	}
}
