package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-readtime/internal/logging"
	"github.com/goliatone/go-readtime/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		Clock:    func() time.Time { return now },
		MinLevel: console.LevelDebug,
	})

	logger := logging.ModuleLogger(provider, "readtime.pipeline")
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"build_id": "b-42",
	})
	logger = logger.WithContext(ctx)

	logger.Info("stage.completed",
		"stage", "reading-time",
		"elapsed", 1500*time.Millisecond,
		"path", "posts/my post.md",
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z INFO stage.completed build_id=b-42 elapsed=1.5s logger=readtime.pipeline module=readtime.pipeline path="posts/my post.md" stage=reading-time`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		MinLevel: console.LevelInfo,
	})

	logger := provider.GetLogger("readtime.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Warn("included.warn", "err", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.warn") || !strings.Contains(lines[0], "err=boom") {
		t.Fatalf("expected warn entry, got %s", lines[0])
	}
}

func TestConsoleLogger_DanglingArgument(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("x").Info("odd", "key", "value", "orphan")

	if !strings.Contains(buf.String(), "field_1=orphan") {
		t.Fatalf("expected orphan argument to be kept, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if level, ok := console.ParseLevel("WARNING"); !ok || level != console.LevelWarn {
		t.Fatalf("expected warn, got %v %v", level, ok)
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}
