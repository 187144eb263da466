package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryPage    writeCategory = "page"
	categorySitemap writeCategory = "sitemap"
	categoryRobots  writeCategory = "robots"
	categoryFeed    writeCategory = "feed"
)

// writeFileRequest describes a file write operation routed through the artifact writer.
type writeFileRequest struct {
	// Path is slash separated and relative to the writer root.
	Path     string
	Content  io.Reader
	Category writeCategory
	Checksum string
}

// artifactWriter abstracts where generator outputs end up.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	RemoveAll(ctx context.Context) error
}

func newArtifactWriter(root string, dryRun bool) artifactWriter {
	if dryRun {
		return noopWriter{}
	}
	return &fsWriter{root: filepath.Clean(root)}
}

// fsWriter writes artifacts below root on the local filesystem.
type fsWriter struct {
	root string
}

func (w *fsWriter) resolve(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return w.root, nil
	}
	full := filepath.Join(w.root, filepath.FromSlash(rel))
	if full != w.root && !strings.HasPrefix(full, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("generator: path %s escapes output directory", rel)
	}
	return full, nil
}

func (w *fsWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := w.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return fmt.Errorf("generator: ensure dir %s: %w", full, err)
	}
	return nil
}

func (w *fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := w.resolve(req.Path)
	if err != nil {
		return err
	}

	file, err := os.Create(full) //nolint:gosec // path confined to the output directory
	if err != nil {
		return fmt.Errorf("generator: create %s: %w", full, err)
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		_ = file.Close()
		return fmt.Errorf("generator: write %s %s: %w", req.Category, full, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("generator: close %s: %w", full, err)
	}
	return nil
}

func (w *fsWriter) RemoveAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.root == "" || w.root == "." || w.root == string(filepath.Separator) {
		return fmt.Errorf("generator: refusing to clean %q", w.root)
	}
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("generator: clean %s: %w", w.root, err)
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }

func (noopWriter) RemoveAll(context.Context) error { return nil }
