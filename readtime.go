// Package readtime builds static sites from markdown with reading-time
// metadata attached to every page.
package readtime

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-readtime/internal/di"
	"github.com/goliatone/go-readtime/internal/generator"
	"github.com/goliatone/go-readtime/internal/logging"
	"github.com/goliatone/go-readtime/internal/markdown"
	"github.com/goliatone/go-readtime/internal/pipeline"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

// MarkdownService exports the markdown loading and rendering service.
type MarkdownService = *markdown.Service

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// Pipeline exports the ordered transform stage runner.
type Pipeline = *pipeline.Pipeline

// BuildResult exports the generator build summary.
type BuildResult = generator.BuildResult

// StageFactory builds a transform stage for the pipeline.
type StageFactory = pipeline.Factory

// Option customises the module before services are wired.
type Option = di.Option

// WithLoggerProvider routes every service logger through provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithTemplate replaces the page template renderer.
func WithTemplate(renderer interfaces.TemplateRenderer) Option {
	return di.WithTemplate(renderer)
}

// WithStage registers a custom transform stage. It runs only when name is
// listed in Markdown.Plugins.
func WithStage(name string, factory StageFactory) Option {
	return di.WithStage(name, factory)
}

// ErrModuleRequired is returned when methods are called on a nil module.
var ErrModuleRequired = errors.New("readtime: module is not configured")

// BuildOptions controls a single site build.
type BuildOptions struct {
	// DryRun renders every page without touching the output directory.
	DryRun bool
}

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional
// overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration the module was built from.
func (m *Module) Config() Config {
	return m.container.Config
}

// Markdown returns the markdown service.
func (m *Module) Markdown() MarkdownService {
	return m.container.MarkdownService()
}

// Generator returns the static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Pipeline returns the configured transform pipeline.
func (m *Module) Pipeline() Pipeline {
	return m.container.Pipeline()
}

// Build loads every document under the content directory, runs the
// transform pipeline and hands the result to the generator.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if m == nil || m.container == nil {
		return nil, ErrModuleRequired
	}
	logger := logging.RootLogger(m.container.LoggerProvider())
	start := time.Now()

	docs, err := m.Markdown().LoadDirectory(ctx, ".", interfaces.LoadOptions{})
	if err != nil {
		logger.Error("content load failed", "error", err)
		return nil, err
	}

	result, err := m.Generator().Build(ctx, docs, generator.BuildOptions{DryRun: opts.DryRun})
	if err != nil {
		logger.Error("site build failed", "error", err)
		return result, err
	}

	logger.Info("site built",
		"documents", len(docs),
		"pages", result.PagesBuilt,
		"skipped", result.PagesSkipped,
		"dry_run", opts.DryRun,
		"elapsed", time.Since(start),
	)
	return result, nil
}
