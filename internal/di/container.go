// Package di assembles the runtime services of a site build from
// configuration: logger provider, transform stage registry, pipeline,
// markdown service and generator.
package di

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-readtime/internal/collapse"
	"github.com/goliatone/go-readtime/internal/generator"
	"github.com/goliatone/go-readtime/internal/logging"
	"github.com/goliatone/go-readtime/internal/logging/console"
	"github.com/goliatone/go-readtime/internal/logging/gologger"
	"github.com/goliatone/go-readtime/internal/markdown"
	"github.com/goliatone/go-readtime/internal/pipeline"
	"github.com/goliatone/go-readtime/internal/readingtime"
	"github.com/goliatone/go-readtime/internal/runtimeconfig"
	"github.com/goliatone/go-readtime/internal/toc"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

// Container holds the services wired for one configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	template       interfaces.TemplateRenderer
	extraStages    []namedFactory

	registry    *pipeline.Registry
	pipeline    *pipeline.Pipeline
	markdownSvc *markdown.Service
	generator   generator.Service
}

type namedFactory struct {
	name    string
	factory pipeline.Factory
}

// Option mutates the container prior to service wiring.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithTemplate overrides the page template renderer.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		if tr != nil {
			c.template = tr
		}
	}
}

// WithStage registers an additional transform stage factory. The stage only
// runs when its name appears in markdown.plugins.
func WithStage(name string, factory pipeline.Factory) Option {
	return func(c *Container) {
		c.extraStages = append(c.extraStages, namedFactory{name: name, factory: factory})
	}
}

// NewContainer validates cfg and wires every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLogging,
		c.configureRegistry,
		c.configurePipeline,
		c.configureMarkdown,
		c.configureGenerator,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	logging.RootLogger(c.loggerProvider).Debug("container configured",
		"plugins", strings.Join(c.pipeline.Stages(), ","),
		"content_dir", cfg.Markdown.ContentDir,
		"output_dir", cfg.Generator.OutputDir,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	provider, err := NewLoggerProvider(c.Config.Logging)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

// NewLoggerProvider builds the provider selected by cfg.Provider.
func NewLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "console", "":
		level, ok := console.ParseLevel(cfg.Level)
		if !ok {
			return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingLevelInvalid, cfg.Level)
		}
		return console.NewProvider(console.Options{MinLevel: level}), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
}

func (c *Container) configureRegistry() error {
	md := c.Config.Markdown
	registry := pipeline.NewRegistry()

	builtins := []namedFactory{
		{toc.StageName, func(logger interfaces.Logger) (interfaces.Transformer, error) {
			return toc.New(md.TOC, logger)
		}},
		{readingtime.StageName, func(logger interfaces.Logger) (interfaces.Transformer, error) {
			return readingtime.New(md.ReadingTime, readingtime.WithLogger(logger))
		}},
		{collapse.StageName, func(logger interfaces.Logger) (interfaces.Transformer, error) {
			return collapse.New(md.Collapse, logger)
		}},
	}
	for _, entry := range append(builtins, c.extraStages...) {
		if err := registry.Register(entry.name, entry.factory); err != nil {
			return err
		}
	}
	c.registry = registry
	return nil
}

func (c *Container) configurePipeline() error {
	logger := logging.PipelineLogger(c.loggerProvider)
	stages, err := c.registry.Build(c.Config.Markdown.Plugins, logger)
	if err != nil {
		return err
	}
	p, err := pipeline.New(stages,
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(c.Config.Generator.Workers),
	)
	if err != nil {
		return err
	}
	c.pipeline = p
	return nil
}

func (c *Container) configureMarkdown() error {
	md := c.Config.Markdown
	svc, err := markdown.NewService(markdown.Config{
		BasePath:  md.ContentDir,
		Pattern:   md.Pattern,
		Recursive: md.Recursive,
		Parser: interfaces.ParseOptions{
			Extensions: append([]string(nil), md.Parser.Extensions...),
			HardWraps:  md.Parser.HardWraps,
			SafeMode:   md.Parser.SafeMode,
		},
	},
		markdown.WithProcessor(c.pipeline),
		markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) configureGenerator() error {
	gen := c.Config.Generator
	if c.template == nil {
		if glob := strings.TrimSpace(gen.Templates); glob != "" {
			renderer, err := generator.ParseTemplateGlob(glob)
			if err != nil {
				return err
			}
			c.template = renderer
		} else {
			c.template = generator.DefaultTemplateRenderer()
		}
	}

	c.generator = generator.NewService(generator.Config{
		OutputDir:       gen.OutputDir,
		BaseURL:         c.Config.Site.URL,
		SiteTitle:       c.Config.Site.Title,
		RoutePrefix:     gen.RoutePrefix,
		CleanBuild:      gen.CleanBuild,
		GenerateSitemap: gen.GenerateSitemap,
		GenerateRobots:  gen.GenerateRobots,
		GenerateFeed:    gen.GenerateFeed,
		Workers:         gen.Workers,
		ReadingTimeKey:  strings.TrimSpace(c.Config.Markdown.ReadingTime.MetadataKey),
	}, generator.Dependencies{
		Renderer: c.template,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	})
	return nil
}

// LoggerProvider returns the provider services log through.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// TemplateRenderer returns the page template renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.template
}

// Registry returns the transform stage registry.
func (c *Container) Registry() *pipeline.Registry {
	return c.registry
}

// Pipeline returns the configured transform pipeline.
func (c *Container) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// MarkdownService returns the markdown service.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// GeneratorService returns the site generator.
func (c *Container) GeneratorService() generator.Service {
	return c.generator
}
