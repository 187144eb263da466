package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-readtime/internal/logging"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

// ErrDocumentRequired is returned when a nil document is handed to the service.
var ErrDocumentRequired = errors.New("markdown service: document is required")

// Processor runs transform stages over parsed documents.
type Processor interface {
	Process(ctx context.Context, doc *interfaces.Document) error
	ProcessAll(ctx context.Context, docs []*interfaces.Document) error
}

// Config controls how the Markdown service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service loads documents from a base directory and turns them into HTML,
// running the transform pipeline between parse and render.
type Service struct {
	cfg       Config
	engine    *Engine
	loader    *Loader
	processor Processor
	logger    interfaces.Logger
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithProcessor sets the transform pipeline. Without one documents are
// rendered as parsed.
func WithProcessor(processor Processor) ServiceOption {
	return func(s *Service) {
		s.processor = processor
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a Markdown service rooted at cfg.BasePath.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		engine: NewEngine(cfg.Parser),
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Engine exposes the goldmark engine used for parsing and rendering.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Load reads, transforms and renders a single document relative to the base
// path.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	doc, err := s.loader.LoadFile(ctx, s.normalisePath(path))
	if err != nil {
		return nil, err
	}
	if err := s.Process(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadDirectory reads every matching document under dir, transforms them in
// parallel and renders them. Documents come back sorted by path.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	start := time.Now()
	docs, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), opts)
	if err != nil {
		return nil, err
	}
	if err := s.ProcessAll(ctx, docs); err != nil {
		return nil, err
	}
	s.logger.Info("markdown directory loaded",
		"dir", dir,
		"documents", len(docs),
		"elapsed", time.Since(start),
	)
	return docs, nil
}

// Process parses doc when needed, runs the transform pipeline and stores the
// rendered HTML in doc.BodyHTML.
func (s *Service) Process(ctx context.Context, doc *interfaces.Document) error {
	if doc == nil {
		return ErrDocumentRequired
	}
	s.parse(doc)
	if s.processor != nil {
		if err := s.processor.Process(ctx, doc); err != nil {
			return err
		}
	}
	return s.render(doc)
}

// ProcessAll is Process for a batch, with the transform pass run by the
// pipeline's worker pool.
func (s *Service) ProcessAll(ctx context.Context, docs []*interfaces.Document) error {
	for _, doc := range docs {
		if doc == nil {
			return ErrDocumentRequired
		}
		s.parse(doc)
	}
	if s.processor != nil {
		if err := s.processor.ProcessAll(ctx, docs); err != nil {
			return err
		}
	}
	for _, doc := range docs {
		if err := s.render(doc); err != nil {
			return err
		}
	}
	return nil
}

// Render processes an in-memory markdown source, front matter included, and
// returns the resulting document.
func (s *Service) Render(ctx context.Context, source []byte) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := BuildDocument("", source, time.Time{})
	if err != nil {
		return nil, err
	}
	if err := s.Process(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) parse(doc *interfaces.Document) {
	if doc.Root == nil {
		doc.Root = s.engine.Parse(doc.Body)
	}
	if doc.Metadata == nil {
		doc.Metadata = interfaces.Metadata{}
	}
}

func (s *Service) render(doc *interfaces.Document) error {
	var buf bytes.Buffer
	if err := s.engine.Render(&buf, doc.Body, doc.Root); err != nil {
		return fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = buf.Bytes()
	logging.WithDocumentContext(s.logger, doc.FilePath, "render").Trace("document rendered", "bytes", buf.Len())
	return nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
