// Package pipeline runs an explicit, ordered list of transform stages over
// markdown documents.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-readtime/internal/logging"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

var (
	// ErrStageRequired is returned when a nil stage is handed to New.
	ErrStageRequired = errors.New("pipeline: stage is required")
	// ErrDuplicateStage is returned when two stages share a name.
	ErrDuplicateStage = errors.New("pipeline: duplicate stage name")
)

const (
	stageFailedCode     = "PIPELINE_STAGE_FAILED"
	contextCanceledCode = "PIPELINE_CONTEXT_CANCELED"
	contextTimeoutCode  = "PIPELINE_CONTEXT_TIMEOUT"
)

// Pipeline applies its stages in order, once per document. It holds no
// per-document state, so one instance can serve concurrent builds.
type Pipeline struct {
	stages  []interfaces.Transformer
	logger  interfaces.Logger
	workers int
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithWorkers bounds how many documents ProcessAll transforms at once. Values
// below one select runtime.GOMAXPROCS(0).
func WithWorkers(workers int) Option {
	return func(p *Pipeline) {
		p.workers = workers
	}
}

// New returns a pipeline running stages in the given order.
func New(stages []interfaces.Transformer, opts ...Option) (*Pipeline, error) {
	seen := make(map[string]struct{}, len(stages))
	for i, stage := range stages {
		if stage == nil {
			return nil, fmt.Errorf("%w: position %d", ErrStageRequired, i)
		}
		name := strings.TrimSpace(stage.Name())
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStage, name)
		}
		seen[name] = struct{}{}
	}

	p := &Pipeline{
		stages: append([]interfaces.Transformer(nil), stages...),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.workers < 1 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	return p, nil
}

// Stages lists stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, stage := range p.stages {
		names = append(names, stage.Name())
	}
	return names
}

// Process runs every stage over doc. The first failing stage stops the run;
// the returned error carries the command category and the stage name.
func (p *Pipeline) Process(ctx context.Context, doc *interfaces.Document) error {
	if doc == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return wrapContextError(err)
		}

		logger := logging.WithDocumentContext(p.logger, doc.FilePath, stage.Name())
		start := time.Now()
		if err := stage.Transform(ctx, doc); err != nil {
			logger.Error("transform stage failed", "error", err)
			return wrapStageError(stage.Name(), doc.FilePath, err)
		}
		logger.Trace("transform stage completed", "elapsed", time.Since(start))
	}
	return nil
}

// ProcessAll transforms docs concurrently with at most the configured number
// of workers. Each document is handled by exactly one goroutine. The first
// error cancels the remaining work and is returned.
func (p *Pipeline) ProcessAll(ctx context.Context, docs []*interfaces.Document) error {
	if ctx == nil {
		ctx = context.Background()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, doc := range docs {
		g.Go(func() error {
			return p.Process(ctx, doc)
		})
	}

	err := g.Wait()
	p.logger.Debug("pipeline batch finished",
		"documents", len(docs),
		"workers", p.workers,
		"failed", err != nil,
	)
	return err
}

func wrapStageError(stage, path string, err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, fmt.Sprintf("transform stage %s failed for %s", stage, path)).
		WithTextCode(stageFailedCode)
}

func wrapContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "pipeline deadline exceeded").
			WithTextCode(contextTimeoutCode)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "pipeline cancelled").
		WithTextCode(contextCanceledCode)
}
