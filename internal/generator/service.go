package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-readtime/internal/logging"
	"github.com/goliatone/go-readtime/internal/readingtime"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

var (
	// ErrOutputDirRequired indicates the generator has nowhere to write.
	ErrOutputDirRequired = errors.New("generator: output directory is required")
	// ErrDuplicateRoute indicates two documents resolve to the same route.
	ErrDuplicateRoute   = errors.New("generator: duplicate route")
	errRendererRequired = errors.New("generator: template renderer is required")
)

// DefaultRoutePrefix is the path segment pages are published under.
const DefaultRoutePrefix = "posts"

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, docs []*interfaces.Document, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	RoutePrefix     string
	Layout          string
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeed    bool
	Workers         int
	// ReadingTimeKey is the metadata key the reading-time stage writes to.
	ReadingTimeKey string
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// DryRun renders every page but writes nothing.
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID      string
	PagesBuilt   int
	PagesSkipped int
	FilesWritten int
	BytesWritten int64
	Duration     time.Duration
	Rendered     []RenderedPage
	Diagnostics  []RenderDiagnostic
	Errors       []error
	DryRun       bool
}

// Dependencies lists the collaborators the generator needs.
type Dependencies struct {
	Renderer interfaces.TemplateRenderer
	Logger   interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if strings.TrimSpace(cfg.Layout) == "" {
		cfg.Layout = DefaultLayout
	}
	cfg.ReadingTimeKey = strings.TrimSpace(cfg.ReadingTimeKey)
	if cfg.ReadingTimeKey == "" {
		cfg.ReadingTimeKey = readingtime.DefaultMetadataKey
	}
	return &service{
		cfg:   cfg,
		deps:  deps,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type service struct {
	cfg   Config
	deps  Dependencies
	now   func() time.Time
	newID func() string
}

type pageJob struct {
	doc   *interfaces.Document
	route string
}

func (s *service) Build(ctx context.Context, docs []*interfaces.Document, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" && !opts.DryRun {
		return nil, ErrOutputDirRequired
	}

	start := time.Now()
	result := &BuildResult{
		BuildID:     s.newID(),
		DryRun:      opts.DryRun,
		Diagnostics: make([]RenderDiagnostic, 0, len(docs)),
	}
	logger := logging.WithBuildID(s.deps.Logger, result.BuildID)
	logger.Info("site build started", "documents", len(docs), "dry_run", opts.DryRun)

	build := BuildMetadata{ID: result.BuildID, GeneratedAt: s.now().UTC(), DryRun: opts.DryRun}
	site := SiteMetadata{BaseURL: strings.TrimRight(s.cfg.BaseURL, "/"), Title: s.cfg.SiteTitle}

	jobs, errorsSlice := s.plan(docs, result)

	var (
		mu       sync.Mutex
		rendered = make([]RenderedPage, 0, len(jobs))
	)
	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	s.renderConcurrently(ctx, site, build, jobs, collect)
	if err := ctx.Err(); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	sort.Slice(rendered, func(i, j int) bool {
		return rendered[i].Route < rendered[j].Route
	})

	if len(errorsSlice) == 0 {
		writer := newArtifactWriter(s.cfg.OutputDir, opts.DryRun)
		if err := s.persist(ctx, writer, site, build, rendered, result); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		logger.Error("site build failed", "errors", len(errorsSlice), "elapsed", result.Duration)
		return result, errors.Join(errorsSlice...)
	}

	logger.Info("site build completed",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"files_written", result.FilesWritten,
		"elapsed", result.Duration,
	)
	return result, nil
}

// plan drops drafts, assigns routes and reports route collisions.
func (s *service) plan(docs []*interfaces.Document, result *BuildResult) ([]pageJob, []error) {
	prefix := s.cfg.RoutePrefix
	jobs := make([]pageJob, 0, len(docs))
	owners := map[string]string{}
	var errs []error

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		route := buildRoute(prefix, doc)
		if doc.FrontMatter.Draft {
			result.PagesSkipped++
			result.Diagnostics = append(result.Diagnostics, RenderDiagnostic{
				SourcePath: doc.FilePath,
				Route:      route,
				Skipped:    true,
			})
			continue
		}
		if owner, ok := owners[route]; ok {
			errs = append(errs, fmt.Errorf("%w: %s used by %s and %s", ErrDuplicateRoute, route, owner, doc.FilePath))
			continue
		}
		owners[route] = doc.FilePath
		jobs = append(jobs, pageJob{doc: doc, route: route})
	}
	return jobs, errs
}

func (s *service) renderConcurrently(
	ctx context.Context,
	site SiteMetadata,
	build BuildMetadata,
	jobs []pageJob,
	collect func(renderOutcome),
) {
	workers := s.effectiveWorkerCount(len(jobs))
	queue := make(chan pageJob)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				collect(s.renderPage(ctx, site, build, job))
			}
		}()
	}

dispatch:
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			break dispatch
		case queue <- job:
		}
	}
	close(queue)
	wg.Wait()
}

func (s *service) renderPage(ctx context.Context, site SiteMetadata, build BuildMetadata, job pageJob) renderOutcome {
	start := time.Now()
	diagnostic := RenderDiagnostic{SourcePath: job.doc.FilePath, Route: job.route}

	if err := ctx.Err(); err != nil {
		diagnostic.Err = err
		return renderOutcome{diagnostic: diagnostic, err: err}
	}

	page := newPageContext(job.doc, job.route, s.cfg.ReadingTimeKey)
	data := TemplateContext{
		Site:    site,
		Page:    page,
		Build:   build,
		Helpers: newTemplateHelpers(site.BaseURL),
	}

	html, err := s.deps.Renderer.Render(s.cfg.Layout, data)
	diagnostic.Duration = time.Since(start)
	if err != nil {
		err = fmt.Errorf("generator: render %s: %w", job.doc.FilePath, err)
		diagnostic.Err = err
		return renderOutcome{diagnostic: diagnostic, err: err}
	}

	logging.WithDocumentContext(s.deps.Logger, job.doc.FilePath, "render").
		Debug("page rendered", "route", job.route, "reading_time", page.ReadingTime.Text)

	return renderOutcome{
		diagnostic: diagnostic,
		page: RenderedPage{
			SourcePath:   job.doc.FilePath,
			Route:        job.route,
			Output:       buildOutputPath(job.route),
			HTML:         html,
			Title:        page.Title,
			Description:  page.Description,
			PubDate:      page.PubDate,
			LastModified: firstNonZeroTime(page.LastModified(), job.doc.LastModified),
			Duration:     diagnostic.Duration,
			Checksum:     computeHashFromString(html),
		},
	}
}

// persist writes pages followed by the sitemap, robots.txt and feed. With
// a dry run the writer discards everything but the counters still move.
func (s *service) persist(
	ctx context.Context,
	writer artifactWriter,
	site SiteMetadata,
	build BuildMetadata,
	pages []RenderedPage,
	result *BuildResult,
) error {
	if s.cfg.CleanBuild {
		if err := writer.RemoveAll(ctx); err != nil {
			return err
		}
	}
	if err := writer.EnsureDir(ctx, ""); err != nil {
		return err
	}

	dirCache := map[string]struct{}{}
	write := func(rel, content string, category writeCategory) error {
		if err := ensureDir(ctx, writer, dirCache, path.Dir(rel)); err != nil {
			return err
		}
		if err := writer.WriteFile(ctx, writeFileRequest{
			Path:     rel,
			Content:  strings.NewReader(content),
			Category: category,
			Checksum: computeHashFromString(content),
		}); err != nil {
			return err
		}
		result.FilesWritten++
		result.BytesWritten += int64(len(content))
		return nil
	}

	for _, page := range pages {
		if err := write(page.Output, page.HTML, categoryPage); err != nil {
			return err
		}
	}
	if s.cfg.GenerateSitemap {
		if err := write("sitemap.xml", buildSitemap(site.BaseURL, pages, build.GeneratedAt), categorySitemap); err != nil {
			return err
		}
	}
	if s.cfg.GenerateRobots {
		if err := write("robots.txt", buildRobots(site.BaseURL, s.cfg.GenerateSitemap), categoryRobots); err != nil {
			return err
		}
	}
	if s.cfg.GenerateFeed {
		feed := buildRSSFeed(site, buildFeedItems(site.BaseURL, pages), build.GeneratedAt)
		if err := write(feedPath, feed, categoryFeed); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes the output directory.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if err := newArtifactWriter(s.cfg.OutputDir, false).RemoveAll(ctx); err != nil {
		return err
	}
	s.deps.Logger.Info("output directory removed", "dir", s.cfg.OutputDir)
	return nil
}

func (s *service) effectiveWorkerCount(jobs int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > jobs {
		workers = jobs
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if _, ok := cache[dir]; ok {
		return nil
	}
	if err := writer.EnsureDir(ctx, dir); err != nil {
		return err
	}
	cache[dir] = struct{}{}
	return nil
}

func computeHashFromString(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
