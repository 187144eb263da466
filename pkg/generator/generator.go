// Package generator exposes the static site generation API for hosts that
// feed their own processed documents to the page writer.
package generator

import internal "github.com/goliatone/go-readtime/internal/generator"

type (
	Service              = internal.Service
	Config               = internal.Config
	BuildOptions         = internal.BuildOptions
	BuildResult          = internal.BuildResult
	RenderedPage         = internal.RenderedPage
	RenderDiagnostic     = internal.RenderDiagnostic
	Dependencies         = internal.Dependencies
	TemplateContext      = internal.TemplateContext
	PageContext          = internal.PageContext
	HTMLTemplateRenderer = internal.HTMLTemplateRenderer
)

var (
	ErrOutputDirRequired = internal.ErrOutputDirRequired
	ErrDuplicateRoute    = internal.ErrDuplicateRoute
)

const (
	DefaultLayout      = internal.DefaultLayout
	DefaultRoutePrefix = internal.DefaultRoutePrefix
)

// NewService wires a static site generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// DefaultTemplateRenderer returns the built-in html/template page layout.
func DefaultTemplateRenderer() *HTMLTemplateRenderer {
	return internal.DefaultTemplateRenderer()
}

// ParseTemplateGlob layers the templates matching pattern over the built-in layout.
func ParseTemplateGlob(pattern string) (*HTMLTemplateRenderer, error) {
	return internal.ParseTemplateGlob(pattern)
}
