package generator

import (
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-readtime/internal/readingtime"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

// TemplateContext captures the data contract passed to TemplateRenderer implementations.
type TemplateContext struct {
	Site    SiteMetadata
	Page    PageContext
	Build   BuildMetadata
	Helpers TemplateHelpers
}

// SiteMetadata exposes site wide information to templates.
type SiteMetadata struct {
	BaseURL string
	Title   string
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	ID          string
	GeneratedAt time.Time
	DryRun      bool
}

// PageContext is the per document part of the template data.
type PageContext struct {
	SourcePath  string
	Route       string
	Title       string
	Description string
	Author      string
	Tags        []string
	PubDate     time.Time
	ModDate     time.Time
	// ReadingTime is the metric stored by the reading-time stage, or the zero
	// metric when the stage did not run.
	ReadingTime readingtime.Metric
	Metadata    interfaces.Metadata
	// Content is the rendered body. It comes from the markdown renderer, which
	// already honours the safe mode setting, so templates emit it verbatim.
	Content template.HTML
}

func newPageContext(doc *interfaces.Document, route, readingTimeKey string) PageContext {
	fm := doc.FrontMatter
	metric, _ := readingtime.FromMetadata(doc.Metadata, readingTimeKey)

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = route
	}

	return PageContext{
		SourcePath:  doc.FilePath,
		Route:       route,
		Title:       title,
		Description: fm.Description,
		Author:      fm.Author,
		Tags:        append([]string(nil), fm.Tags...),
		PubDate:     fm.PubDate,
		ModDate:     fm.ModDate,
		ReadingTime: metric,
		Metadata:    doc.Metadata.Clone(),
		Content:     template.HTML(doc.BodyHTML), //nolint:gosec // rendered by goldmark
	}
}

// LastModified picks the freshest timestamp known for the page.
func (p PageContext) LastModified() time.Time {
	return firstNonZeroTime(p.ModDate, p.PubDate)
}

// TemplateHelpers exposes convenience helpers for template authors.
type TemplateHelpers struct {
	baseURL string
}

func newTemplateHelpers(baseURL string) TemplateHelpers {
	return TemplateHelpers{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the configured site base URL.
func (h TemplateHelpers) BaseURL() string {
	return h.baseURL
}

// WithBaseURL prefixes the provided path with the configured base URL.
func (h TemplateHelpers) WithBaseURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return h.baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if h.baseURL == "" {
		return path
	}
	return h.baseURL + path
}

// FormatDate renders t as "Jan 2, 2006", or an empty string for the zero time.
func (h TemplateHelpers) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func firstNonZeroTime(instants ...time.Time) time.Time {
	for _, ts := range instants {
		if !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}
