package generator

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/goliatone/go-readtime/pkg/interfaces"
)

// DefaultLayout is the template name the generator renders pages with.
const DefaultLayout = "page"

const defaultLayoutSource = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Page.Title}}{{with .Site.Title}} | {{.}}{{end}}</title>
{{- with .Page.Description}}
<meta name="description" content="{{.}}">
{{- end}}
<link rel="canonical" href="{{.Helpers.WithBaseURL .Page.Route}}">
</head>
<body>
<article>
<header>
<h1>{{.Page.Title}}</h1>
<p class="meta">
{{- with .Page.PubDate}}{{if not .IsZero}}<time datetime="{{.Format "2006-01-02"}}">{{$.Helpers.FormatDate .}}</time>{{end}}{{end}}
{{- if not .Page.ReadingTime.IsZero}} <span class="reading-time">{{.Page.ReadingTime.Text}}</span>{{end -}}
</p>
</header>
{{.Page.Content}}
</article>
</body>
</html>
{{end}}`

var errTemplateNameRequired = errors.New("generator: template name is required")

// HTMLTemplateRenderer implements interfaces.TemplateRenderer on html/template.
type HTMLTemplateRenderer struct {
	tmpl *template.Template
}

var _ interfaces.TemplateRenderer = (*HTMLTemplateRenderer)(nil)

// NewTemplateRenderer wraps a parsed template set.
func NewTemplateRenderer(tmpl *template.Template) *HTMLTemplateRenderer {
	return &HTMLTemplateRenderer{tmpl: tmpl}
}

// DefaultTemplateRenderer returns a renderer holding the built-in page
// layout, which shows the title, publish date, reading time label and body.
func DefaultTemplateRenderer() *HTMLTemplateRenderer {
	return NewTemplateRenderer(template.Must(template.New("layouts").Parse(defaultLayoutSource)))
}

// ParseTemplateGlob loads layouts matching pattern on top of the default
// layout, so a file defining "page" replaces it.
func ParseTemplateGlob(pattern string) (*HTMLTemplateRenderer, error) {
	base := template.Must(template.New("layouts").Parse(defaultLayoutSource))
	tmpl, err := base.ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("generator: parse templates %s: %w", pattern, err)
	}
	return NewTemplateRenderer(tmpl), nil
}

// Render executes the named template with data. The output is returned and
// also copied to every writer in out.
func (r *HTMLTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errTemplateNameRequired
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("generator: render template %s: %w", name, err)
	}
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", fmt.Errorf("generator: write template %s: %w", name, err)
		}
	}
	return buf.String(), nil
}
