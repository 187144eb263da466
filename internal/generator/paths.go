package generator

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-readtime/pkg/interfaces"
)

// buildRoute derives the public route of a document: the route prefix
// followed by the front matter slug, or by the slugged source path without
// its extension. An "index" file maps onto its directory.
func buildRoute(prefix string, doc *interfaces.Document) string {
	source := strings.TrimSpace(doc.FrontMatter.Slug)
	if source == "" {
		source = strings.TrimSuffix(doc.FilePath, path.Ext(doc.FilePath))
		if path.Base(source) == "index" {
			source = path.Dir(source)
		}
	}

	segments := []string{}
	for _, part := range strings.Split(strings.Trim(prefix, "/"), "/") {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	for _, part := range strings.Split(source, "/") {
		part = strings.TrimSpace(part)
		if part == "" || part == "." {
			continue
		}
		normalized, err := slug.Normalize(part)
		if err != nil || normalized == "" {
			continue
		}
		segments = append(segments, normalized)
	}

	if len(segments) == 0 {
		return "/"
	}
	return "/" + path.Join(segments...) + "/"
}

func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), " \t\r\n/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}
