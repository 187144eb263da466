package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-readtime/pkg/interfaces"
)

func TestBuildRoute(t *testing.T) {
	cases := []struct {
		prefix string
		path   string
		slug   string
		want   string
	}{
		{"posts", "hello.md", "", "/posts/hello/"},
		{"/posts/", "nested/Deep Post.md", "", "/posts/nested/deep-post/"},
		{"posts", "anything.md", "from-front-matter", "/posts/from-front-matter/"},
		{"", "index.md", "", "/"},
		{"", "guides/index.md", "", "/guides/"},
	}
	for _, tc := range cases {
		doc := &interfaces.Document{FilePath: tc.path, FrontMatter: interfaces.FrontMatter{Slug: tc.slug}}
		if got := buildRoute(tc.prefix, doc); got != tc.want {
			t.Fatalf("buildRoute(%q, %q, %q) = %q, want %q", tc.prefix, tc.path, tc.slug, got, tc.want)
		}
	}
}

func TestBuildOutputPath(t *testing.T) {
	cases := map[string]string{
		"/":             "index.html",
		"":              "index.html",
		"/posts/hello/": "posts/hello/index.html",
		" /guides/ ":    "guides/index.html",
	}
	for route, want := range cases {
		if got := buildOutputPath(route); got != want {
			t.Fatalf("buildOutputPath(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestSitemapDeduplicates(t *testing.T) {
	pages := []RenderedPage{{Route: "/b/"}, {Route: "/a/"}, {Route: "/b/"}}
	got := buildSitemap("", pages, time.Time{})
	if want := "<loc>http://localhost/a/</loc>"; !strings.Contains(got, want) {
		t.Fatalf("expected %s in sitemap:\n%s", want, got)
	}
	if count := strings.Count(got, "<url>"); count != 2 {
		t.Fatalf("expected 2 entries, got %d", count)
	}
	if strings.Contains(got, "<lastmod>") {
		t.Fatalf("expected no lastmod without timestamps:\n%s", got)
	}
}

func TestRobotsWithoutSitemap(t *testing.T) {
	if got := buildRobots("https://example.com", false); got != "User-agent: *\nAllow: /\n" {
		t.Fatalf("unexpected robots.txt %q", got)
	}
}
