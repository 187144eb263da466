package collapse

import (
	"bytes"
	"context"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-readtime/pkg/interfaces"
)

func process(t *testing.T, opts Options, source string) (*interfaces.Document, string) {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(Extension))
	body := []byte(source)
	doc := &interfaces.Document{FilePath: "post.md", Body: body, Root: md.Parser().Parse(text.NewReader(body))}

	stage, err := New(opts, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := stage.Transform(context.Background(), doc); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, doc.Root); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return doc, buf.String()
}

func TestTransform_WrapsSection(t *testing.T) {
	source := "# Post\n\n## Table of contents\n\n- [One](#one)\n- [Two](#two)\n\n### Nested\n\ntext\n\n## One\n\nbody\n"
	doc, html := process(t, Options{}, source)

	details, ok := doc.Root.FirstChild().NextSibling().NextSibling().(*Details)
	if !ok {
		t.Fatalf("expected details block after heading")
	}
	if details.ChildCount() != 3 {
		t.Fatalf("expected list, nested heading and paragraph inside details, got %d children", details.ChildCount())
	}
	if _, ok := details.NextSibling().(*ast.Heading); !ok {
		t.Fatalf("expected next section heading to stay outside details")
	}

	want := "<h2>Table of contents</h2>\n<details>\n<summary>Open Table of contents</summary>\n<ul>"
	if !strings.Contains(html, want) {
		t.Fatalf("expected %q in output:\n%s", want, html)
	}
	if !strings.Contains(html, "</details>\n<h2>One</h2>") {
		t.Fatalf("expected details to close before the next section:\n%s", html)
	}
}

func TestTransform_CustomSummaryIsEscaped(t *testing.T) {
	_, html := process(t, Options{Test: "notes", Summary: "Show <notes>"}, "## Notes\n\nhidden\n")
	if !strings.Contains(html, "<summary>Show &lt;notes&gt;</summary>") {
		t.Fatalf("expected escaped summary:\n%s", html)
	}
}

func TestTransform_SkipsEmptyOrMissingSection(t *testing.T) {
	cases := map[string]string{
		"no match":      "## Intro\n\ntext\n",
		"empty section": "## Table of contents\n## Next\n\ntext\n",
	}
	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			_, html := process(t, Options{}, source)
			if strings.Contains(html, "<details>") {
				t.Fatalf("expected no details block:\n%s", html)
			}
		})
	}
}

func TestTransform_NilDocument(t *testing.T) {
	stage, err := New(Options{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := stage.Transform(context.Background(), nil); err != nil {
		t.Fatalf("Transform: %v", err)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(Options{Test: "[unclosed"}, nil)
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
