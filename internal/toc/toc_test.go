package toc

import (
	"bytes"
	"context"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-readtime/pkg/interfaces"
)

const article = `# Post

Intro paragraph.

## Table of contents

stale entry

## Installation

Install it.

### From source

Build it.

## Usage

Use it.

#### Deep dive
`

func parseDocument(t *testing.T, source string, autoIDs bool) (*interfaces.Document, goldmark.Markdown) {
	t.Helper()
	opts := []goldmark.Option{}
	if autoIDs {
		opts = append(opts, goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	}
	md := goldmark.New(opts...)
	body := []byte(source)
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	return &interfaces.Document{FilePath: "post.md", Body: body, Root: root}, md
}

func render(t *testing.T, md goldmark.Markdown, doc *interfaces.Document) string {
	t.Helper()
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, doc.Body, doc.Root); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func newStage(t *testing.T, opts Options) *Transformer {
	t.Helper()
	stage, err := New(opts, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return stage
}

func TestTransform_InsertsNestedList(t *testing.T) {
	doc, md := parseDocument(t, article, true)

	if err := newStage(t, Options{}).Transform(context.Background(), doc); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	html := render(t, md, doc)
	if strings.Contains(html, "stale entry") {
		t.Fatalf("expected previous section content to be replaced:\n%s", html)
	}
	for _, want := range []string{
		`<a href="#installation">Installation</a>`,
		`<a href="#from-source">From source</a>`,
		`<a href="#usage">Usage</a>`,
		`<a href="#deep-dive">Deep dive</a>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %s in output:\n%s", want, html)
		}
	}
	if strings.Contains(html, `href="#post"`) || strings.Contains(html, `href="#table-of-contents"`) {
		t.Fatalf("expected headings before and including the toc heading to be skipped:\n%s", html)
	}

	list, ok := doc.Root.FirstChild().NextSibling().NextSibling().NextSibling().(*ast.List)
	if !ok {
		t.Fatalf("expected list right after the toc heading")
	}
	if list.ChildCount() != 2 {
		t.Fatalf("expected two top level entries, got %d", list.ChildCount())
	}
	nested, ok := list.FirstChild().LastChild().(*ast.List)
	if !ok || nested.ChildCount() != 1 {
		t.Fatalf("expected nested list under Installation")
	}
}

func TestTransform_MaxDepth(t *testing.T) {
	doc, md := parseDocument(t, article, true)

	if err := newStage(t, Options{MaxDepth: 2}).Transform(context.Background(), doc); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	html := render(t, md, doc)
	if strings.Contains(html, `href="#from-source"`) || strings.Contains(html, `href="#deep-dive"`) {
		t.Fatalf("expected deeper headings to be left out:\n%s", html)
	}
}

func TestTransform_AssignsIDsWithoutAutoHeadingID(t *testing.T) {
	doc, md := parseDocument(t, "## Contents\n\n## Getting Started\n\n## Getting Started\n", false)

	if err := newStage(t, Options{}).Transform(context.Background(), doc); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	var ids []string
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			if v, ok := h.AttributeString("id"); ok {
				ids = append(ids, string(v.([]byte)))
			}
		}
		return ast.WalkContinue, nil
	})
	if len(ids) != 2 || ids[0] == ids[1] {
		t.Fatalf("expected two distinct generated ids, got %v", ids)
	}

	html := render(t, md, doc)
	for _, id := range ids {
		if !strings.Contains(html, `href="#`+id+`"`) {
			t.Fatalf("expected link to %s:\n%s", id, html)
		}
	}
}

func TestTransform_NoMatchingHeading(t *testing.T) {
	source := "# Title\n\n## Section\n"
	doc, md := parseDocument(t, source, true)
	before := render(t, md, doc)

	if err := newStage(t, Options{}).Transform(context.Background(), doc); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if after := render(t, md, doc); after != before {
		t.Fatalf("expected untouched document\nbefore: %s\nafter: %s", before, after)
	}
}

func TestTransform_NilDocumentAndRoot(t *testing.T) {
	stage := newStage(t, Options{})
	if err := stage.Transform(context.Background(), nil); err != nil {
		t.Fatalf("nil doc: %v", err)
	}
	if err := stage.Transform(context.Background(), &interfaces.Document{}); err != nil {
		t.Fatalf("nil root: %v", err)
	}
}

func TestNew_ValidatesOptions(t *testing.T) {
	if _, err := New(Options{MaxDepth: 9}, nil); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for depth, got %v", err)
	}
	if _, err := New(Options{Heading: "("}, nil); err == nil {
		t.Fatal("expected error for invalid heading pattern")
	}
}

func TestTransform_ListsNestedHeadings(t *testing.T) {
	source := `## Contents

## Setup

> ### Quoted step

- item

  ### Listed step
`
	doc, md := parseDocument(t, source, true)
	if err := newStage(t, Options{}).Transform(context.Background(), doc); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	html := render(t, md, doc)
	for _, want := range []string{`<a href="#setup">Setup</a>`, `<a href="#quoted-step">Quoted step</a>`, `<a href="#listed-step">Listed step</a>`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %s in:\n%s", want, html)
		}
	}
	if strings.Index(html, "#quoted-step") > strings.Index(html, "#listed-step") {
		t.Fatalf("expected entries in document order:\n%s", html)
	}
}
