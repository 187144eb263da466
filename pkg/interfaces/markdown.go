package interfaces

import (
	"context"
	"time"

	"github.com/yuin/goldmark/ast"
)

// ParseOptions customises how markdown is parsed and rendered. Option names
// stay readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// LoadOptions narrows file discovery for a single call.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
}

// Document is a single markdown source moving through the build. It is
// created by the loader, mutated by transform stages in configured order,
// consumed by the renderer and discarded once the page is emitted.
type Document struct {
	FilePath    string
	FrontMatter FrontMatter
	// Body holds the markdown without front matter. AST segments index into it.
	Body []byte
	// Root is the parsed goldmark tree. Nil until the document is parsed.
	Root ast.Node
	// Metadata is the per-document record transform stages write into. It is
	// seeded from the raw front matter so templates see both.
	Metadata     Metadata
	BodyHTML     []byte
	LastModified time.Time
	// Checksum is the SHA-256 of the original file content.
	Checksum []byte
}

// Metadata is the mutable key/value record attached to a document.
type Metadata map[string]any

// Clone returns a shallow copy of the record.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	out := make(Metadata, len(m))
	for key, value := range m {
		out[key] = value
	}
	return out
}

// FrontMatter models metadata parsed from the head of a markdown file.
type FrontMatter struct {
	Title       string         `yaml:"title" json:"title"`
	Slug        string         `yaml:"slug" json:"slug"`
	Description string         `yaml:"description" json:"description"`
	Author      string         `yaml:"author" json:"author"`
	Tags        []string       `yaml:"tags" json:"tags"`
	PubDate     time.Time      `yaml:"pubDatetime" json:"pub_date"`
	ModDate     time.Time      `yaml:"modDatetime" json:"mod_date"`
	Draft       bool           `yaml:"draft" json:"draft"`
	Custom      map[string]any `yaml:",inline" json:"custom"`
	Raw         map[string]any `yaml:"-" json:"raw"`
}

// Transformer is a transform-stage callable. Stages run once per document, in
// the order they were handed to the pipeline, after parsing and before
// rendering. Implementations must not keep per-document state between calls.
type Transformer interface {
	Name() string
	Transform(ctx context.Context, doc *Document) error
}

// TransformerFunc adapts a plain function into a named Transformer.
type TransformerFunc struct {
	StageName string
	Fn        func(ctx context.Context, doc *Document) error
}

func (f TransformerFunc) Name() string { return f.StageName }

func (f TransformerFunc) Transform(ctx context.Context, doc *Document) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(ctx, doc)
}
