package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-readtime/internal/collapse"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

// Engine parses markdown into goldmark trees and renders trees to HTML. It
// holds no per-document state, so one instance can serve concurrent callers.
type Engine struct {
	md goldmark.Markdown
}

// NewEngine builds an engine for the supplied options. Headings always get
// generated ids so table of contents links resolve, and the collapse
// renderer is always registered.
func NewEngine(opts interfaces.ParseOptions) *Engine {
	return &Engine{md: newGoldmarkEngine(opts)}
}

// Parse returns the tree for source. Segments in the tree index into source,
// so callers must keep the same buffer around for rendering.
func (e *Engine) Parse(source []byte) ast.Node {
	return e.md.Parser().Parse(text.NewReader(source))
}

// Render writes the HTML for root to w.
func (e *Engine) Render(w io.Writer, source []byte, root ast.Node) error {
	if root == nil {
		return nil
	}
	if err := e.md.Renderer().Render(w, source, root); err != nil {
		return fmt.Errorf("markdown render: %w", err)
	}
	return nil
}

// Convert parses and renders source in one step, without transform stages.
func (e *Engine) Convert(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, source, e.Parse(source)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newGoldmarkEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	exts := append(collectExtensions(opts.Extensions), collapse.Extension)

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithExtensions(exts...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// collectExtensions maps configured names onto goldmark extenders. Unknown
// names are skipped; an empty list selects GFM.
func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

// KnownExtension reports whether name maps onto a goldmark extension.
func KnownExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
