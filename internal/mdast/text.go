// Package mdast holds small helpers over goldmark syntax trees that more than
// one transform stage needs.
package mdast

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TextOptions controls which parts of a tree contribute text.
type TextOptions struct {
	// ExcludeCode drops fenced and indented code blocks. Inline code spans are
	// always kept since they read as part of the sentence around them.
	ExcludeCode bool
}

// PlainText serialises node and its descendants into plain text. Markup is
// discarded: links keep their visible text, autolinks their label, images and
// raw HTML contribute nothing. Block boundaries and line breaks become
// newlines. Node kinds it does not know about are walked for their children.
func PlainText(node ast.Node, source []byte, opts TextOptions) string {
	if node == nil {
		return ""
	}

	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *ast.Image, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			if entering && !opts.ExcludeCode {
				writeLines(&b, n.Lines(), source)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			if entering && !opts.ExcludeCode {
				writeLines(&b, n.Lines(), source)
			}
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			if entering {
				b.Write(n.Label(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				writeSegment(&b, n.Segment, source)
				if n.SoftLineBreak() || n.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
			return ast.WalkContinue, nil
		case *ast.String:
			if entering {
				b.Write(n.Value)
			}
			return ast.WalkContinue, nil
		}

		if n.Type() == ast.TypeBlock {
			b.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})

	return b.String()
}

// InlineText returns the text of node with runs of whitespace collapsed to a
// single space. It is meant for headings and other single-line content.
func InlineText(node ast.Node, source []byte) string {
	return strings.Join(strings.Fields(PlainText(node, source, TextOptions{})), " ")
}

func writeLines(b *strings.Builder, lines *text.Segments, source []byte) {
	if lines == nil {
		return
	}
	for i := 0; i < lines.Len(); i++ {
		writeSegment(b, lines.At(i), source)
	}
	b.WriteByte('\n')
}

// writeSegment ignores segments that do not fit the source so a tree paired
// with the wrong buffer degrades to less text instead of a panic.
func writeSegment(b *strings.Builder, seg text.Segment, source []byte) {
	if seg.Start < 0 || seg.Start > seg.Stop || seg.Stop > len(source) {
		return
	}
	b.Write(seg.Value(source))
}
