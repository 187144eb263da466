// Package toc fills a "Table of contents" section with links to the headings
// that follow it, wherever they sit in the tree (block quotes and list items
// included).
package toc

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-readtime/internal/logging"
	"github.com/goliatone/go-readtime/internal/mdast"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

const (
	// StageName identifies the stage in pipeline configuration.
	StageName = "toc"
	// DefaultHeading matches "Table of contents", "Contents" and "TOC".
	DefaultHeading = `(table[ -]of[ -])?contents?|toc`
	// DefaultMaxDepth includes every heading level.
	DefaultMaxDepth = 6

	optionsInvalidCode = "TOC_OPTIONS_INVALID"
)

// Options configures the stage.
type Options struct {
	// Heading is a case-insensitive pattern the whole heading text must match.
	Heading string `yaml:"heading" json:"heading"`
	// MaxDepth is the deepest heading level listed.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
	// Ordered renders a numbered list.
	Ordered bool `yaml:"ordered" json:"ordered"`
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Heading) == "" {
		o.Heading = DefaultHeading
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	err := validation.ValidateStruct(&o,
		validation.Field(&o.Heading, validation.By(func(value any) error {
			if _, err := compileHeading(value.(string)); err != nil {
				return validation.NewError("toc.heading_invalid", err.Error())
			}
			return nil
		})),
		validation.Field(&o.MaxDepth, validation.Min(1), validation.Max(6)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "toc options invalid").
			WithTextCode(optionsInvalidCode)
	}
	return nil
}

func compileHeading(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)^(?:" + pattern + ")$")
}

// Transformer is the toc pipeline stage.
type Transformer struct {
	opts    Options
	pattern *regexp.Regexp
	logger  interfaces.Logger
}

var _ interfaces.Transformer = (*Transformer)(nil)

// New validates opts and returns the stage.
func New(opts Options, logger interfaces.Logger) (*Transformer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	pattern, err := compileHeading(opts.Heading)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Transformer{opts: opts, pattern: pattern, logger: logger}, nil
}

func (t *Transformer) Name() string { return StageName }

// Transform finds the first heading matching the pattern, drops whatever sits
// between it and the next sibling heading of the same or higher rank, and
// inserts a nested link list of every heading after that point, including
// headings nested in block quotes and list items. Documents without a matching
// heading, or without headings to list, are left alone.
func (t *Transformer) Transform(_ context.Context, doc *interfaces.Document) error {
	if doc == nil || doc.Root == nil {
		return nil
	}
	root, source := doc.Root, doc.Body

	target := t.findHeading(root, source)
	if target == nil {
		return nil
	}
	parent := target.Parent()

	end := sectionEnd(target)
	section := map[ast.Node]struct{}{}
	for n := target.NextSibling(); n != nil && n != end; n = n.NextSibling() {
		section[n] = struct{}{}
	}

	entries := t.collect(root, target, section, source)
	if len(entries) == 0 {
		return nil
	}

	for n := target.NextSibling(); n != nil && n != end; {
		next := n.NextSibling()
		parent.RemoveChild(parent, n)
		n = next
	}
	parent.InsertAfter(parent, target, buildList(entries, t.opts.Ordered))

	t.logger.Debug("table of contents inserted", "path", doc.FilePath, "entries", len(entries))
	return nil
}

func (t *Transformer) findHeading(root ast.Node, source []byte) *ast.Heading {
	var found *ast.Heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if t.pattern.MatchString(mdast.InlineText(h, source)) {
			found = h
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})
	return found
}

// sectionEnd returns the first sibling after heading that closes its section,
// or nil when the section runs to the end of its parent.
func sectionEnd(heading *ast.Heading) ast.Node {
	for n := heading.NextSibling(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level <= heading.Level {
			return h
		}
	}
	return nil
}

type entry struct {
	level int
	text  string
	id    string
}

// collect lists the headings that follow target in document order, skipping
// the section nodes about to be replaced.
func (t *Transformer) collect(root ast.Node, target *ast.Heading, section map[ast.Node]struct{}, source []byte) []entry {
	var entries []entry
	used := map[string]int{}
	after := false
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n == target {
			after = true
			return ast.WalkSkipChildren, nil
		}
		if _, skip := section[n]; skip {
			return ast.WalkSkipChildren, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if after && h.Level <= t.opts.MaxDepth {
			if text := mdast.InlineText(h, source); text != "" {
				entries = append(entries, entry{level: h.Level, text: text, id: headingID(h, text, used)})
			}
		}
		return ast.WalkSkipChildren, nil
	})
	return entries
}

// headingID reuses the id goldmark assigned (parser.WithAutoHeadingID) and
// otherwise derives one from the text and stores it on the heading so the
// link target exists.
func headingID(h *ast.Heading, text string, used map[string]int) string {
	if value, ok := h.AttributeString("id"); ok {
		switch v := value.(type) {
		case []byte:
			if len(v) > 0 {
				return string(v)
			}
		case string:
			if v != "" {
				return v
			}
		}
	}

	id, err := slug.Normalize(text)
	if err != nil || id == "" {
		id = "heading"
	}
	if count := used[id]; count > 0 {
		used[id] = count + 1
		id = fmt.Sprintf("%s-%d", id, count)
	} else {
		used[id] = 1
	}
	h.SetAttributeString("id", []byte(id))
	return id
}

type frame struct {
	level int
	list  *ast.List
	last  *ast.ListItem
}

func buildList(entries []entry, ordered bool) *ast.List {
	minLevel := entries[0].level
	for _, e := range entries {
		minLevel = min(minLevel, e.level)
	}

	root := newList(ordered)
	stack := []frame{{level: minLevel, list: root}}
	for _, e := range entries {
		for len(stack) > 1 && e.level < stack[len(stack)-1].level {
			stack = stack[:len(stack)-1]
		}
		top := len(stack) - 1
		if e.level > stack[top].level && stack[top].last != nil {
			child := newList(ordered)
			stack[top].last.AppendChild(stack[top].last, child)
			stack = append(stack, frame{level: e.level, list: child})
			top++
		}

		item := newItem(e)
		stack[top].list.AppendChild(stack[top].list, item)
		stack[top].last = item
	}
	return root
}

func newList(ordered bool) *ast.List {
	marker := byte('-')
	if ordered {
		marker = '.'
	}
	list := ast.NewList(marker)
	list.IsTight = true
	if ordered {
		list.Start = 1
	}
	return list
}

func newItem(e entry) *ast.ListItem {
	link := ast.NewLink()
	link.Destination = []byte("#" + e.id)
	link.AppendChild(link, ast.NewString([]byte(e.text)))

	block := ast.NewTextBlock()
	block.AppendChild(block, link)

	item := ast.NewListItem(2)
	item.AppendChild(item, block)
	return item
}
