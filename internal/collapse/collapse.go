// Package collapse folds the content under a matching heading into a
// <details> block.
package collapse

import (
	"context"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-readtime/internal/logging"
	"github.com/goliatone/go-readtime/internal/mdast"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

const (
	// StageName identifies the stage in pipeline configuration.
	StageName = "collapse"
	// DefaultTest is the heading text that gets collapsed.
	DefaultTest = "Table of contents"
	// SummaryPrefix prefixes the heading text when no summary is configured.
	SummaryPrefix = "Open "

	optionsInvalidCode = "COLLAPSE_OPTIONS_INVALID"
)

// Options configures the stage.
type Options struct {
	// Test is a case-insensitive pattern the whole heading text must match.
	Test string `yaml:"test" json:"test"`
	// Summary replaces the default "Open <heading>" summary line.
	Summary string `yaml:"summary" json:"summary"`
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Test) == "" {
		o.Test = DefaultTest
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	err := validation.ValidateStruct(&o,
		validation.Field(&o.Test, validation.By(func(value any) error {
			if _, err := compileTest(value.(string)); err != nil {
				return validation.NewError("collapse.test_invalid", err.Error())
			}
			return nil
		})),
		validation.Field(&o.Summary, validation.Length(0, 200)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "collapse options invalid").
			WithTextCode(optionsInvalidCode)
	}
	return nil
}

func compileTest(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)^(?:" + pattern + ")$")
}

// Transformer is the collapse pipeline stage.
type Transformer struct {
	opts   Options
	test   *regexp.Regexp
	logger interfaces.Logger
}

var _ interfaces.Transformer = (*Transformer)(nil)

// New validates opts and returns the stage.
func New(opts Options, logger interfaces.Logger) (*Transformer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	test, err := compileTest(opts.Test)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Transformer{opts: opts, test: test, logger: logger}, nil
}

func (t *Transformer) Name() string { return StageName }

// Transform moves the nodes following the first matching top level heading,
// up to the next heading of the same or higher rank, into a Details block
// placed right after the heading. A heading with nothing under it is left as
// is.
func (t *Transformer) Transform(_ context.Context, doc *interfaces.Document) error {
	if doc == nil || doc.Root == nil {
		return nil
	}
	root, source := doc.Root, doc.Body

	var heading *ast.Heading
	var title string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		if text := mdast.InlineText(h, source); t.test.MatchString(text) {
			heading, title = h, text
			break
		}
	}
	if heading == nil {
		return nil
	}

	var section []ast.Node
	for n := heading.NextSibling(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level <= heading.Level {
			break
		}
		section = append(section, n)
	}
	if len(section) == 0 {
		return nil
	}

	details := NewDetails(t.summary(title))
	for _, n := range section {
		root.RemoveChild(root, n)
		details.AppendChild(details, n)
	}
	root.InsertAfter(root, heading, details)

	t.logger.Debug("section collapsed", "path", doc.FilePath, "heading", title, "nodes", len(section))
	return nil
}

func (t *Transformer) summary(title string) string {
	if t.opts.Summary != "" {
		return t.opts.Summary
	}
	return SummaryPrefix + title
}
