package readingtime

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-readtime/internal/logging"
	"github.com/goliatone/go-readtime/internal/mdast"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

// StageName identifies the estimator in pipeline configuration and logs.
const StageName = "reading-time"

// Estimator computes reading time for documents. It only holds its options
// and is safe to share between goroutines.
type Estimator struct {
	opts   Options
	logger interfaces.Logger
}

// Option customises an Estimator.
type Option func(*Estimator)

// WithLogger routes per-document debug entries to logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Estimator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

var _ interfaces.Transformer = (*Estimator)(nil)

// New validates opts, fills defaults and returns an Estimator.
func New(opts Options, options ...Option) (*Estimator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := &Estimator{
		opts:   opts.withDefaults(),
		logger: logging.NoOp(),
	}
	for _, option := range options {
		if option != nil {
			option(e)
		}
	}
	return e, nil
}

// Options returns the effective options.
func (e *Estimator) Options() Options {
	return e.opts
}

// Name implements interfaces.Transformer.
func (e *Estimator) Name() string {
	return StageName
}

// Estimate computes the metric for a parsed tree. source must be the buffer
// the tree was parsed from. A nil root yields the zero metric.
func (e *Estimator) Estimate(root ast.Node, source []byte) Metric {
	text := mdast.PlainText(root, source, mdast.TextOptions{ExcludeCode: e.opts.ExcludeCode})
	return e.EstimateText(text)
}

// EstimateText computes the metric for already extracted plain text.
func (e *Estimator) EstimateText(text string) Metric {
	return newMetric(CountWords(text), e.opts.WordsPerMinute)
}

// Transform stores the metric for doc under the configured metadata key. It
// writes that one key and nothing else, and never fails: a document without
// a tree or text gets the zero metric.
func (e *Estimator) Transform(_ context.Context, doc *interfaces.Document) error {
	if doc == nil {
		return nil
	}

	metric := e.Estimate(doc.Root, doc.Body)
	if doc.Metadata == nil {
		doc.Metadata = interfaces.Metadata{}
	}
	doc.Metadata[e.opts.MetadataKey] = metric

	e.logger.Debug("reading time estimated",
		"path", doc.FilePath,
		"words", metric.Words,
		"minutes", metric.Minutes,
	)
	return nil
}

// FromMetadata reads a metric previously stored under key. Values decoded
// from front matter as maps are accepted too, including the
// map[interface{}]interface{} shape YAML front matter decodes into.
func FromMetadata(meta interfaces.Metadata, key string) (Metric, bool) {
	if key == "" {
		key = DefaultMetadataKey
	}
	value, ok := meta[key]
	if !ok {
		return Metric{}, false
	}

	switch v := value.(type) {
	case Metric:
		return v, true
	case *Metric:
		if v == nil {
			return Metric{}, false
		}
		return *v, true
	case map[string]any:
		return metricFromMap(v), true
	case map[any]any:
		converted := make(map[string]any, len(v))
		for k, item := range v {
			converted[fmt.Sprint(k)] = item
		}
		return metricFromMap(converted), true
	default:
		return Metric{}, false
	}
}

func metricFromMap(raw map[string]any) Metric {
	var m Metric
	if text, ok := raw["text"].(string); ok {
		m.Text = text
	}
	m.Minutes = int(toInt64(raw["minutes"]))
	m.Time = toInt64(raw["time"])
	m.Words = int(toInt64(raw["words"]))
	return m
}

func toInt64(value any) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
