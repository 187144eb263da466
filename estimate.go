package readtime

import (
	"context"

	"github.com/goliatone/go-readtime/internal/markdown"
	"github.com/goliatone/go-readtime/internal/readingtime"
	"github.com/goliatone/go-readtime/internal/toc"
	"github.com/goliatone/go-readtime/pkg/interfaces"
)

type (
	// Metric is the reading-time record stored in document metadata.
	Metric = readingtime.Metric
	// EstimateOptions configures reading speed, code policy and metadata key.
	EstimateOptions = readingtime.Options
)

const (
	DefaultWordsPerMinute = readingtime.DefaultWordsPerMinute
	DefaultMetadataKey    = readingtime.DefaultMetadataKey
)

// DefaultEstimateOptions returns 200 words per minute with code counted.
func DefaultEstimateOptions() EstimateOptions {
	return readingtime.DefaultOptions()
}

// Estimate parses a markdown source, front matter included, and returns its
// reading-time metric. The default table of contents stage runs first, so the
// count matches the label a default build puts on the page. Only invalid
// options or malformed front matter fail.
func Estimate(source []byte, opts EstimateOptions) (Metric, error) {
	estimator, err := readingtime.New(opts)
	if err != nil {
		return Metric{}, err
	}
	contents, err := toc.New(toc.Options{}, nil)
	if err != nil {
		return Metric{}, err
	}
	_, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		return Metric{}, err
	}

	doc := &interfaces.Document{
		Body:     body,
		Root:     markdown.NewEngine(interfaces.ParseOptions{}).Parse(body),
		Metadata: interfaces.Metadata{},
	}
	if err := contents.Transform(context.Background(), doc); err != nil {
		return Metric{}, err
	}
	return estimator.Estimate(doc.Root, doc.Body), nil
}

// EstimateString is Estimate for string input.
func EstimateString(source string, opts EstimateOptions) (Metric, error) {
	return Estimate([]byte(source), opts)
}
