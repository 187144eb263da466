package readingtime

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

const (
	// DefaultWordsPerMinute is the average adult reading speed used when no
	// speed is configured.
	DefaultWordsPerMinute = 200
	// DefaultMetadataKey is the metadata key the metric is stored under.
	DefaultMetadataKey = "readingTime"

	optionsInvalidCode = "READING_TIME_OPTIONS_INVALID"
)

// Options configures an Estimator.
type Options struct {
	// WordsPerMinute converts word counts into minutes. Zero selects
	// DefaultWordsPerMinute.
	WordsPerMinute int `yaml:"words_per_minute" json:"words_per_minute"`
	// ExcludeCode leaves fenced and indented code blocks out of the count.
	ExcludeCode bool `yaml:"exclude_code" json:"exclude_code"`
	// MetadataKey overrides DefaultMetadataKey.
	MetadataKey string `yaml:"key" json:"key"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		WordsPerMinute: DefaultWordsPerMinute,
		MetadataKey:    DefaultMetadataKey,
	}
}

func (o Options) withDefaults() Options {
	if o.WordsPerMinute == 0 {
		o.WordsPerMinute = DefaultWordsPerMinute
	}
	o.MetadataKey = strings.TrimSpace(o.MetadataKey)
	if o.MetadataKey == "" {
		o.MetadataKey = DefaultMetadataKey
	}
	return o
}

// Validate checks the options after defaults have been applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	err := validation.ValidateStruct(&o,
		validation.Field(&o.WordsPerMinute, validation.Required, validation.Min(1)),
		validation.Field(&o.MetadataKey, validation.Required),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "reading time options invalid").
			WithTextCode(optionsInvalidCode)
	}
	return nil
}
