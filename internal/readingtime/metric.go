package readingtime

import (
	"fmt"
	"math"
)

// Metric is the reading-time record written to document metadata. Templates
// read it as {{ .ReadingTime.Text }}.
type Metric struct {
	Text    string `json:"text" yaml:"text"`
	Minutes int    `json:"minutes" yaml:"minutes"`
	// Time is the unrounded estimate in milliseconds.
	Time  int64 `json:"time" yaml:"time"`
	Words int   `json:"words" yaml:"words"`
}

// IsZero reports whether the metric describes a document without words.
func (m Metric) IsZero() bool {
	return m.Words == 0
}

func newMetric(words, wordsPerMinute int) Metric {
	if words <= 0 || wordsPerMinute <= 0 {
		return Metric{Text: formatText(0)}
	}

	exact := float64(words) / float64(wordsPerMinute)
	minutes := int(math.Ceil(exact))
	if minutes < 1 {
		minutes = 1
	}

	return Metric{
		Text:    formatText(minutes),
		Minutes: minutes,
		Time:    int64(math.Round(exact * 60000)),
		Words:   words,
	}
}

func formatText(minutes int) string {
	return fmt.Sprintf("%d min read", minutes)
}
