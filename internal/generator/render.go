package generator

import (
	"time"
)

// RenderedPage captures the rendered HTML output for a document.
type RenderedPage struct {
	SourcePath   string
	Route        string
	Output       string
	HTML         string
	Title        string
	Description  string
	PubDate      time.Time
	LastModified time.Time
	Duration     time.Duration
	Checksum     string
}

// RenderDiagnostic records rendering timing and errors for individual documents.
type RenderDiagnostic struct {
	SourcePath string
	Route      string
	Duration   time.Duration
	Skipped    bool
	Err        error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}
