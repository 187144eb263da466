package interfaces

import "io"

// TemplateRenderer renders named page layouts. The generator ships a default
// html/template implementation; hosts may plug their own engine.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
