package collapse

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// HTMLRenderer writes Details nodes as <details> elements.
type HTMLRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDetails, r.renderDetails)
}

func (r *HTMLRenderer) renderDetails(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</details>\n")
		return ast.WalkContinue, nil
	}
	n := node.(*Details)
	_, _ = w.WriteString("<details>\n<summary>")
	_, _ = w.Write(util.EscapeHTML(n.Summary))
	_, _ = w.WriteString("</summary>\n")
	return ast.WalkContinue, nil
}

type extension struct{}

// Extension registers the Details renderer with a goldmark instance. The
// collapse stage produces Details nodes; markdown engines that run it need
// this extension to render them.
var Extension goldmark.Extender = &extension{}

func (e *extension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&HTMLRenderer{}, 500),
	))
}
