package collapse

import (
	"github.com/yuin/goldmark/ast"
)

// KindDetails is the node kind of Details.
var KindDetails = ast.NewNodeKind("Details")

// Details is a block that renders as a <details> element. Its children are
// the collapsed content.
type Details struct {
	ast.BaseBlock
	Summary []byte
}

// NewDetails returns an empty Details block with the given summary line.
func NewDetails(summary string) *Details {
	return &Details{Summary: []byte(summary)}
}

// Kind implements ast.Node.
func (n *Details) Kind() ast.NodeKind {
	return KindDetails
}

// Dump implements ast.Node.
func (n *Details) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Summary": string(n.Summary)}, nil)
}
