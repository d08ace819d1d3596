package markup

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeSpanRenderer writes inline code verbatim so samples of Markdown or HTML
// syntax show exactly as typed.
type codeSpanRenderer struct{}

func (r *codeSpanRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
}

func (r *codeSpanRenderer) renderCodeSpan(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<code>")
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch child := c.(type) {
		case *ast.Text:
			value := child.Segment.Value(source)
			if l := len(value); l > 0 && value[l-1] == '\n' {
				_, _ = w.Write(value[:l-1])
				_ = w.WriteByte(' ')
				continue
			}
			_, _ = w.Write(value)
		case *ast.String:
			_, _ = w.Write(child.Value)
		}
	}
	return ast.WalkSkipChildren, nil
}
