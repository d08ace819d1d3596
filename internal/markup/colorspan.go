package markup

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const colorPattern = `#[0-9a-fA-F]{6}|#[0-9a-fA-F]{3}|[a-zA-Z]{1,20}`

var (
	textColor      = regexp.MustCompile(`^(?:` + colorPattern + `)$`)
	colorSpanOpen  = regexp.MustCompile(`^<span\s+style\s*=\s*"\s*color\s*:\s*(` + colorPattern + `)\s*;?\s*"\s*>$`)
	colorSpanClose = regexp.MustCompile(`^</span\s*>$`)
)

// ValidTextColor reports whether c may be used in a color span: a #rgb or
// #rrggbb hex value or a color name.
func ValidTextColor(c string) bool {
	return textColor.MatchString(c)
}

// KindColorSpan is the node kind of ColorSpan.
var KindColorSpan = ast.NewNodeKind("ColorSpan")

// ColorSpan is inline content wrapped in <span style="color: ...">. It is the
// only raw HTML that survives rendering; everything else stays omitted.
type ColorSpan struct {
	ast.BaseInline
	Color string
}

// Kind implements ast.Node.
func (n *ColorSpan) Kind() ast.NodeKind {
	return KindColorSpan
}

// Dump implements ast.Node.
func (n *ColorSpan) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Color": n.Color}, nil)
}

// colorSpanTransformer replaces balanced pairs of color span tags with
// ColorSpan nodes. Unbalanced or differently styled tags are left as raw HTML.
type colorSpanTransformer struct{}

func (t *colorSpanTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	wrapColorSpans(doc, reader.Source())
}

func wrapColorSpans(parent ast.Node, source []byte) {
	for c := parent.FirstChild(); c != nil; {
		color, ok := openColor(c, source)
		if !ok {
			wrapColorSpans(c, source)
			c = c.NextSibling()
			continue
		}
		closing := matchingClose(c, source)
		if closing == nil {
			c = c.NextSibling()
			continue
		}

		span := &ColorSpan{Color: color}
		var inner []ast.Node
		for n := c.NextSibling(); n != closing; n = n.NextSibling() {
			inner = append(inner, n)
		}
		parent.InsertBefore(parent, c, span)
		for _, n := range inner {
			span.AppendChild(span, n)
		}
		parent.RemoveChild(parent, c)
		next := closing.NextSibling()
		parent.RemoveChild(parent, closing)

		wrapColorSpans(span, source)
		c = next
	}
}

// matchingClose finds the </span> that closes open among its later siblings.
func matchingClose(open ast.Node, source []byte) ast.Node {
	depth := 0
	for n := open.NextSibling(); n != nil; n = n.NextSibling() {
		if _, ok := openColor(n, source); ok {
			depth++
			continue
		}
		if isSpanClose(n, source) {
			if depth == 0 {
				return n
			}
			depth--
		}
	}
	return nil
}

func openColor(n ast.Node, source []byte) (string, bool) {
	raw, ok := n.(*ast.RawHTML)
	if !ok {
		return "", false
	}
	m := colorSpanOpen.FindSubmatch(rawHTMLValue(raw, source))
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

func isSpanClose(n ast.Node, source []byte) bool {
	raw, ok := n.(*ast.RawHTML)
	return ok && colorSpanClose.Match(rawHTMLValue(raw, source))
}

func rawHTMLValue(n *ast.RawHTML, source []byte) []byte {
	var value []byte
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		value = append(value, seg.Value(source)...)
	}
	return value
}

type colorSpanRenderer struct{}

func (r *colorSpanRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindColorSpan, r.renderColorSpan)
}

func (r *colorSpanRenderer) renderColorSpan(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</span>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<span style="color: `)
	_, _ = w.WriteString(n.(*ColorSpan).Color)
	_, _ = w.WriteString(`">`)
	return ast.WalkContinue, nil
}
