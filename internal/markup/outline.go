package markup

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	outlineKey = parser.NewContextKey()
	slugBreak  = regexp.MustCompile(`[^\w\x{4e00}-\x{9fa5}]+`)
)

// Slug turns heading text into an anchor id: lower-cased, with every run of
// characters other than word characters and CJK ideographs replaced by "-".
// Equal texts give equal slugs; duplicates are not disambiguated.
func Slug(text string) string {
	return slugBreak.ReplaceAllString(strings.ToLower(text), "-")
}

// outlineTransformer sets an id on every heading and records the outline in
// the parser context.
type outlineTransformer struct{}

func (t *outlineTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	items := make([]OutlineItem, 0)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		label := headingText(heading, source)
		id := Slug(label)
		if id != "" {
			heading.SetAttributeString("id", []byte(id))
		}
		items = append(items, OutlineItem{ID: id, Text: label, Level: heading.Level})
		return ast.WalkSkipChildren, nil
	})
	pc.Set(outlineKey, items)
}

// headingText returns the literal inline source of a heading.
func headingText(h *ast.Heading, source []byte) string {
	lines := h.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func outlineFrom(pc parser.Context) []OutlineItem {
	items, _ := pc.Get(outlineKey).([]OutlineItem)
	if items == nil {
		return []OutlineItem{}
	}
	return items
}
