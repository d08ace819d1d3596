// Package markup renders note content to HTML and extracts its outline.
package markup

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Config controls the Markdown pipeline. It is fixed when a Renderer is built.
type Config struct {
	HighlightStyle string `yaml:"highlight_style"`
	HardWraps      bool   `yaml:"hard_wraps"`
	LineNumbers    bool   `yaml:"line_numbers"`
}

// DefaultConfig returns the configuration the editor preview uses.
func DefaultConfig() Config {
	return Config{
		HighlightStyle: "github",
		HardWraps:      true,
	}
}

// OutlineItem is one heading of a document.
type OutlineItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Result is the output of a render.
type Result struct {
	HTML    string        `json:"html"`
	Outline []OutlineItem `json:"outline"`
}

// Renderer converts Markdown to HTML. It is safe for concurrent use and holds
// no per-document state.
type Renderer struct {
	cfg Config
	md  goldmark.Markdown
}

// New builds a renderer for cfg.
func New(cfg Config) *Renderer {
	if cfg.HighlightStyle == "" {
		cfg.HighlightStyle = DefaultConfig().HighlightStyle
	}

	rendererOpts := []renderer.Option{
		renderer.WithNodeRenderers(
			util.Prioritized(&codeSpanRenderer{}, 100),
			util.Prioritized(&colorSpanRenderer{}, 100),
		),
	}
	if cfg.HardWraps {
		rendererOpts = append(rendererOpts, gmhtml.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(cfg.HighlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
					chromahtml.WithLineNumbers(cfg.LineNumbers),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&outlineTransformer{}, 100),
				util.Prioritized(&colorSpanTransformer{}, 200),
			),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Renderer{cfg: cfg, md: md}
}

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Render converts src. It never fails: if conversion breaks down the source
// is returned escaped inside a <pre> block. Invalid UTF-8 is replaced with
// U+FFFD so the output is always valid UTF-8.
func (r *Renderer) Render(src string) (res Result) {
	src = strings.ToValidUTF8(src, "\uFFFD")
	pc := parser.NewContext()
	defer func() {
		if rec := recover(); rec != nil {
			res = fallback(src, outlineFrom(pc))
		}
	}()

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf, parser.WithContext(pc)); err != nil {
		return fallback(src, outlineFrom(pc))
	}
	return Result{HTML: buf.String(), Outline: outlineFrom(pc)}
}

// StyleSheet returns the CSS for the configured highlight style.
func (r *Renderer) StyleSheet() (string, error) {
	style := styles.Get(r.cfg.HighlightStyle)
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("writing highlight css: %w", err)
	}
	return buf.String(), nil
}

// Render is a convenience wrapper that builds a renderer for one call.
func Render(src string, cfg Config) Result {
	return New(cfg).Render(src)
}

func fallback(src string, outline []OutlineItem) Result {
	return Result{
		HTML:    "<pre>" + html.EscapeString(src) + "</pre>\n",
		Outline: outline,
	}
}
