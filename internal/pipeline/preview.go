package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrPreview indicates the Markdown preview could not be rendered.
var ErrPreview = errors.New("preview rendering failed")

// previewTemplate wraps goldmark's fragment output in a complete HTML5 document.
const previewTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
%s</head>
<body>
%s
</body>
</html>`

// PreviewRenderer renders converted Markdown to a standalone HTML page.
// Heading ids are generated with Slugify so TOC links resolve in the page.
type PreviewRenderer struct {
	md    goldmark.Markdown
	style string
}

// NewPreviewRenderer creates a renderer with GFM extensions and syntax
// highlighting. css is embedded in every page; it may be empty.
func NewPreviewRenderer(css string) *PreviewRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
			// Raw HTML is needed for <a id>, <sup> and <sub> passthrough.
			gmhtml.WithUnsafe(),
		),
	)
	r := &PreviewRenderer{md: md}
	if css != "" {
		r.style = "<style>" + sanitizeCSS(css) + "</style>\n"
	}
	return r
}

// HighlightCSS returns the stylesheet of a chroma style for the class-based
// code highlighting of preview pages. Unknown names use chroma's fallback style.
func HighlightCSS(styleName string) (string, error) {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(styleName)); err != nil {
		return "", fmt.Errorf("%w: highlight stylesheet: %v", ErrPreview, err)
	}
	return b.String(), nil
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// Render converts markdown to an HTML document titled title.
// Goldmark has no context support, so cancellation is observed around
// the conversion through a goroutine and select.
func (r *PreviewRenderer) Render(ctx context.Context, markdown, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		pc := parser.NewContext(parser.WithIDs(newPreviewIDs()))
		if err := r.md.Convert([]byte(markdown), &buf, parser.WithContext(pc)); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPreview, err)}
			return
		}
		done <- result{html: fmt.Sprintf(previewTemplate, html.EscapeString(title), r.style, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// previewIDs gives goldmark headings the same ids the converter registered.
type previewIDs struct {
	slugs *slugRegistry
}

func newPreviewIDs() *previewIDs {
	return &previewIDs{slugs: newSlugRegistry()}
}

func (p *previewIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(p.slugs.unique(Slugify(string(value))))
}

func (p *previewIDs) Put(value []byte) {
	p.slugs.taken[string(value)] = true
}
