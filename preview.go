package storage2md

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-storage2md/internal/pipeline"
)

// DefaultHighlightStyle is the chroma style used for preview code blocks.
const DefaultHighlightStyle = "github"

// PreviewOptions configures RenderPreview.
type PreviewOptions struct {
	Title          string // page title
	AssetDir       string // directory relative asset paths resolve against; "" leaves them
	HighlightStyle string // chroma style name; "" uses DefaultHighlightStyle
	CSS            string // appended after the highlight stylesheet
}

// RenderPreview renders converted Markdown as a standalone HTML page so a
// result can be checked in a browser. Heading ids match Result.Headings.
func RenderPreview(ctx context.Context, markdown string, opts PreviewOptions) (string, error) {
	style := opts.HighlightStyle
	if style == "" {
		style = DefaultHighlightStyle
	}
	css, err := pipeline.HighlightCSS(style)
	if err != nil {
		return "", err
	}
	if opts.CSS != "" {
		css = strings.TrimRight(css, "\n") + "\n" + opts.CSS
	}

	page, err := pipeline.NewPreviewRenderer(css).Render(ctx, markdown, opts.Title)
	if err != nil {
		return "", err
	}

	page, err = pipeline.RewriteAssetPaths(page, opts.AssetDir)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting asset paths: %v", ErrPreview, err)
	}
	return page, nil
}
