package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that change the Markdown output.
type renderFlags struct {
	compactTables   bool
	preserveAnchors bool
	noImages        bool
	imagesDir       string
}

// linkFlags holds link rewriting flags.
type linkFlags struct {
	pageSuffix   string
	slugifyPages bool
	userURL      string
}

// frontMatterFlags holds front matter flags.
type frontMatterFlags struct {
	enabled bool
	date    string
}

// previewFlags holds HTML preview flags.
type previewFlags struct {
	html           bool
	style          string
	highlightStyle string
	assetPath      string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common      commonFlags
	output      string
	workers     int
	manifest    bool
	render      renderFlags
	links       linkFlags
	frontMatter frontMatterFlags
	preview     previewFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and warnings")
}

// addRenderFlags adds Markdown rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.compactTables, "compact-tables", false, "skip table column padding")
	fs.BoolVar(&f.preserveAnchors, "preserve-anchors", false, "keep anchor macros as <a id> tags")
	fs.BoolVar(&f.noImages, "no-images", false, "render images as their alt text")
	fs.StringVar(&f.imagesDir, "images-dir", "", "directory prefixed to image and attachment links")
}

// addLinkFlags adds link rewriting flags to a FlagSet.
func addLinkFlags(fs *flag.FlagSet, f *linkFlags) {
	fs.StringVar(&f.pageSuffix, "page-suffix", "", "suffix appended to page links (default .md)")
	fs.BoolVar(&f.slugifyPages, "slugify-links", false, "slugify page titles in links")
	fs.StringVar(&f.userURL, "user-url", "", "URL template for user mentions, containing {user}")
}

// addFrontMatterFlags adds front matter flags to a FlagSet.
func addFrontMatterFlags(fs *flag.FlagSet, f *frontMatterFlags) {
	fs.BoolVar(&f.enabled, "front-matter", false, "prepend a YAML front matter block")
	fs.StringVar(&f.date, "date", "", "front matter date (\"auto\", \"modified\", or literal)")
}

// addPreviewFlags adds HTML preview flags to a FlagSet.
func addPreviewFlags(fs *flag.FlagSet, f *previewFlags) {
	fs.BoolVar(&f.html, "html", false, "write an HTML preview next to each document")
	fs.StringVar(&f.style, "style", "", "preview CSS style name or file path")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for preview code blocks")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom style directory")
}

// newConvertFlagSet builds the convert FlagSet bound to f.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.manifest, "manifest", false, "write <name>.assets.yaml listing referenced assets")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addLinkFlags(fs, &f.links)
	addFrontMatterFlags(fs, &f.frontMatter)
	addPreviewFlags(fs, &f.preview)

	annotateCompletion(fs)
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// Parse errors and usage go to w.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(w)
	fs.Usage = func() { printConvertUsage(w) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
