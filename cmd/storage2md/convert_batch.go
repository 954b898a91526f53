package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"

	storage2md "github.com/alnah/go-storage2md"
	"github.com/alnah/go-storage2md/internal/dateutil"
	"github.com/alnah/go-storage2md/internal/fileutil"
	"github.com/alnah/go-storage2md/internal/hints"
	"github.com/alnah/go-storage2md/internal/yamlutil"
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Warnings   []storage2md.Warning
	Assets     int
	Bytes      int
	Err        error
	Duration   time.Duration
}

// sourceDocument is a read input waiting for conversion.
type sourceDocument struct {
	index    int
	file     FileToConvert
	modified time.Time
}

// convertBatch reads every file, converts the readable ones through the
// converter's worker pool and writes the outputs. Results keep file order.
func convertBatch(ctx context.Context, conv *storage2md.Converter, files []FileToConvert, params *conversionParams) []ConversionResult {
	results := make([]ConversionResult, len(files))
	inputs := make([]storage2md.Input, 0, len(files))
	sources := make([]sourceDocument, 0, len(files))

	for i, f := range files {
		results[i] = ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath}

		content, modified, err := readDocument(f.InputPath)
		if err != nil {
			results[i].Err = err
			continue
		}
		inputs = append(inputs, storage2md.Input{Name: f.InputPath, Content: content})
		sources = append(sources, sourceDocument{index: i, file: f, modified: modified})
	}

	batch := conv.ConvertBatch(ctx, inputs, params.workers)
	for j, br := range batch {
		src := sources[j]
		r := &results[src.index]
		r.Duration = br.Duration
		if br.Err != nil {
			r.Err = br.Err
			continue
		}

		written, err := writeOutputs(ctx, src, br.Result, params)
		if err != nil {
			r.Err = err
			continue
		}
		r.Warnings = br.Result.Warnings
		r.Assets = len(br.Result.Assets)
		r.Bytes = written
	}

	return results
}

// readDocument returns the file content and its modification time.
func readDocument(path string) (string, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- discovered or user-provided path
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), info.ModTime(), nil
}

// writeOutputs writes the Markdown file and, when enabled, the asset
// manifest and HTML preview. It returns the Markdown size in bytes.
func writeOutputs(ctx context.Context, src sourceDocument, res *storage2md.Result, params *conversionParams) (int, error) {
	cfg := params.cfg
	out := src.file.OutputPath

	if err := os.MkdirAll(filepath.Dir(out), dirPermissions); err != nil {
		return 0, fmt.Errorf("%w: creating output directory: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	doc := res.Markdown
	if cfg.FrontMatter.Enabled {
		fm, err := buildFrontMatter(src, res, params)
		if err != nil {
			return 0, err
		}
		doc = joinFrontMatter(fm, doc)
	}

	if err := fileutil.WriteFileAtomic(out, []byte(doc), filePermissions); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	if cfg.Output.Manifest && len(res.Assets) > 0 {
		if err := writeManifest(src.file, res.Assets, cfg.Images.Dir); err != nil {
			return 0, err
		}
	}

	if cfg.Preview.Enabled {
		if err := writePreview(ctx, out, documentTitle(src.file.InputPath, res), res.Markdown, params); err != nil {
			return 0, err
		}
	}

	return len(doc), nil
}

// documentTitle returns the first heading, or the file name without its
// extension when the document has none.
func documentTitle(inputPath string, res *storage2md.Result) string {
	if len(res.Headings) > 0 && res.Headings[0].Text != "" {
		return res.Headings[0].Text
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// buildFrontMatter renders title, source, date and the configured extra
// fields, in that order. Extra fields are sorted by key.
func buildFrontMatter(src sourceDocument, res *storage2md.Result, params *conversionParams) (string, error) {
	cfg := params.cfg

	fields := []yamlutil.Field{
		{Key: "title", Value: documentTitle(src.file.InputPath, res)},
		{Key: "source", Value: filepath.Base(src.file.InputPath)},
	}

	if cfg.FrontMatter.Date != "" {
		date, err := dateutil.Resolve(cfg.FrontMatter.Date, params.env.Now(), src.modified)
		if err != nil {
			return "", fmt.Errorf("frontMatter.date: %w", err)
		}
		fields = append(fields, yamlutil.Field{Key: "date", Value: date})
	}

	keys := make([]string, 0, len(cfg.FrontMatter.Fields))
	for k := range cfg.FrontMatter.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fields = append(fields, yamlutil.Field{Key: k, Value: cfg.FrontMatter.Fields[k]})
	}

	return yamlutil.FrontMatter(fields)
}

// joinFrontMatter separates the block from the body with a blank line.
func joinFrontMatter(frontMatter, markdown string) string {
	if frontMatter == "" {
		return markdown
	}
	if markdown == "" {
		return frontMatter
	}
	return frontMatter + "\n" + markdown
}

// manifest is the <name>.assets.yaml layout.
type manifest struct {
	Document string          `yaml:"document"`
	Assets   []manifestAsset `yaml:"assets"`
}

// manifestAsset is one asset with the path the Markdown links to.
type manifestAsset struct {
	Kind   string `yaml:"kind"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// writeManifest lists the assets a document references so they can be
// fetched and placed where the links expect them.
func writeManifest(f FileToConvert, list []storage2md.Asset, imagesDir string) error {
	m := manifest{Document: filepath.Base(f.OutputPath)}
	dir := strings.Trim(filepathToSlash(imagesDir), "/")
	for _, a := range list {
		target := a.SuggestedLocalName
		if dir != "" {
			target = path.Join(dir, target)
		}
		m.Assets = append(m.Assets, manifestAsset{
			Kind:   a.Kind.String(),
			Source: a.SourceURL,
			Target: target,
		})
	}

	data, err := yamlutil.Marshal(m)
	if err != nil {
		return err
	}
	manifestPath := fileutil.ReplaceExtension(f.OutputPath, manifestExt)
	if err := fileutil.WriteFileAtomic(manifestPath, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// writePreview renders the Markdown as <name>.preview.html next to it.
func writePreview(ctx context.Context, mdPath, title, markdown string, params *conversionParams) error {
	assetDir, err := filepath.Abs(filepath.Dir(mdPath))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	page, err := storage2md.RenderPreview(ctx, markdown, storage2md.PreviewOptions{
		Title:          title,
		AssetDir:       assetDir,
		HighlightStyle: params.cfg.Preview.HighlightStyle,
		CSS:            params.previewCSS,
	})
	if err != nil {
		return err
	}

	previewPath := fileutil.ReplaceExtension(mdPath, previewExt)
	if err := fileutil.WriteFileAtomic(previewPath, []byte(page), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// reportResults prints per-document lines and the summary, and returns a
// *batchError when any document failed.
func reportResults(results []ConversionResult, quiet, verbose bool, env *Environment) error {
	var (
		succeeded, warnings, assetCount, bytes int
		errs                                   []error
	)

	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, failureHint(r.Err))
			continue
		}

		succeeded++
		warnings += len(r.Warnings)
		assetCount += r.Assets
		bytes += r.Bytes
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, %s)\n",
				r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond), humanize.Bytes(uint64(r.Bytes)))
			for _, w := range r.Warnings {
				fmt.Fprintf(env.Stdout, "  warning: %s: %s\n", w.Type, w.Detail)
			}
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed, %s written\n",
			succeeded, len(errs), humanize.Bytes(uint64(bytes)))
	}
	if !quiet && warnings > 0 {
		fmt.Fprintf(env.Stdout, "%s warning(s), %s asset(s) referenced%s\n",
			humanize.Comma(int64(warnings)), humanize.Comma(int64(assetCount)), hints.ForWarnings(warnings, verbose))
	}

	if len(errs) > 0 {
		return &batchError{failed: len(errs), total: len(results), errs: errs}
	}
	return nil
}

// failureHint returns a hint for errors the user can fix in the document.
func failureHint(err error) string {
	var se *storage2md.StructuralError
	if errors.As(err, &se) {
		return hints.ForStructuralError(se.Line, se.Context())
	}
	return ""
}
