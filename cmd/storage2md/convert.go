package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	storage2md "github.com/alnah/go-storage2md"
	"github.com/alnah/go-storage2md/internal/assets"
	"github.com/alnah/go-storage2md/internal/config"
	"github.com/alnah/go-storage2md/internal/dateutil"
	"github.com/alnah/go-storage2md/internal/fileutil"
	"github.com/alnah/go-storage2md/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput               = errors.New("no input specified")
	ErrNoFiles               = errors.New("no storage documents found")
	ErrReadInput             = errors.New("failed to read input file")
	ErrWriteOutput           = errors.New("failed to write output file")
	ErrConversionFailed      = errors.New("conversion failed")
	ErrInvalidHighlightStyle = errors.New("unknown highlight style")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// conversionParams groups parameters shared across the batch.
type conversionParams struct {
	cfg        *config.Config
	previewCSS string
	workers    int
	env        *Environment
}

// batchError reports the documents of a batch that failed. It matches
// ErrConversionFailed and every per-document error, so a malformed
// document still maps to its own exit code.
type batchError struct {
	failed int
	total  int
	errs   []error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d document(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	return append([]error{ErrConversionFailed}, e.errs...)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	logger := env.Logger
	if logger == nil {
		logger = newLogger(flags.common.verbose, flags.common.quiet)
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}

	// Priority: CLI flags > env vars > config file > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Catch a bad date format before any file is touched
	if err := dateutil.Validate(cfg.FrontMatter.Date); err != nil {
		return fmt.Errorf("frontMatter.date: %w", err)
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	exts := acceptedExtensions(cfg)
	files, err := discoverFiles(inputPath, outputDir, exts)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s%s", ErrNoFiles, inputPath, hints.ForNoInputs(exts))
	}

	previewCSS, err := resolvePreviewCSS(cfg, env.Styles)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}

	params := &conversionParams{
		cfg:        cfg,
		previewCSS: previewCSS,
		workers:    workers,
		env:        env,
	}

	conv := storage2md.NewConverter(
		storage2md.WithLogger(logger),
		storage2md.WithDefaultOptions(buildOptions(cfg)),
	)
	logger.Debug("starting batch", "documents", len(files), "workers", storage2md.ResolveWorkers(workers))

	results := convertBatch(ctx, conv, files, params)
	return reportResults(results, flags.common.quiet, flags.common.verbose, env)
}

// loadConfig loads the named config, falling back to the environment and
// then to the defaults.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.manifest {
		cfg.Output.Manifest = true
	}

	// Rendering flags
	if flags.render.compactTables {
		cfg.Tables.Compact = true
	}
	if flags.render.preserveAnchors {
		cfg.Anchors.Preserve = true
	}
	if flags.render.noImages {
		cfg.Images.Omit = true
	}
	if flags.render.imagesDir != "" {
		cfg.Images.Dir = flags.render.imagesDir
	}

	// Link flags
	if flags.links.pageSuffix != "" {
		cfg.Links.PageSuffix = flags.links.pageSuffix
	}
	if flags.links.slugifyPages {
		cfg.Links.SlugifyPages = true
	}
	if flags.links.userURL != "" {
		cfg.Links.UserURL = flags.links.userURL
	}

	// Front matter flags; a date implies front matter
	if flags.frontMatter.enabled {
		cfg.FrontMatter.Enabled = true
	}
	if flags.frontMatter.date != "" {
		cfg.FrontMatter.Date = flags.frontMatter.date
		cfg.FrontMatter.Enabled = true
	}

	// Preview flags; styling flags do not enable the preview on their own
	if flags.preview.html {
		cfg.Preview.Enabled = true
	}
	if flags.preview.style != "" {
		cfg.Preview.Style = flags.preview.style
	}
	if flags.preview.highlightStyle != "" {
		cfg.Preview.HighlightStyle = flags.preview.highlightStyle
	}
	if flags.preview.assetPath != "" {
		cfg.Assets.BasePath = flags.preview.assetPath
	}
}

// buildOptions maps config onto converter options.
func buildOptions(cfg *config.Config) storage2md.Options {
	return storage2md.Options{
		CompactTables:   cfg.Tables.Compact,
		PreserveAnchors: cfg.Anchors.Preserve,
		EmitImages:      !cfg.Images.Omit,
		LinkPolicy:      newLinkPolicy(cfg.Links, cfg.Images.Dir),
	}
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolvePreviewCSS loads the preview stylesheet when previews are on.
// A style containing a path separator is read from disk; a name goes
// through loader, or a resolver over assets.basePath when loader is nil.
func resolvePreviewCSS(cfg *config.Config, loader assets.StyleLoader) (string, error) {
	if !cfg.Preview.Enabled {
		return "", nil
	}

	if err := validateHighlightStyle(cfg.Preview.HighlightStyle); err != nil {
		return "", err
	}

	style := cfg.Preview.Style
	if style == "" {
		style = assets.DefaultStyleName
	}
	if fileutil.IsFilePath(style) {
		return assets.LoadStyleFile(style)
	}

	if loader == nil {
		resolver, err := assets.NewResolver(cfg.Assets.BasePath)
		if err != nil {
			return "", err
		}
		loader = resolver
	}

	css, err := loader.LoadStyle(style)
	if errors.Is(err, assets.ErrStyleNotFound) {
		// Error ignored: the hint is optional and the load error already explains the failure.
		available, _ := loader.ListStyles()
		return "", fmt.Errorf("%w%s", err, hints.ForStyleNotFound(available))
	}
	return css, err
}

// validateHighlightStyle rejects chroma style names that would silently
// fall back to the default palette.
func validateHighlightStyle(name string) error {
	if name == "" {
		return nil
	}
	if slices.ContainsFunc(highlightStyleNames(), func(s string) bool { return strings.EqualFold(s, name) }) {
		return nil
	}
	return fmt.Errorf("%w: %q%s", ErrInvalidHighlightStyle, name, hints.ForHighlightStyle())
}
