package main

// Notes:
// - runConvert end to end is covered through runMain in convert_batch_test.go.
// - resolvePreviewCSS with a nil loader reads assets.basePath; the embedded
//   styles are exercised with an empty base path.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-storage2md/internal/assets"
	"github.com/alnah/go-storage2md/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag parsing
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	t.Run("all groups", func(t *testing.T) {
		t.Parallel()

		args := []string{
			"exports", "-o", "docs", "-w", "3", "--manifest",
			"--compact-tables", "--preserve-anchors", "--no-images", "--images-dir", "assets",
			"--page-suffix", ".markdown", "--slugify-links", "--user-url", "https://x/{user}",
			"--front-matter", "--date", "modified:long",
			"--html", "--style", "plain", "--highlight-style", "monokai", "--asset-path", "styles",
			"-c", "wiki", "-v",
		}
		f, positional, err := parseConvertFlags(args, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(positional) != 1 || positional[0] != "exports" {
			t.Errorf("positional = %v, want [exports]", positional)
		}
		if f.output != "docs" || f.workers != 3 || !f.manifest {
			t.Errorf("io flags = %q %d %v", f.output, f.workers, f.manifest)
		}
		if !f.render.compactTables || !f.render.preserveAnchors || !f.render.noImages || f.render.imagesDir != "assets" {
			t.Errorf("render flags = %+v", f.render)
		}
		if f.links.pageSuffix != ".markdown" || !f.links.slugifyPages || f.links.userURL != "https://x/{user}" {
			t.Errorf("link flags = %+v", f.links)
		}
		if !f.frontMatter.enabled || f.frontMatter.date != "modified:long" {
			t.Errorf("front matter flags = %+v", f.frontMatter)
		}
		if !f.preview.html || f.preview.style != "plain" || f.preview.highlightStyle != "monokai" || f.preview.assetPath != "styles" {
			t.Errorf("preview flags = %+v", f.preview)
		}
		if f.common.config != "wiki" || !f.common.verbose {
			t.Errorf("common flags = %+v", f.common)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseConvertFlags([]string{"--page-size", "a4"}, io.Discard)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI values override config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("flags override", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Images.Dir = "from-config"
		flags := &convertFlags{
			manifest: true,
			render:   renderFlags{compactTables: true, imagesDir: "from-flag"},
			links:    linkFlags{pageSuffix: ".markdown"},
			preview:  previewFlags{highlightStyle: "monokai"},
		}
		mergeFlags(flags, cfg)

		if !cfg.Output.Manifest || !cfg.Tables.Compact {
			t.Error("bool flags not merged")
		}
		if cfg.Images.Dir != "from-flag" {
			t.Errorf("Images.Dir = %q, want from-flag", cfg.Images.Dir)
		}
		if cfg.Links.PageSuffix != ".markdown" {
			t.Errorf("Links.PageSuffix = %q", cfg.Links.PageSuffix)
		}
		if cfg.Preview.HighlightStyle != "monokai" || cfg.Preview.Enabled {
			t.Errorf("Preview = %+v, want style set and preview still off", cfg.Preview)
		}
	})

	t.Run("empty flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Tables.Compact = true
		cfg.Links.UserURL = "https://x/{user}"
		mergeFlags(&convertFlags{}, cfg)

		if !cfg.Tables.Compact || cfg.Links.UserURL != "https://x/{user}" {
			t.Errorf("config changed by empty flags: %+v", cfg)
		}
	})

	t.Run("date implies front matter", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeFlags(&convertFlags{frontMatter: frontMatterFlags{date: "auto"}}, cfg)

		if !cfg.FrontMatter.Enabled || cfg.FrontMatter.Date != "auto" {
			t.Errorf("FrontMatter = %+v", cfg.FrontMatter)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildOptions - Config to converter options
// ---------------------------------------------------------------------------

func TestBuildOptions(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Tables.Compact = true
	cfg.Images.Omit = true
	cfg.Images.Dir = "assets"

	opts := buildOptions(cfg)
	if !opts.CompactTables || opts.PreserveAnchors || opts.EmitImages {
		t.Errorf("options = %+v", opts)
	}
	if opts.LinkPolicy == nil {
		t.Fatal("LinkPolicy is nil")
	}
}

// ---------------------------------------------------------------------------
// TestResolveInputPath - Positional argument vs config
// ---------------------------------------------------------------------------

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if _, err := resolveInputPath(nil, cfg); !errors.Is(err, ErrNoInput) {
		t.Errorf("no input: error = %v, want ErrNoInput", err)
	}

	cfg.Input.DefaultDir = "exports"
	if got, _ := resolveInputPath(nil, cfg); got != "exports" {
		t.Errorf("config input = %q, want exports", got)
	}
	if got, _ := resolveInputPath([]string{"page.xml"}, cfg); got != "page.xml" {
		t.Errorf("argument input = %q, want page.xml", got)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Flag, environment and default sources
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("no name uses defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := loadConfig("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Links.PageSuffix != config.DefaultPageSuffix {
			t.Errorf("PageSuffix = %q, want default", cfg.Links.PageSuffix)
		}
	})

	t.Run("flag wins over environment", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		flagPath := filepath.Join(dir, "flag.yaml")
		envPath := filepath.Join(dir, "env.yaml")
		writeFile(t, flagPath, "tables:\n  compact: true\n")
		writeFile(t, envPath, "anchors:\n  preserve: true\n")

		cfg, err := loadConfig(flagPath, envPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.Tables.Compact || cfg.Anchors.Preserve {
			t.Errorf("loaded wrong config: %+v", cfg)
		}
	})

	t.Run("unknown name carries hint", func(t *testing.T) {
		t.Parallel()

		_, err := loadConfig("", "storage2md-missing-config-name")
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		assertContains(t, "error", err.Error(), []string{"hint:", "--config"})
	})
}

// ---------------------------------------------------------------------------
// TestResolvePreviewCSS - Preview stylesheet sources
// ---------------------------------------------------------------------------

func TestResolvePreviewCSS(t *testing.T) {
	t.Parallel()

	t.Run("preview disabled", func(t *testing.T) {
		t.Parallel()

		css, err := resolvePreviewCSS(config.DefaultConfig(), nil)
		if err != nil || css != "" {
			t.Errorf("resolvePreviewCSS() = %q, %v; want empty", css, err)
		}
	})

	t.Run("embedded default", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Preview.Enabled = true
		css, err := resolvePreviewCSS(cfg, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(css, "body") {
			t.Errorf("default CSS missing body rule: %q", css)
		}
	})

	t.Run("style file path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "team.css")
		writeFile(t, path, "body { color: teal; }")

		cfg := config.DefaultConfig()
		cfg.Preview.Enabled = true
		cfg.Preview.Style = path
		css, err := resolvePreviewCSS(cfg, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if css != "body { color: teal; }" {
			t.Errorf("css = %q", css)
		}
	})

	t.Run("unknown style lists available", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Preview.Enabled = true
		cfg.Preview.Style = "neon"
		_, err := resolvePreviewCSS(cfg, assets.NewEmbeddedLoader())
		if !errors.Is(err, assets.ErrStyleNotFound) {
			t.Fatalf("error = %v, want ErrStyleNotFound", err)
		}
		assertContains(t, "error", err.Error(), []string{"available:", "default", "plain"})
	})

	t.Run("unknown highlight style", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Preview.Enabled = true
		cfg.Preview.HighlightStyle = "no-such-palette"
		_, err := resolvePreviewCSS(cfg, nil)
		if !errors.Is(err, ErrInvalidHighlightStyle) {
			t.Errorf("error = %v, want ErrInvalidHighlightStyle", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestValidateHighlightStyle - Chroma style names
// ---------------------------------------------------------------------------

func TestValidateHighlightStyle(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "github", "Monokai"} {
		if err := validateHighlightStyle(name); err != nil {
			t.Errorf("validateHighlightStyle(%q) = %v, want nil", name, err)
		}
	}
	if err := validateHighlightStyle("no-such-palette"); !errors.Is(err, ErrInvalidHighlightStyle) {
		t.Errorf("validateHighlightStyle(no-such-palette) = %v, want ErrInvalidHighlightStyle", err)
	}
}

// ---------------------------------------------------------------------------
// TestBatchError - Message and unwrapping
// ---------------------------------------------------------------------------

func TestBatchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := error(&batchError{failed: 1, total: 3, errs: []error{cause}})

	if got := err.Error(); got != "1 of 3 document(s) failed" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrConversionFailed) {
		t.Error("errors.Is(err, ErrConversionFailed) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}
