package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-storage2md/internal/fileutil"
	"github.com/alnah/go-storage2md/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits for multi-tenant safety.
const (
	MaxPathLength       = 4096 // Directory and file paths
	MaxURLLength        = 2048 // Browser limit
	MaxSuffixLength     = 20   // ".md", ".markdown"
	MaxDateLength       = 60   // "auto:MMMM D, YYYY" or a literal date
	MaxStyleNameLength  = 100  // Style name or path
	MaxFieldKeyLength   = 50   // Front matter key
	MaxFieldValueLength = 500  // Front matter value
	MaxExtraFields      = 50   // Front matter key count
	MaxExtensionLength  = 20   // ".storage"
)

// DefaultPageSuffix is appended to page titles by the CLI link policy.
const DefaultPageSuffix = ".md"

// UserPlaceholder is replaced with the user key in links.userURL.
const UserPlaceholder = "{user}"

// Config holds all configuration for the storage2md CLI.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Tables      TablesConfig      `yaml:"tables"`
	Anchors     AnchorsConfig     `yaml:"anchors"`
	Images      ImagesConfig      `yaml:"images"`
	Links       LinksConfig       `yaml:"links"`
	FrontMatter FrontMatterConfig `yaml:"frontMatter"`
	Preview     PreviewConfig     `yaml:"preview"`
	Assets      AssetsConfig      `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string   `yaml:"defaultDir"` // Default input directory (empty = must specify)
	Extensions []string `yaml:"extensions"` // Extra extensions accepted during discovery
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Manifest   bool   `yaml:"manifest"`   // Write <name>.assets.yaml next to each document
}

// TablesConfig defines Markdown table layout.
type TablesConfig struct {
	Compact bool `yaml:"compact"` // Skip column width padding
}

// AnchorsConfig defines anchor macro handling.
type AnchorsConfig struct {
	Preserve bool `yaml:"preserve"` // Emit <a id="..."></a> for anchor macros
}

// ImagesConfig defines image and attachment output.
type ImagesConfig struct {
	Omit bool   `yaml:"omit"` // Render images as their alt text
	Dir  string `yaml:"dir"`  // Directory prefixed to asset links (empty = next to the document)
}

// LinksConfig defines how page and user references are rewritten.
type LinksConfig struct {
	PageSuffix   string `yaml:"pageSuffix"`   // Appended to page links (default: ".md")
	SlugifyPages bool   `yaml:"slugifyPages"` // "Release Notes" -> "release-notes.md"
	UserURL      string `yaml:"userURL"`      // e.g. "https://wiki.example.com/people/{user}"
}

// FrontMatterConfig defines the YAML front matter written before each document.
type FrontMatterConfig struct {
	Enabled bool              `yaml:"enabled"`
	Date    string            `yaml:"date"`   // "auto", "auto:FORMAT", or literal
	Fields  map[string]string `yaml:"fields"` // Static extra keys
}

// PreviewConfig defines the HTML preview written next to each document.
type PreviewConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Style          string `yaml:"style"`          // Name in internal/assets/styles/ or a path (empty = default)
	HighlightStyle string `yaml:"highlightStyle"` // Chroma style name (empty = "github")
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and value formats. Called automatically by
// LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	for i, ext := range c.Input.Extensions {
		name := fmt.Sprintf("input.extensions[%d]", i)
		if err := validateFieldLength(name, ext, MaxExtensionLength); err != nil {
			return err
		}
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: %s: %q must start with a dot", ErrInvalidField, name, ext)
		}
		if err := fileutil.ValidateExtension(ext[1:]); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidField, name, err)
		}
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	// Images
	if err := validateFieldLength("images.dir", c.Images.Dir, MaxPathLength); err != nil {
		return err
	}
	if filepath.IsAbs(c.Images.Dir) {
		return fmt.Errorf("%w: images.dir: %q must be relative to the output document", ErrInvalidField, c.Images.Dir)
	}

	// Links
	if err := validateFieldLength("links.pageSuffix", c.Links.PageSuffix, MaxSuffixLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Links.PageSuffix, "/\\\x00") {
		return fmt.Errorf("%w: links.pageSuffix: %q contains a path separator", ErrInvalidField, c.Links.PageSuffix)
	}
	if err := validateFieldLength("links.userURL", c.Links.UserURL, MaxURLLength); err != nil {
		return err
	}
	if c.Links.UserURL != "" {
		if !fileutil.IsURL(c.Links.UserURL) {
			return fmt.Errorf("%w: links.userURL: %q is not an http(s) URL", ErrInvalidField, c.Links.UserURL)
		}
		if !strings.Contains(c.Links.UserURL, UserPlaceholder) {
			return fmt.Errorf("%w: links.userURL: must contain %s", ErrInvalidField, UserPlaceholder)
		}
	}

	// Front matter
	if err := validateFieldLength("frontMatter.date", c.FrontMatter.Date, MaxDateLength); err != nil {
		return err
	}
	if len(c.FrontMatter.Fields) > MaxExtraFields {
		return fmt.Errorf("%w: frontMatter.fields has %d keys (max %d)", ErrInvalidField, len(c.FrontMatter.Fields), MaxExtraFields)
	}
	for k, v := range c.FrontMatter.Fields {
		if k == "" {
			return fmt.Errorf("%w: frontMatter.fields: empty key", ErrInvalidField)
		}
		if err := validateFieldLength("frontMatter.fields key", k, MaxFieldKeyLength); err != nil {
			return err
		}
		if err := validateFieldLength("frontMatter.fields."+k, v, MaxFieldValueLength); err != nil {
			return err
		}
	}

	// Preview
	if err := validateFieldLength("preview.style", c.Preview.Style, MaxStyleNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("preview.highlightStyle", c.Preview.HighlightStyle, MaxStyleNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns aligned tables, images on, page links as "<title>.md"
// and every optional output disabled.
func DefaultConfig() *Config {
	return &Config{
		Input:       InputConfig{DefaultDir: ""},
		Output:      OutputConfig{DefaultDir: "", Manifest: false},
		Tables:      TablesConfig{Compact: false},
		Anchors:     AnchorsConfig{Preserve: false},
		Images:      ImagesConfig{Omit: false},
		Links:       LinksConfig{PageSuffix: DefaultPageSuffix},
		FrontMatter: FrontMatterConfig{Enabled: false},
		Preview:     PreviewConfig{Enabled: false},
		Assets:      AssetsConfig{BasePath: ""},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-storage2md", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries the current directory first, then ~/.config/go-storage2md/.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
