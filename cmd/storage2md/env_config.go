package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-storage2md/internal/config"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "STORAGE2MD_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // STORAGE2MD_CONFIG: config file name or path
	InputDir   string // STORAGE2MD_INPUT_DIR: default input directory
	OutputDir  string // STORAGE2MD_OUTPUT_DIR: default output directory
	ImagesDir  string // STORAGE2MD_IMAGES_DIR: asset link directory
	UserURL    string // STORAGE2MD_USER_URL: user mention URL template
	Style      string // STORAGE2MD_STYLE: preview CSS style name or path
	Workers    int    // STORAGE2MD_WORKERS: parallel workers
}

// knownEnvVars lists valid STORAGE2MD_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"STORAGE2MD_CONFIG":     true,
	"STORAGE2MD_INPUT_DIR":  true,
	"STORAGE2MD_OUTPUT_DIR": true,
	"STORAGE2MD_IMAGES_DIR": true,
	"STORAGE2MD_USER_URL":   true,
	"STORAGE2MD_STYLE":      true,
	"STORAGE2MD_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("STORAGE2MD_CONFIG"),
		InputDir:   os.Getenv("STORAGE2MD_INPUT_DIR"),
		OutputDir:  os.Getenv("STORAGE2MD_OUTPUT_DIR"),
		ImagesDir:  os.Getenv("STORAGE2MD_IMAGES_DIR"),
		UserURL:    os.Getenv("STORAGE2MD_USER_URL"),
		Style:      os.Getenv("STORAGE2MD_STYLE"),
	}

	// Parse int for workers
	if workers := os.Getenv("STORAGE2MD_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized STORAGE2MD_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.ImagesDir != "" && cfg.Images.Dir == "" {
		cfg.Images.Dir = env.ImagesDir
	}
	if env.UserURL != "" && cfg.Links.UserURL == "" {
		cfg.Links.UserURL = env.UserURL
	}

	// A style only matters for previews, so setting one does not enable them.
	if env.Style != "" && cfg.Preview.Style == "" {
		cfg.Preview.Style = env.Style
	}
}
