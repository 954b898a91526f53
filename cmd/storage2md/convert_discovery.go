package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-storage2md/internal/config"
	"github.com/alnah/go-storage2md/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have a storage document extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// maxWorkers bounds an explicit --workers value.
const maxWorkers = 64

// Output suffixes written next to each document.
const (
	markdownExt = ".md"
	previewExt  = ".preview.html"
	manifestExt = ".assets.yaml"
)

// defaultExtensions are the storage exports accepted without configuration.
var defaultExtensions = []string{".xml", ".html", ".storage"}

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// acceptedExtensions returns the default extensions plus input.extensions.
func acceptedExtensions(cfg *config.Config) []string {
	exts := slices.Clone(defaultExtensions)
	for _, ext := range cfg.Input.Extensions {
		ext = strings.ToLower(ext)
		if !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	return exts
}

// discoverFiles finds all storage documents to convert. Previews written by
// an earlier run are skipped so they are never read back as input.
func discoverFiles(inputPath, outputDir string, exts []string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateStorageExtension(inputPath, exts); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.HasExtension(path, exts) || isPreviewFile(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the Markdown output path for a document.
// The relative layout below baseInputDir is mirrored into outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := fileutil.ReplaceExtension(filepath.Base(inputPath), markdownExt)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if strings.EqualFold(filepath.Ext(outputDir), markdownExt) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base)
		}
	}

	return filepath.Join(outputDir, base)
}

// isPreviewFile reports whether path is an HTML preview from an earlier run.
func isPreviewFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), previewExt)
}

// validateStorageExtension checks that an explicit input file has an
// accepted extension.
func validateStorageExtension(path string, exts []string) error {
	if fileutil.HasExtension(path, exts) && !isPreviewFile(path) {
		return nil
	}
	return fmt.Errorf("%w: got %q (accepted: %s)", ErrInvalidExtension, filepath.Ext(path), strings.Join(exts, ", "))
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}
