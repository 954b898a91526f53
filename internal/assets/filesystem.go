package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// stylesSubdir is where a custom asset directory keeps its stylesheets.
const stylesSubdir = "styles"

// FilesystemLoader reads preview stylesheets from {basePath}/styles.
// Reads go through an os.Root, so neither a crafted name nor a symlink can
// reach files outside that directory.
type FilesystemLoader struct {
	stylesDir string
}

// NewFilesystemLoader checks that basePath is a readable directory.
// The styles subdirectory may be missing; it then offers no styles.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}

	return &FilesystemLoader{stylesDir: filepath.Join(abs, stylesSubdir)}, nil
}

// LoadStyle reads {name}.css from the styles directory.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	name, err := NormalizeStyleName(name)
	if err != nil {
		return "", err
	}
	file := name + ".css"

	root, err := os.OpenRoot(f.stylesDir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = root.Close() }()

	content, err := root.ReadFile(file)
	switch {
	case err == nil:
		return string(content), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	case f.escapes(file):
		return "", fmt.Errorf("%w: %s leaves %s", ErrPathTraversal, file, f.stylesDir)
	default:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
}

// escapes reports whether file exists when followed without the root, which
// after a failed rooted read means a link points outside the directory.
func (f *FilesystemLoader) escapes(file string) bool {
	_, err := os.Stat(filepath.Join(f.stylesDir, file))
	return err == nil
}

// ListStyles returns the *.css names in the styles directory. A missing
// directory yields no names.
func (f *FilesystemLoader) ListStyles() ([]string, error) {
	if _, err := os.Stat(f.stylesDir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return listStyles(os.DirFS(f.stylesDir), ".")
}

var _ StyleLoader = (*FilesystemLoader)(nil)
