package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultStyleName is the name of the built-in preview style.
const DefaultStyleName = "default"

// LoadStyleFile reads a stylesheet given by path. The file must have a
// .css extension.
func LoadStyleFile(path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".css") {
		return "", fmt.Errorf("%w: %q is not a .css file", ErrInvalidAssetName, path)
	}

	content, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrStyleNotFound, path)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}
