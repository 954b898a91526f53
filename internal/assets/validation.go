package assets

import (
	"fmt"
	"strings"
)

// NormalizeStyleName turns a user-supplied style name into the bare name
// looked up under styles/. Surrounding spaces and one ".css" suffix are
// accepted, so "--style plain.css" and "--style plain" select the same file.
// Anything that could escape the styles directory is rejected with
// ErrInvalidAssetName.
func NormalizeStyleName(name string) (string, error) {
	bare := strings.TrimSuffix(strings.TrimSpace(name), ".css")
	if bare == "" {
		return "", fmt.Errorf("%w: empty style name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(bare, `/\.:`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return bare, nil
}
