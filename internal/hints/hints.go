// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"path/filepath"
	"strings"
)

// userConfigMarker identifies the per-user config directory in search paths.
const userConfigMarker = "go-storage2md"

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/"+userConfigMarker+"/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStructuralError returns hints for documents that are not well-formed.
// context is the open element path ("table > tr"); it may be empty.
func ForStructuralError(line int, context string) string {
	hint := fmt.Sprintf("look for an unclosed or mismatched tag before line %d", line)
	if context != "" {
		hint += " (inside " + context + ")"
	}
	return formatHints([]string{hint, "export the page body in storage format, not the view format"})
}

// ForNoInputs returns hints when discovery finds nothing to convert.
func ForNoInputs(extensions []string) string {
	if len(extensions) == 0 {
		return ""
	}
	return formatHints([]string{
		"accepted extensions: " + strings.Join(extensions, ", "),
		"add more with input.extensions in the config",
	})
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForHighlightStyle returns hints for unknown chroma style names.
func ForHighlightStyle() string {
	return format("use a chroma style name such as github, monokai or dracula")
}

// ForWarnings returns a hint when conversions degraded silently.
func ForWarnings(count int, verbose bool) string {
	if count == 0 || verbose {
		return ""
	}
	return format("run with --verbose to list conversion warnings")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
