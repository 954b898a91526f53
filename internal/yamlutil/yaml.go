// Package yamlutil holds the YAML the CLI reads and writes: strict config
// decoding, asset manifests and Markdown front matter blocks.
package yamlutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrEmptyKey       = errors.New("yamlutil: empty front matter key")
)

// frontMatterDelimiter opens and closes a front matter block.
const frontMatterDelimiter = "---\n"

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// UnmarshalStrict decodes data into v and rejects unknown fields, so a
// misspelled config key is an error rather than a silent default.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Field is one key of a front matter block.
type Field struct {
	Key   string
	Value any
}

// FrontMatter renders fields as a "---" delimited YAML block, keys in the
// given order. Nil values are skipped; no fields yields "".
func FrontMatter(fields []Field) (string, error) {
	items := make(yaml.MapSlice, 0, len(fields))
	for _, f := range fields {
		if f.Key == "" {
			return "", ErrEmptyKey
		}
		if f.Value == nil {
			continue
		}
		items = append(items, yaml.MapItem{Key: f.Key, Value: f.Value})
	}
	if len(items) == 0 {
		return "", nil
	}

	body, err := Marshal(items)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(frontMatterDelimiter)
	b.Write(body)
	if len(body) > 0 && body[len(body)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(frontMatterDelimiter)
	return b.String(), nil
}
