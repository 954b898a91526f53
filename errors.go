package storage2md

import (
	"errors"

	"github.com/alnah/go-storage2md/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// ErrStructural marks a document that is not well-formed storage format.
	// Every *StructuralError matches it with errors.Is.
	ErrStructural = errors.New("malformed storage document")

	// ErrPreview indicates the HTML preview could not be rendered.
	ErrPreview = pipeline.ErrPreview
)
