package assets

import "errors"

var (
	// ErrStyleNotFound means no loader knows the requested preview style.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName means a style name or file could not be a
	// stylesheet: empty, not .css, or shaped like a path.
	ErrInvalidAssetName = errors.New("invalid style name")

	// ErrInvalidBasePath means the configured assets.basePath is unusable.
	ErrInvalidBasePath = errors.New("invalid assets base path")

	// ErrAssetRead wraps I/O failures while reading a stylesheet.
	ErrAssetRead = errors.New("failed to read stylesheet")

	// ErrPathTraversal means a stylesheet resolved outside its directory.
	ErrPathTraversal = errors.New("stylesheet outside styles directory")
)
