// Package assets provides the CSS stylesheets used by HTML previews of
// converted pages.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in styles)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── Resolver          - combines both with custom-first fallback
//
// Resolver is the loader used by the CLI. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the style is not
// found. This enables overriding one style while keeping the others.
//
// # Directory Structure
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css
//
// # Security
//
// NormalizeStyleName rejects names carrying separators or dots, and
// FilesystemLoader reads through an os.Root opened on styles/, so a link
// pointing outside that directory fails with ErrPathTraversal.
package assets
