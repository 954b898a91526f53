// Package pipeline renders a parsed storage document to Markdown.
//
// A conversion walks the element tree once:
//   - the Node Dispatcher sends macros to the macro registry and every
//     other element to the element table
//   - handlers recurse through the Conversion, which carries the nesting
//     state, the heading slugs, the asset collector and the warnings
//   - table of contents placeholders are resolved once all headings are known
//   - the post-processor normalizes breaks, list indentation and blank lines
//
// The package also renders Markdown previews to HTML with goldmark, so
// produced documents can be checked in a browser.
package pipeline
