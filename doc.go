// Package storage2md converts Confluence storage-format documents (XHTML
// with ac: and ri: extensions) to Markdown.
//
// # Quick Start
//
//	conv := storage2md.NewConverter()
//
//	result, err := conv.Convert(ctx, storage2md.Input{
//	    Name:    "page-42",
//	    Content: `<p>Hello <strong>world</strong></p>`,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.Markdown) // Hello **world**
//
// The result also lists the assets the page references (images and
// attachments, deduplicated), the headings with their anchor slugs and the
// warnings recorded for constructs that could only be preserved as text.
//
// # Conversion Pipeline
//
//  1. HTML named entities are rewritten as numeric references
//  2. The payload is wrapped in a root element declaring the ac:, ri: and
//     any other prefixes it uses
//  3. A strict XML parse builds the element tree; malformed input stops
//     here with a *StructuralError
//  4. One traversal renders elements and macros to Markdown
//  5. Post-processing normalizes breaks, list indentation and blank lines
//
// # Options
//
// Per-conversion options are passed via Input, converter-wide behavior
// via functional options:
//
//	conv := storage2md.NewConverter(
//	    storage2md.WithLogger(logger),
//	    storage2md.WithDefaultOptions(storage2md.Options{
//	        CompactTables: true,
//	        EmitImages:    true,
//	        LinkPolicy: func(target string, kind storage2md.TargetKind) string {
//	            if kind == storage2md.TargetImage {
//	                return "images/" + target
//	            }
//	            return target
//	        },
//	    }),
//	    storage2md.WithMacro("jira-chart", func(call storage2md.MacroCall) string {
//	        return "_chart omitted_"
//	    }),
//	)
//
// # Errors
//
// Malformed documents yield a *StructuralError carrying the line, byte
// offset and open element path; it matches ErrStructural:
//
//	if errors.Is(err, storage2md.ErrStructural) {
//	    var se *storage2md.StructuralError
//	    errors.As(err, &se)
//	    log.Printf("skipping %s: %s", se.Document, se.Context())
//	}
//
// Unknown macros and elements are not errors: their text is kept and a
// Warning is recorded.
//
// # Parallel Processing
//
// A Converter is safe for concurrent use. ConvertBatch converts many
// documents with a bounded worker pool and keeps going after a failure:
//
//	results := conv.ConvertBatch(ctx, inputs, 0) // 0 = automatic worker count
//	summary := storage2md.Summarize(results)
package storage2md
