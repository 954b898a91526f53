package storage2md

import (
	"fmt"
	"strings"

	"github.com/alnah/go-storage2md/internal/pipeline"
)

// TargetKind tells a LinkPolicy what a reference points at.
type TargetKind = pipeline.TargetKind

// Target kinds passed to LinkPolicy.
const (
	TargetExternal   = pipeline.TargetExternal
	TargetPage       = pipeline.TargetPage
	TargetAttachment = pipeline.TargetAttachment
	TargetAnchor     = pipeline.TargetAnchor
	TargetImage      = pipeline.TargetImage
	TargetUser       = pipeline.TargetUser
)

// LinkPolicy maps a reference to the path written in the output. For
// images and attachments the target is the asset's SuggestedLocalName.
// Page targets are "SPACE:Title" with a space key, ":Title" for a title
// containing a colon without one, and "Title" otherwise; the first colon
// always ends the space key. Returning "" leaves the link text without a destination and records an
// unresolved_reference warning.
type LinkPolicy = pipeline.LinkPolicy

// AssetKind classifies a referenced binary resource.
type AssetKind = pipeline.AssetKind

// Asset kinds.
const (
	AssetImage      = pipeline.AssetImage
	AssetAttachment = pipeline.AssetAttachment
)

// Asset describes a binary resource the document references. Assets are
// listed once per normalized source, in order of first reference.
type Asset = pipeline.Asset

// WarningType classifies a degradation that did not stop conversion.
type WarningType = pipeline.WarningType

// Warning types.
const (
	WarningUnknownMacro        = pipeline.WarningUnknownMacro
	WarningUnknownElement      = pipeline.WarningUnknownElement
	WarningMissingAttribute    = pipeline.WarningMissingAttribute
	WarningUnresolvedReference = pipeline.WarningUnresolvedReference
	WarningDroppedFeature      = pipeline.WarningDroppedFeature
)

// Warning is one degradation recorded during conversion.
type Warning = pipeline.Warning

// Heading is a rendered heading with its unique anchor slug.
type Heading = pipeline.Heading

// Options configures one conversion. Options are read once and never
// modified during conversion.
type Options struct {
	CompactTables   bool       // skip column width padding
	PreserveAnchors bool       // emit <a id> for anchor macros
	EmitImages      bool       // false renders images as their alt text
	LinkPolicy      LinkPolicy // nil keeps references as written
}

// DefaultOptions returns aligned tables, images on and no link rewriting.
func DefaultOptions() Options {
	return Options{EmitImages: true}
}

func (o Options) pipeline() pipeline.Options {
	return pipeline.Options{
		CompactTables:   o.CompactTables,
		PreserveAnchors: o.PreserveAnchors,
		EmitImages:      o.EmitImages,
		LinkPolicy:      o.LinkPolicy,
	}
}

// Input is one document to convert.
type Input struct {
	Name    string   // identifies the document in errors and logs (optional)
	Content string   // storage-format payload
	Options *Options // nil uses the converter defaults
}

// Result is the converted document. An empty Markdown string means the
// document had no content; failures are always reported as errors.
type Result struct {
	Markdown string
	Assets   []Asset
	Headings []Heading
	Warnings []Warning
}

// StructuralError reports a document that could not be parsed. No
// Markdown is produced for it.
type StructuralError struct {
	Document string   // Input.Name, may be empty
	Offset   int64    // byte offset in the original payload
	Line     int      // 1-based line in the original payload
	Path     []string // open elements at the failure, outermost first
	Err      error
}

func (e *StructuralError) Error() string {
	var b strings.Builder
	if e.Document != "" {
		b.WriteString(e.Document)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%v at line %d, offset %d", ErrStructural, e.Line, e.Offset)
	if len(e.Path) > 0 {
		b.WriteString(" inside ")
		b.WriteString(e.Context())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Context returns the open element path, e.g. "table > tbody > tr".
func (e *StructuralError) Context() string {
	return strings.Join(e.Path, " > ")
}

// Unwrap makes the error match ErrStructural and the parser error.
func (e *StructuralError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStructural}
	}
	return []error{ErrStructural, e.Err}
}

// Slugify returns the anchor slug used for heading ids and link anchors:
// lower-cased, accents folded, punctuation dropped, spaces as hyphens.
// LinkPolicy implementations can use it to derive file names from titles.
func Slugify(text string) string {
	return pipeline.Slugify(text)
}
