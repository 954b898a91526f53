package pipeline

// TargetKind classifies a reference handed to a LinkPolicy.
type TargetKind int

const (
	TargetExternal   TargetKind = iota // absolute URL
	TargetPage                         // another page, "SPACE:Title", ":Title" or "Title"
	TargetAttachment                   // attachment file, target is the asset's local name
	TargetAnchor                       // same-page anchor, "#slug"
	TargetImage                        // embedded image, target is the asset's local name
	TargetUser                         // user mention, target is the account reference
)

// String returns the lowercase kind name.
func (k TargetKind) String() string {
	switch k {
	case TargetExternal:
		return "external"
	case TargetPage:
		return "page"
	case TargetAttachment:
		return "attachment"
	case TargetAnchor:
		return "anchor"
	case TargetImage:
		return "image"
	case TargetUser:
		return "user"
	}
	return "unknown"
}

// LinkPolicy maps a reference to the path written in the output.
// Returning "" marks the reference as unresolvable: the link text is kept
// without a target.
type LinkPolicy func(target string, kind TargetKind) string

// Options are fixed for the duration of one conversion.
type Options struct {
	CompactTables   bool
	PreserveAnchors bool
	EmitImages      bool
	// LinkPolicy rewrites link and image targets. Nil keeps every reference
	// as found in the source (remote URL, attachment file name, page title).
	LinkPolicy      LinkPolicy
}

// AssetKind classifies a referenced binary resource.
type AssetKind int

const (
	AssetImage      AssetKind = iota // image addressed by URL
	AssetAttachment                  // file attached to the page, addressed by file name
)

// String returns the lowercase kind name.
func (k AssetKind) String() string {
	if k == AssetAttachment {
		return "attachment"
	}
	return "image"
}

// Asset identifies a binary resource the caller may want to fetch.
type Asset struct {
	SourceURL          string
	SuggestedLocalName string
	Kind               AssetKind
}

// WarningType classifies a degradation that did not stop conversion.
type WarningType string

const (
	WarningUnknownMacro        WarningType = "unknown_macro"
	WarningUnknownElement      WarningType = "unknown_element"
	WarningMissingAttribute    WarningType = "missing_attribute"
	WarningUnresolvedReference WarningType = "unresolved_reference"
	WarningDroppedFeature      WarningType = "dropped_feature"
)

// Warning records one degradation.
type Warning struct {
	Type   WarningType
	Detail string
}

// Heading is a rendered heading with its unique anchor slug.
type Heading struct {
	Level int
	Text  string
	Slug  string
}

// Output is the result of converting one document.
type Output struct {
	Markdown string
	Assets   []Asset
	Headings []Heading
	Warnings []Warning
}
