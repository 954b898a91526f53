package pipeline

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// unsafeFilenameChars are replaced when deriving local asset names.
var unsafeFilenameChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeFilename makes name safe to use as a file name on common file systems.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.Replace(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "asset"
	}
	return name
}

// assetCollector records referenced assets in first-seen order, once per
// normalized source, and hands out unique local names.
type assetCollector struct {
	list  []Asset
	index map[string]int
	names map[string]bool
}

func newAssetCollector() *assetCollector {
	return &assetCollector{
		index: make(map[string]int),
		names: make(map[string]bool),
	}
}

// add records source and returns its descriptor. A source seen before
// returns the existing descriptor.
func (a *assetCollector) add(source string, kind AssetKind) Asset {
	key := kind.String() + "\x00" + normalizeSource(source, kind)
	if i, ok := a.index[key]; ok {
		return a.list[i]
	}

	asset := Asset{
		SourceURL:          source,
		SuggestedLocalName: a.uniqueName(SanitizeFilename(baseName(source, kind))),
		Kind:               kind,
	}
	a.index[key] = len(a.list)
	a.list = append(a.list, asset)
	return asset
}

// uniqueName appends -1, -2, ... before the extension until name is unused.
func (a *assetCollector) uniqueName(name string) string {
	if !a.names[name] {
		a.names[name] = true
		return name
	}
	stem, ext := splitExtension(name)
	for i := 1; ; i++ {
		candidate := stem + "-" + strconv.Itoa(i) + ext
		if !a.names[candidate] {
			a.names[candidate] = true
			return candidate
		}
	}
}

// normalizeSource lower-cases scheme and host and drops the fragment of
// absolute URLs. Attachment names are compared as written.
func normalizeSource(source string, kind AssetKind) string {
	if kind == AssetAttachment {
		return source
	}
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil || !u.IsAbs() {
		return source
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// baseName derives a file name from an attachment name or the last URL path segment.
func baseName(source string, kind AssetKind) string {
	if kind == AssetAttachment {
		return source
	}
	u, err := url.Parse(source)
	if err != nil {
		return "image"
	}
	base := path.Base(u.Path)
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	if base == "" || base == "." || base == "/" {
		return "image"
	}
	return base
}

// splitExtension splits "photo.final.png" into "photo.final" and ".png".
func splitExtension(name string) (string, string) {
	ext := path.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}
