package pipeline

import (
	"strings"

	"github.com/alnah/go-storage2md/internal/storage"
)

// anchorLink renders <a href>. Fragment-only targets are anchors, everything
// else goes to the policy as an external target.
func anchorLink(c *Conversion, n *storage.Node) string {
	text := c.RenderInline(n)
	href := strings.TrimSpace(n.AttrValue("href"))
	if href == "" {
		return text
	}
	kind := TargetExternal
	if strings.HasPrefix(href, "#") {
		kind = TargetAnchor
	}
	if text == "" {
		text = href
	}
	return markdownLink(text, c.resolve(href, href, kind))
}

// storageLink renders ac:link and its resource identifiers.
func storageLink(c *Conversion, n *storage.Node) string {
	text := linkBody(c, n)
	anchor := strings.TrimSpace(n.AttrValue("ac:anchor"))

	var target, fallback string
	kind := TargetPage
	switch res := n.FirstElement("ri:"); {
	case res.IsElement("ri:page"), res.IsElement("ri:blog-post"), res.IsElement("ri:content-entity"):
		title := res.AttrValue("ri:content-title")
		if title == "" && anchor != "" {
			return c.sameDocumentLink(text, anchor)
		}
		space := res.AttrValue("ri:space-key")
		target, fallback = pageTarget(space, title), title
		if space != "" {
			fallback = target
		}
		if text == "" {
			text = title
		}
	case res.IsElement("ri:attachment"):
		name := res.AttrValue("ri:filename")
		if name == "" {
			c.Warn(WarningMissingAttribute, "ri:attachment without ri:filename")
			return text
		}
		asset := c.assets.add(name, AssetAttachment)
		kind, target, fallback = TargetAttachment, asset.SuggestedLocalName, name
		if text == "" {
			text = name
		}
	case res.IsElement("ri:user"):
		return c.userLink(text, res)
	case res.IsElement("ri:url"):
		kind = TargetExternal
		target = res.AttrValue("ri:value")
		fallback = target
	case res.IsElement("ri:space"):
		target = res.AttrValue("ri:space-key") + ":"
		fallback = target
		if text == "" {
			text = res.AttrValue("ri:space-key")
		}
	case res == nil && anchor != "":
		return c.sameDocumentLink(text, anchor)
	default:
		if res != nil {
			c.Warn(WarningUnknownElement, res.Name)
		}
		return text
	}

	if text == "" {
		text = target
	}
	resolved := c.resolve(target, fallback, kind)
	if resolved != "" && anchor != "" {
		resolved += "#" + Slugify(anchor)
	}
	return markdownLink(text, resolved)
}

// sameDocumentLink links to an anchor of the document being converted.
func (c *Conversion) sameDocumentLink(text, anchor string) string {
	slug := "#" + Slugify(anchor)
	if text == "" {
		text = anchor
	}
	return markdownLink(text, c.resolve(slug, slug, TargetAnchor))
}

// linkBody returns the visible text of an ac:link.
func linkBody(c *Conversion, n *storage.Node) string {
	if body := n.Child("ac:plain-text-link-body"); body != nil {
		return singleLine(body.TextContent())
	}
	if body := n.Child("ac:link-body"); body != nil {
		return c.RenderInline(body)
	}
	return ""
}

// userLink renders a user reference as "@name", linked when the policy
// resolves the user.
func (c *Conversion) userLink(text string, user *storage.Node) string {
	id := userID(user)
	label := "@user"
	switch {
	case text != "":
		label = "@" + strings.TrimPrefix(text, "@")
	case id != "":
		label = "@" + id
	}
	if id == "" {
		return label
	}
	return markdownLink(label, c.resolve(id, "", TargetUser))
}

func userID(user *storage.Node) string {
	for _, attr := range []string{"ri:username", "ri:userkey", "ri:account-id"} {
		if v := user.AttrValue(attr); v != "" {
			return v
		}
	}
	return ""
}

// pageTarget joins a space key and a page title into a policy target.
// A title holding a colon always gets the separator, with an empty key when
// the page has no space, so the first colon always ends the key.
func pageTarget(space, title string) string {
	if space == "" && !strings.Contains(title, ":") {
		return title
	}
	return space + ":" + title
}

func markdownLink(text, target string) string {
	if target == "" {
		return text
	}
	return "[" + text + "](" + linkDestination(target) + ")"
}

// linkDestination wraps targets containing spaces or parentheses in angle brackets.
func linkDestination(target string) string {
	if strings.ContainsAny(target, " ()<>") {
		return "<" + strings.NewReplacer("<", "%3C", ">", "%3E").Replace(target) + ">"
	}
	return target
}

// htmlImage renders <img src>. Data URIs are kept inline without an asset.
func htmlImage(c *Conversion, n *storage.Node) string {
	src := strings.TrimSpace(n.AttrValue("src"))
	alt := strings.TrimSpace(n.AttrValue("alt"))
	if src == "" {
		c.Warn(WarningMissingAttribute, "img without src")
		return alt
	}
	if strings.HasPrefix(src, "data:") {
		return c.image(alt, src)
	}
	asset := c.assets.add(src, AssetImage)
	return c.image(alt, c.resolve(asset.SuggestedLocalName, src, TargetImage))
}

// storageImage renders ac:image with an attachment or URL resource.
func storageImage(c *Conversion, n *storage.Node) string {
	alt := strings.TrimSpace(n.AttrValue("ac:alt"))
	if alt == "" {
		alt = strings.TrimSpace(n.AttrValue("ac:title"))
	}

	var asset Asset
	var fallback string
	switch res := n.FirstElement("ri:"); {
	case res.IsElement("ri:attachment"):
		name := res.AttrValue("ri:filename")
		if name == "" {
			c.Warn(WarningMissingAttribute, "ri:attachment without ri:filename")
			return alt
		}
		asset, fallback = c.assets.add(name, AssetAttachment), name
	case res.IsElement("ri:url"):
		src := res.AttrValue("ri:value")
		if src == "" {
			c.Warn(WarningMissingAttribute, "ri:url without ri:value")
			return alt
		}
		asset, fallback = c.assets.add(src, AssetImage), src
	default:
		c.Warn(WarningMissingAttribute, "ac:image without resource")
		return alt
	}

	if alt == "" {
		alt = asset.SuggestedLocalName
	}
	return c.image(alt, c.resolve(asset.SuggestedLocalName, fallback, TargetImage))
}

// image emits image syntax, or only the alt text when images are disabled
// or the target could not be resolved.
func (c *Conversion) image(alt, target string) string {
	if !c.opts.EmitImages || target == "" {
		return alt
	}
	return "![" + alt + "](" + linkDestination(target) + ")"
}
