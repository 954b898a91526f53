package main

import (
	"path"
	"strings"

	storage2md "github.com/alnah/go-storage2md"
	"github.com/alnah/go-storage2md/internal/config"
)

// newLinkPolicy maps storage references onto the files the CLI writes:
// pages become sibling Markdown files (a space key becomes a directory),
// assets land under the images directory and user mentions follow the
// configured URL template.
func newLinkPolicy(links config.LinksConfig, imagesDir string) storage2md.LinkPolicy {
	imagesDir = strings.Trim(filepathToSlash(imagesDir), "/")

	return func(target string, kind storage2md.TargetKind) string {
		switch kind {
		case storage2md.TargetPage:
			return pageLink(target, links)
		case storage2md.TargetImage, storage2md.TargetAttachment:
			if imagesDir == "" {
				return target
			}
			return path.Join(imagesDir, target)
		case storage2md.TargetUser:
			if links.UserURL == "" || target == "" {
				return ""
			}
			return strings.ReplaceAll(links.UserURL, config.UserPlaceholder, target)
		default:
			return target
		}
	}
}

// pageLink turns "SPACE:Title", ":Title", "Title" or "SPACE:" into a
// relative Markdown path. The first colon ends the space key. Page anchors
// are appended by the converter.
func pageLink(target string, links config.LinksConfig) string {
	space, title, found := strings.Cut(target, ":")
	if !found {
		space, title = "", target
	}

	if title == "" {
		if space == "" {
			return ""
		}
		return space + "/"
	}

	name := pageName(title, links.SlugifyPages)
	if name == "" {
		return ""
	}
	if space != "" {
		return space + "/" + name + links.PageSuffix
	}
	return name + links.PageSuffix
}

// pageName returns the file name stem for a page title.
func pageName(title string, slugify bool) string {
	if slugify {
		return storage2md.Slugify(title)
	}
	return strings.TrimSpace(strings.NewReplacer("/", "-", `\`, "-").Replace(title))
}

// filepathToSlash converts OS separators so links always use "/".
func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
