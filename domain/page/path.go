package page

import "strings"

// Path rules for materialized entries. Page and attachment paths are
// leading-slash prefixed; the index path is not. Callers must not normalize
// this asymmetry away — downstream pipelines key off the exact strings.

// RootPath returns the path for the traversal root page.
func RootPath(title string) string {
	return "/docs/" + CleanTitle(title) + ".md"
}

// ChildPath returns the path for a descendant page. Only the immediate
// parent's title forms the directory segment, so a grandchild still nests
// one level under its direct parent rather than under the full ancestor
// chain.
func ChildPath(parentTitle, title string) string {
	return "/docs/" + CleanTitle(parentTitle) + "/" + CleanTitle(title) + ".md"
}

// AttachmentPath returns the path for an attachment. All attachments share
// one flat directory; colliding filenames are last-write-wins.
func AttachmentPath(title string) string {
	return "/docs/attachments/" + FileName(title)
}

// IndexPath returns the path of the synthesized index entry. Unlike page
// and attachment paths it carries no leading slash.
func IndexPath() string {
	return "docs/index.md"
}

// CleanTitle strips characters unsafe for filesystem paths from a page
// title. Spaces are kept — page files are named after the display title.
func CleanTitle(title string) string {
	return strings.TrimSpace(stripUnsafe(title))
}

// FileName sanitizes an attachment filename: unsafe characters are
// stripped and spaces become hyphens, leaving the extension intact.
func FileName(title string) string {
	return strings.ReplaceAll(CleanTitle(title), " ", "-")
}

func stripUnsafe(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			continue
		}
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
