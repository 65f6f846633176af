// Package page holds the value objects for a remote wiki page tree:
// pages, attachments, and the materialized entries produced from them.
package page

// Page identifies a remote wiki page. The id is opaque and unique per host.
// Body carries the raw storage-format HTML when the page was fetched in
// full; listings return pages without a body.
type Page struct {
	id      string
	title   string
	version int
	body    string
	root    bool
}

// NewPage creates a Page.
func NewPage(id, title string, version int, body string) Page {
	return Page{
		id:      id,
		title:   title,
		version: version,
		body:    body,
	}
}

// ID returns the host-unique page identifier.
func (p Page) ID() string { return p.id }

// Title returns the display title.
func (p Page) Title() string { return p.title }

// Version returns the page version counter.
func (p Page) Version() int { return p.version }

// Body returns the raw HTML body, empty for listing results.
func (p Page) Body() string { return p.body }

// IsRoot reports whether this page is the traversal root.
func (p Page) IsRoot() bool { return p.root }

// AsRoot returns a copy of the page marked as the traversal root.
func (p Page) AsRoot() Page {
	p.root = true
	return p
}

// Attachment identifies a binary file attached to a page. The title is the
// original filename and may contain characters that need sanitizing before
// use in a path.
type Attachment struct {
	id     string
	title  string
	pageID string
}

// NewAttachment creates an Attachment belonging to the given page.
func NewAttachment(id, title, pageID string) Attachment {
	return Attachment{
		id:     id,
		title:  title,
		pageID: pageID,
	}
}

// ID returns the attachment identifier.
func (a Attachment) ID() string { return a.id }

// Title returns the original filename.
func (a Attachment) Title() string { return a.title }

// PageID returns the id of the owning page.
func (a Attachment) PageID() string { return a.pageID }
