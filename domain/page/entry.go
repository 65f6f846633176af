package page

// Kind classifies a materialized entry.
type Kind int

// Entry kinds.
const (
	KindPage Kind = iota
	KindAttachment
	KindIndex
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindAttachment:
		return "attachment"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Entry is one materialized file: a forward-slash relative path and its
// content. Page and attachment paths carry a leading slash; the index path
// does not. Entries are append-only — once emitted they are never revised.
type Entry struct {
	path    string
	content []byte
	kind    Kind
}

// NewEntry creates an Entry.
func NewEntry(path string, content []byte, kind Kind) Entry {
	return Entry{
		path:    path,
		content: content,
		kind:    kind,
	}
}

// Path returns the entry's relative path.
func (e Entry) Path() string { return e.path }

// Content returns the entry's byte payload.
func (e Entry) Content() []byte { return e.content }

// Kind returns the entry classification.
func (e Entry) Kind() Kind { return e.kind }

// Tree is the ordered result of materializing one page tree. Entry order is
// part of the contract: depth-first over pages, a page's attachment entries
// before its page entry, the index entry last.
type Tree struct {
	entries []Entry
}

// NewTree creates a Tree from entries in emission order.
func NewTree(entries []Entry) Tree {
	if entries == nil {
		entries = []Entry{}
	}
	return Tree{entries: entries}
}

// Entries returns all entries in emission order.
func (t Tree) Entries() []Entry { return t.entries }

// Len returns the number of entries.
func (t Tree) Len() int { return len(t.entries) }

// Index returns the index entry and true when present.
func (t Tree) Index() (Entry, bool) {
	for _, e := range t.entries {
		if e.kind == KindIndex {
			return e, true
		}
	}
	return Entry{}, false
}
