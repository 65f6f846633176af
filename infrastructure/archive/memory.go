// Package archive provides the sinks that materialize exported entries:
// an ordered in-memory collection, a zip archive, and a directory tree.
package archive

// File is one materialized file in a Memory sink.
type File struct {
	path    string
	content []byte
}

// Path returns the file path exactly as emitted.
func (f File) Path() string { return f.path }

// Content returns the file's byte payload.
func (f File) Content() []byte { return f.content }

// Memory accumulates entries in emission order and hands them back
// unchanged. It is the retrieval-side of the sink contract and the default
// sink in tests.
type Memory struct {
	files []File
}

// NewMemory creates an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Put appends a file. Paths are stored verbatim — the index entry's missing
// leading slash is preserved.
func (m *Memory) Put(path string, content []byte) error {
	m.files = append(m.files, File{path: path, content: content})
	return nil
}

// Files returns all files in emission order.
func (m *Memory) Files() []File {
	return m.files
}
