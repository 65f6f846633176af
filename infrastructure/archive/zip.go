package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// Zip streams entries into a zip archive. Leading slashes are stripped from
// member names so archives unpack relative to their extraction directory.
// Close must be called to flush the central directory.
type Zip struct {
	writer *zip.Writer
}

// NewZip creates a Zip sink writing to w.
func NewZip(w io.Writer) *Zip {
	return &Zip{writer: zip.NewWriter(w)}
}

// Put adds one file to the archive.
func (z *Zip) Put(path string, content []byte) error {
	name := strings.TrimPrefix(path, "/")
	f, err := z.writer.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

// Close finalizes the archive.
func (z *Zip) Close() error {
	return z.writer.Close()
}
