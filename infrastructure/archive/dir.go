package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir materializes entries under a root directory. Paths resolving outside
// the root are rejected.
type Dir struct {
	root string
}

// NewDir creates a Dir sink rooted at root, creating it if needed.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute output directory.
func (d *Dir) Root() string { return d.root }

// Put writes one file, creating parent directories as needed.
func (d *Dir) Put(path string, content []byte) error {
	rel := filepath.FromSlash(strings.TrimPrefix(path, "/"))
	target := filepath.Join(d.root, rel)

	if !strings.HasPrefix(target, d.root+string(filepath.Separator)) {
		return fmt.Errorf("path %s escapes output directory", path)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
