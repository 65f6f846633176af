// Package service provides the application services that orchestrate the
// domain contracts: the recursive tree export and single-page reads.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/docfold/docfold/domain/page"
	"github.com/docfold/docfold/domain/service"
)

// DefaultAttachmentParallelism bounds concurrent attachment downloads
// within a single page.
const DefaultAttachmentParallelism = 4

// Export materializes a remote page tree into an ordered entry sequence.
// Pages are visited depth-first and strictly sequentially; only attachment
// downloads within one page fan out, and their results are re-sequenced
// into listing order before emission, so the output order never depends on
// network timing.
type Export struct {
	readers     service.ReaderProvider
	converter   service.Converter
	logger      *slog.Logger
	parallelism int
}

// NewExport creates an Export service.
func NewExport(readers service.ReaderProvider, converter service.Converter, logger *slog.Logger) *Export {
	if logger == nil {
		logger = slog.Default()
	}
	return &Export{
		readers:     readers,
		converter:   converter,
		logger:      logger,
		parallelism: DefaultAttachmentParallelism,
	}
}

// WithAttachmentParallelism sets how many attachment downloads may run
// concurrently per page. Values <= 0 are ignored.
func (e *Export) WithAttachmentParallelism(n int) *Export {
	if n > 0 {
		e.parallelism = n
	}
	return e
}

// ReadTree resolves the page id from rawURL and materializes the page, its
// full descendant closure, and all attachments. The first failed fetch
// anywhere in the traversal aborts the whole call — there is no partial
// tree result.
func (e *Export) ReadTree(ctx context.Context, rawURL string) (page.Tree, error) {
	host, rootID, err := page.ParseURL(rawURL)
	if err != nil {
		return page.Tree{}, err
	}

	reader, err := e.readers.ReaderFor(host)
	if err != nil {
		return page.Tree{}, err
	}

	e.logger.Info("reading page tree",
		slog.String("host", host),
		slog.String("root_id", rootID),
	)

	t := &traversal{
		reader:      reader,
		converter:   e.converter,
		visited:     map[string]struct{}{},
		parallelism: e.parallelism,
		logger:      e.logger,
	}
	if err := t.visit(ctx, rootID, "", true); err != nil {
		return page.Tree{}, err
	}

	t.entries = append(t.entries, page.NewEntry(
		page.IndexPath(),
		indexContent(t.rootTitle, t.rootPath),
		page.KindIndex,
	))

	e.logger.Info("page tree complete",
		slog.String("root_id", rootID),
		slog.Int("entries", len(t.entries)),
	)
	return page.NewTree(t.entries), nil
}

// ReadPage fetches and converts a single page without recursing into its
// children or attachments.
func (e *Export) ReadPage(ctx context.Context, rawURL string) (page.Entry, error) {
	host, id, err := page.ParseURL(rawURL)
	if err != nil {
		return page.Entry{}, err
	}

	reader, err := e.readers.ReaderFor(host)
	if err != nil {
		return page.Entry{}, err
	}

	p, err := reader.Page(ctx, id)
	if err != nil {
		return page.Entry{}, fmt.Errorf("fetch page %s: %w", id, err)
	}

	markdown, err := e.converter.Convert(p.Body())
	if err != nil {
		return page.Entry{}, &service.ConversionError{PageID: id, Err: err}
	}

	return page.NewEntry(page.RootPath(p.Title()), []byte(markdown), page.KindPage), nil
}

// ExportTo reads the tree for rawURL and streams every entry into sink in
// emission order.
func (e *Export) ExportTo(ctx context.Context, rawURL string, sink service.Sink) (page.Tree, error) {
	tree, err := e.ReadTree(ctx, rawURL)
	if err != nil {
		return page.Tree{}, err
	}

	for _, entry := range tree.Entries() {
		if err := sink.Put(entry.Path(), entry.Content()); err != nil {
			return page.Tree{}, fmt.Errorf("write %s: %w", entry.Path(), err)
		}
	}
	return tree, nil
}

// traversal holds the per-invocation state: the visited-id set guards
// against cyclic or duplicate-referencing wikis, entries accumulate in
// emission order.
type traversal struct {
	reader      service.PageReader
	converter   service.Converter
	visited     map[string]struct{}
	entries     []page.Entry
	parallelism int
	rootTitle   string
	rootPath    string
	logger      *slog.Logger
}

func (t *traversal) visit(ctx context.Context, id, parentTitle string, isRoot bool) error {
	if _, ok := t.visited[id]; ok {
		return nil
	}
	t.visited[id] = struct{}{}

	p, err := t.reader.Page(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch page %s: %w", id, err)
	}
	if isRoot {
		p = p.AsRoot()
	}

	markdown, err := t.converter.Convert(p.Body())
	if err != nil {
		return &service.ConversionError{PageID: id, Err: err}
	}

	attachments, err := t.reader.Attachments(ctx, id)
	if err != nil {
		return fmt.Errorf("list attachments of %s: %w", id, err)
	}
	blobs, err := t.download(ctx, id, attachments)
	if err != nil {
		return err
	}
	for i, a := range attachments {
		t.entries = append(t.entries, page.NewEntry(
			page.AttachmentPath(a.Title()),
			blobs[i],
			page.KindAttachment,
		))
	}

	var path string
	if p.IsRoot() {
		path = page.RootPath(p.Title())
		t.rootTitle = p.Title()
		t.rootPath = path
	} else {
		path = page.ChildPath(parentTitle, p.Title())
	}
	t.entries = append(t.entries, page.NewEntry(path, []byte(markdown), page.KindPage))

	t.logger.Debug("page materialized",
		slog.String("id", id),
		slog.String("path", path),
		slog.Int("attachments", len(attachments)),
	)

	children, err := t.reader.Children(ctx, id)
	if err != nil {
		return fmt.Errorf("list children of %s: %w", id, err)
	}
	for _, child := range children {
		if err := t.visit(ctx, child.ID(), p.Title(), false); err != nil {
			return err
		}
	}
	return nil
}

// download fetches attachment bytes, fanning out up to parallelism
// requests and returning blobs indexed by listing position.
func (t *traversal) download(ctx context.Context, pageID string, attachments []page.Attachment) ([][]byte, error) {
	blobs := make([][]byte, len(attachments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.parallelism)
	for i, a := range attachments {
		g.Go(func() error {
			data, err := t.reader.Download(gctx, pageID, a.ID())
			if err != nil {
				return fmt.Errorf("download attachment %q of %s: %w", a.Title(), pageID, err)
			}
			blobs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blobs, nil
}

func indexContent(rootTitle, rootPath string) []byte {
	return []byte(fmt.Sprintf("# %s\n\nThis tree was imported from a wiki. Start at [%s](%s).\n",
		rootTitle, rootTitle, rootPath))
}
