package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appservice "github.com/docfold/docfold/application/service"
	"github.com/docfold/docfold/domain/page"
	"github.com/docfold/docfold/domain/service"
	"github.com/docfold/docfold/infrastructure/archive"
)

// fakeWiki is an in-memory PageReader backed by a static page graph.
type fakeWiki struct {
	pages       map[string]page.Page
	children    map[string][]string
	attachments map[string][]page.Attachment
	blobs       map[string][]byte

	pageErr       map[string]error
	childrenErr   map[string]error
	attachmentErr map[string]error
	downloadErr   map[string]error

	pageCalls int
}

func newFakeWiki() *fakeWiki {
	return &fakeWiki{
		pages:         map[string]page.Page{},
		children:      map[string][]string{},
		attachments:   map[string][]page.Attachment{},
		blobs:         map[string][]byte{},
		pageErr:       map[string]error{},
		childrenErr:   map[string]error{},
		attachmentErr: map[string]error{},
		downloadErr:   map[string]error{},
	}
}

func (f *fakeWiki) addPage(id, title, body string, childIDs ...string) {
	f.pages[id] = page.NewPage(id, title, 1, body)
	f.children[id] = childIDs
}

func (f *fakeWiki) addAttachment(pageID, attID, title string, data []byte) {
	f.attachments[pageID] = append(f.attachments[pageID], page.NewAttachment(attID, title, pageID))
	f.blobs[attID] = data
}

func (f *fakeWiki) Page(_ context.Context, id string) (page.Page, error) {
	f.pageCalls++
	if err := f.pageErr[id]; err != nil {
		return page.Page{}, err
	}
	p, ok := f.pages[id]
	if !ok {
		return page.Page{}, service.ErrNotFound
	}
	return p, nil
}

func (f *fakeWiki) Children(_ context.Context, id string) ([]page.Page, error) {
	if err := f.childrenErr[id]; err != nil {
		return nil, err
	}
	var out []page.Page
	for _, cid := range f.children[id] {
		c := f.pages[cid]
		out = append(out, page.NewPage(c.ID(), c.Title(), c.Version(), ""))
	}
	return out, nil
}

func (f *fakeWiki) Attachments(_ context.Context, id string) ([]page.Attachment, error) {
	if err := f.attachmentErr[id]; err != nil {
		return nil, err
	}
	return f.attachments[id], nil
}

func (f *fakeWiki) Download(_ context.Context, _, attachmentID string) ([]byte, error) {
	if err := f.downloadErr[attachmentID]; err != nil {
		return nil, err
	}
	return f.blobs[attachmentID], nil
}

var _ service.PageReader = (*fakeWiki)(nil)

// singleHost serves one reader for one host.
type singleHost struct {
	host   string
	reader service.PageReader
}

func (s singleHost) ReaderFor(host string) (service.PageReader, error) {
	if host != s.host {
		return nil, fmt.Errorf("no credentials configured for wiki host %q", host)
	}
	return s.reader, nil
}

// upperConverter marks conversion visibly without a real HTML pipeline.
type upperConverter struct{}

func (upperConverter) Convert(html string) (string, error) {
	return "md:" + strings.ToUpper(html), nil
}

type failingConverter struct{}

func (failingConverter) Convert(string) (string, error) {
	return "", errors.New("conversion failed")
}

const (
	testHost = "example.atlassian.net"
	rootURL  = "https://example.atlassian.net/wiki/spaces/DOC/pages/3032744732/Page-title"
)

func newExport(wiki *fakeWiki) *appservice.Export {
	return appservice.NewExport(singleHost{host: testHost, reader: wiki}, upperConverter{}, nil)
}

func paths(tree page.Tree) []string {
	out := make([]string, 0, tree.Len())
	for _, e := range tree.Entries() {
		out = append(out, e.Path())
	}
	return out
}

func TestReadTreeLeafPage(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>hello</p>")

	tree, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	require.NoError(t, err)

	require.Equal(t, 2, tree.Len())
	assert.Equal(t, []string{"/docs/Page title.md", "docs/index.md"}, paths(tree))
	assert.Equal(t, "md:<P>HELLO</P>", string(tree.Entries()[0].Content()))
	assert.Equal(t, page.KindPage, tree.Entries()[0].Kind())
	assert.Equal(t, page.KindIndex, tree.Entries()[1].Kind())
}

func TestReadTreeIndexContent(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>hello</p>")

	tree, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	require.NoError(t, err)

	idx, ok := tree.Index()
	require.True(t, ok)
	content := string(idx.Content())
	assert.Contains(t, content, "# Page title")
	assert.Contains(t, content, "[Page title](/docs/Page title.md)")
}

func TestReadTreeAttachmentsPrecedePage(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>hello</p>")
	wiki.addAttachment("3032744732", "att1", "Attachment 1.png", []byte{0x89, 0x50})

	tree, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/docs/attachments/Attachment-1.png",
		"/docs/Page title.md",
		"docs/index.md",
	}, paths(tree))
	assert.Equal(t, []byte{0x89, 0x50}, tree.Entries()[0].Content())
	assert.Equal(t, page.KindAttachment, tree.Entries()[0].Kind())
}

func TestReadTreeRootAttachmentWithChild(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>", "c1")
	wiki.addPage("c1", "Child page", "<p>child</p>")
	wiki.addAttachment("3032744732", "att1", "Attachment 1.png", []byte("png"))

	tree, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/docs/attachments/Attachment-1.png",
		"/docs/Page title.md",
		"/docs/Page title/Child page.md",
		"docs/index.md",
	}, paths(tree))
}

func TestReadTreeDepthFirst(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>", "c1", "c2")
	wiki.addPage("c1", "Child one", "<p>one</p>", "g1")
	wiki.addPage("c2", "Child two", "<p>two</p>")
	wiki.addPage("g1", "Grandchild", "<p>deep</p>")
	wiki.addAttachment("c1", "att1", "diagram 1.svg", []byte("svg"))

	tree, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/docs/Page title.md",
		"/docs/attachments/diagram-1.svg",
		"/docs/Page title/Child one.md",
		"/docs/Child one/Grandchild.md",
		"/docs/Page title/Child two.md",
		"docs/index.md",
	}, paths(tree))
}

func TestReadTreeAttachmentListingOrder(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>")
	wiki.addAttachment("3032744732", "a1", "first.png", []byte("1"))
	wiki.addAttachment("3032744732", "a2", "second.png", []byte("2"))
	wiki.addAttachment("3032744732", "a3", "third.png", []byte("3"))

	// Even with concurrent downloads the emission order must follow the
	// listing order.
	export := newExport(wiki).WithAttachmentParallelism(3)
	tree, err := export.ReadTree(context.Background(), rootURL)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/docs/attachments/first.png",
		"/docs/attachments/second.png",
		"/docs/attachments/third.png",
		"/docs/Page title.md",
		"docs/index.md",
	}, paths(tree))
	assert.Equal(t, []byte("1"), tree.Entries()[0].Content())
	assert.Equal(t, []byte("2"), tree.Entries()[1].Content())
	assert.Equal(t, []byte("3"), tree.Entries()[2].Content())
}

func TestReadTreeSkipsVisitedPages(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>", "c1", "c1")
	wiki.addPage("c1", "Child", "<p>child</p>", "3032744732")

	tree, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	require.NoError(t, err)

	// The duplicate child reference and the back edge to the root are both
	// visited only once.
	assert.Equal(t, []string{
		"/docs/Page title.md",
		"/docs/Page title/Child.md",
		"docs/index.md",
	}, paths(tree))
	assert.Equal(t, 2, wiki.pageCalls)
}

func TestReadTreeInvalidURL(t *testing.T) {
	wiki := newFakeWiki()
	_, err := newExport(wiki).ReadTree(context.Background(), "https://example.atlassian.net/wiki/spaces/DOC/overview")
	assert.ErrorIs(t, err, page.ErrInvalidURL)
}

func TestReadTreeUnknownHost(t *testing.T) {
	wiki := newFakeWiki()
	_, err := newExport(wiki).ReadTree(context.Background(), "https://other.atlassian.net/wiki/spaces/DOC/pages/1/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other.atlassian.net")
}

func TestReadTreeRootNotFound(t *testing.T) {
	wiki := newFakeWiki()
	_, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestReadTreeAbortsOnChildFailure(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>", "c1", "c2")
	wiki.addPage("c1", "Child one", "<p>one</p>")
	wiki.addPage("c2", "Child two", "<p>two</p>")
	wiki.pageErr["c2"] = service.ErrForbidden

	tree, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Zero(t, tree.Len(), "a failed traversal must not return partial results")
}

func TestReadTreeAbortsOnChildListingFailure(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>")
	wiki.childrenErr["3032744732"] = &service.RemoteError{Status: 503, URL: "https://x"}

	tree, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	var remote *service.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 503, remote.Status)
	assert.Zero(t, tree.Len())
}

func TestReadTreeAbortsOnAttachmentDownloadFailure(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>")
	wiki.addAttachment("3032744732", "a1", "ok.png", []byte("1"))
	wiki.addAttachment("3032744732", "a2", "broken.png", nil)
	wiki.downloadErr["a2"] = service.ErrNotFound

	tree, err := newExport(wiki).ReadTree(context.Background(), rootURL)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Zero(t, tree.Len())
}

func TestReadTreeAbortsOnConversionFailure(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>")

	export := appservice.NewExport(singleHost{host: testHost, reader: wiki}, failingConverter{}, nil)
	_, err := export.ReadTree(context.Background(), rootURL)
	var conv *service.ConversionError
	require.ErrorAs(t, err, &conv)
	assert.Equal(t, "3032744732", conv.PageID)
}

func TestReadTreeIsIdempotent(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>", "c1")
	wiki.addPage("c1", "Child", "<p>child</p>")
	wiki.addAttachment("c1", "a1", "pic.png", []byte("png"))

	export := newExport(wiki)
	first, err := export.ReadTree(context.Background(), rootURL)
	require.NoError(t, err)
	second, err := export.ReadTree(context.Background(), rootURL)
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	assert.Equal(t, paths(first), paths(second))
	for i := range first.Entries() {
		assert.Equal(t, first.Entries()[i].Content(), second.Entries()[i].Content())
	}
}

func TestReadPage(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>hello</p>", "c1")
	wiki.addPage("c1", "Child", "<p>child</p>")

	entry, err := newExport(wiki).ReadPage(context.Background(), rootURL)
	require.NoError(t, err)
	assert.Equal(t, "/docs/Page title.md", entry.Path())
	assert.Equal(t, "md:<P>HELLO</P>", string(entry.Content()))
	assert.Equal(t, page.KindPage, entry.Kind())
	// Single-page reads never touch children or attachments.
	assert.Equal(t, 1, wiki.pageCalls)
}

func TestExportToWritesAllEntries(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>", "c1")
	wiki.addPage("c1", "Child", "<p>child</p>")

	sink := archive.NewMemory()
	tree, err := newExport(wiki).ExportTo(context.Background(), rootURL, sink)
	require.NoError(t, err)

	files := sink.Files()
	require.Equal(t, tree.Len(), len(files))
	for i, e := range tree.Entries() {
		assert.Equal(t, e.Path(), files[i].Path())
		assert.Equal(t, e.Content(), files[i].Content())
	}
}

func TestExportToLeavesSinkEmptyOnFailure(t *testing.T) {
	wiki := newFakeWiki()
	wiki.addPage("3032744732", "Page title", "<p>root</p>", "c1")
	wiki.pageErr["c1"] = service.ErrNotFound

	sink := archive.NewMemory()
	_, err := newExport(wiki).ExportTo(context.Background(), rootURL, sink)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, sink.Files())
}
