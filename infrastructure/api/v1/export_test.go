package v1_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfold/docfold/domain/page"
	"github.com/docfold/docfold/domain/service"
	v1 "github.com/docfold/docfold/infrastructure/api/v1"
)

type stubReader struct {
	tree page.Tree
	err  error
}

func (s stubReader) ReadTree(_ context.Context, _ string) (page.Tree, error) {
	return s.tree, s.err
}

func newRouter(reader v1.TreeReader) http.Handler {
	r := chi.NewRouter()
	v1.NewExports(reader, nil).Mount(r)
	return r
}

func doExport(t *testing.T, reader v1.TreeReader, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	newRouter(reader).ServeHTTP(rec, req)
	return rec
}

func TestExportStreamsZip(t *testing.T) {
	tree := page.NewTree([]page.Entry{
		page.NewEntry("/docs/attachments/a.png", []byte{1, 2}, page.KindAttachment),
		page.NewEntry("/docs/Root.md", []byte("# Root"), page.KindPage),
		page.NewEntry("docs/index.md", []byte("index"), page.KindIndex),
	})

	rec := doExport(t, stubReader{tree: tree}, "/export?url=https://example.atlassian.net/wiki/spaces/DOC/pages/1/x")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "docs.zip")

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)
	assert.Equal(t, "docs/attachments/a.png", zr.File[0].Name)
	assert.Equal(t, "docs/Root.md", zr.File[1].Name)
	assert.Equal(t, "docs/index.md", zr.File[2].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "# Root", string(content))
}

func TestExportMissingURL(t *testing.T) {
	rec := doExport(t, stubReader{}, "/export")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload["error"], "url")
}

func TestExportErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid url", page.ErrInvalidURL, http.StatusBadRequest},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"unauthorized", service.ErrUnauthorized, http.StatusBadGateway},
		{"forbidden", service.ErrForbidden, http.StatusBadGateway},
		{"remote failure", &service.RemoteError{Status: 503, URL: "https://x"}, http.StatusBadGateway},
		{"unexpected", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doExport(t, stubReader{err: tt.err}, "/export?url=https://example.atlassian.net/wiki/spaces/DOC/pages/1/x")

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
