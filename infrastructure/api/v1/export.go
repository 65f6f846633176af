// Package v1 implements the versioned REST endpoints.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docfold/docfold/domain/page"
	"github.com/docfold/docfold/domain/service"
	"github.com/docfold/docfold/infrastructure/archive"
)

// TreeReader reads a full page tree for a wiki page URL.
type TreeReader interface {
	ReadTree(ctx context.Context, rawURL string) (page.Tree, error)
}

// Exports serves export requests over HTTP.
type Exports struct {
	reader TreeReader
	logger *slog.Logger
}

// NewExports creates the export handler.
func NewExports(reader TreeReader, logger *slog.Logger) *Exports {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exports{reader: reader, logger: logger}
}

// Mount registers the export routes on r.
func (h *Exports) Mount(r chi.Router) {
	r.Get("/export", h.handleExport)
}

// handleExport materializes the tree for ?url= and streams it as a zip.
// The tree is read fully before the first response byte so a traversal
// failure still produces a clean error status instead of a torn archive.
func (h *Exports) handleExport(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	tree, err := h.reader.ReadTree(r.Context(), rawURL)
	if err != nil {
		status, msg := exportErrorStatus(err)
		h.logger.Error("export failed",
			slog.String("url", rawURL),
			slog.Any("error", err),
		)
		writeError(w, status, msg)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="docs.zip"`)
	w.WriteHeader(http.StatusOK)

	zip := archive.NewZip(w)
	for _, entry := range tree.Entries() {
		if err := zip.Put(entry.Path(), entry.Content()); err != nil {
			h.logger.Error("write zip entry", slog.Any("error", err))
			return
		}
	}
	if err := zip.Close(); err != nil {
		h.logger.Error("close zip", slog.Any("error", err))
	}
}

func exportErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, page.ErrInvalidURL):
		return http.StatusBadRequest, "not a wiki page URL"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "page not found"
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrForbidden):
		return http.StatusBadGateway, "wiki rejected the configured credentials"
	default:
		var remote *service.RemoteError
		if errors.As(err, &remote) {
			return http.StatusBadGateway, "wiki request failed"
		}
		return http.StatusInternalServerError, "export failed"
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
