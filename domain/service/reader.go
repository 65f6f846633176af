// Package service defines the domain-level contracts the traversal engine
// depends on: reading pages from a remote wiki, converting page bodies, and
// sinking materialized entries.
package service

import (
	"context"

	"github.com/docfold/docfold/domain/page"
)

// PageReader exposes the remote wiki's page operations. Every method is a
// single outbound request with no implicit retry; listing order is the
// host's order, never sorted client-side.
type PageReader interface {
	// Page fetches a page's metadata and raw HTML body.
	Page(ctx context.Context, id string) (page.Page, error)

	// Children lists the page's direct children, possibly empty.
	Children(ctx context.Context, id string) ([]page.Page, error)

	// Attachments lists the page's attachments, possibly empty.
	Attachments(ctx context.Context, id string) ([]page.Attachment, error)

	// Download fetches an attachment's raw bytes.
	Download(ctx context.Context, pageID, attachmentID string) ([]byte, error)
}

// ReaderProvider resolves a PageReader for a wiki host. Resolution fails
// when no credentials are configured for the host.
type ReaderProvider interface {
	ReaderFor(host string) (PageReader, error)
}
