package ports

import (
	"context"
	"io"

	"github.com/kirillkom/docvault/internal/core/domain"
)

// DocumentIngestor is the inbound contract for single-document upload
// orchestration. Upload stores, records and publishes for async analysis;
// UploadInline stores and records only, for callers that run analysis
// themselves, so each document is analyzed exactly once.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType, folderID string, body io.Reader) (*domain.Document, error)
	UploadInline(ctx context.Context, filename, mimeType, folderID string, body io.Reader) (*domain.Document, error)
}

// DocumentSearcher answers free-text queries over the whole library.
type DocumentSearcher interface {
	Search(ctx context.Context, query string) (domain.SearchResult, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, folderID string) ([]domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous analysis of an
// already-uploaded document.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
