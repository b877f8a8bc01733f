package ports

import (
	"context"
	"io"

	"github.com/kirillkom/docvault/internal/core/domain"
)

// DocumentRepository persists and reads document records.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, folderID string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveAnalysis(ctx context.Context, id string, res domain.AnalysisResult, folderID string) error
}

// FolderRepository persists and reads folders.
type FolderRepository interface {
	Create(ctx context.Context, folder *domain.Folder) error
	List(ctx context.Context) ([]domain.Folder, error)
}

// ObjectStorage stores source document bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// AnalysisProvider turns one source file into a structured analysis result.
// Implementations must be substitutable: callers depend only on this contract
// and never on provider-specific behavior.
type AnalysisProvider interface {
	Analyze(ctx context.Context, file domain.SourceFile) (domain.AnalysisResult, error)
}

// RetrievalEngine answers a query against the full document set.
type RetrievalEngine interface {
	Search(ctx context.Context, query string, docs []domain.Document) (domain.SearchResult, error)
}

// ProviderRegistry resolves the active provider/engine at call time. The
// selection is readable and writable at runtime and never cached by callers.
type ProviderRegistry interface {
	Provider() AnalysisProvider
	Engine() RetrievalEngine
	ActiveName() string
	SetActive(name string) error
	Names() []string
}
