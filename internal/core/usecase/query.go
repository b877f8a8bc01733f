package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/core/ports"
)

// QueryDocumentsUseCase is the read model behind the listing endpoints.
type QueryDocumentsUseCase struct {
	repo ports.DocumentRepository
}

func NewQueryDocumentsUseCase(repo ports.DocumentRepository) *QueryDocumentsUseCase {
	return &QueryDocumentsUseCase{repo: repo}
}

func (uc *QueryDocumentsUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *QueryDocumentsUseCase) List(ctx context.Context, folderID string) ([]domain.Document, error) {
	docs, err := uc.repo.List(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}
