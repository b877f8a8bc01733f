package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/core/ports"
)

type ProcessDocumentUseCase struct {
	repo           ports.DocumentRepository
	storage        ports.ObjectStorage
	registry       ports.ProviderRegistry
	fallback       ports.AnalysisProvider
	resolver       *FolderResolver
	analyzeTimeout time.Duration
	log            *slog.Logger
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	registry ports.ProviderRegistry,
	fallback ports.AnalysisProvider,
	resolver *FolderResolver,
	analyzeTimeout time.Duration,
	log *slog.Logger,
) *ProcessDocumentUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &ProcessDocumentUseCase{
		repo:           repo,
		storage:        storage,
		registry:       registry,
		fallback:       fallback,
		resolver:       resolver,
		analyzeTimeout: analyzeTimeout,
		log:            log,
	}
}

// ProcessByID runs the analysis pipeline for one uploaded document:
// processing -> analyze -> folder placement -> ready, or failed with the
// pipeline error recorded on the document.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	doc, res, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	folderID := uc.resolver.Resolve(ctx, doc.FolderID, res.Category)

	if err := uc.repo.SaveAnalysis(ctx, doc.ID, res, folderID); err != nil {
		saveErr := fmt.Errorf("save analysis: %w", err)
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, saveErr.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", saveErr, failErr)
		}
		return saveErr
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (*domain.Document, domain.AnalysisResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, domain.AnalysisResult{}, fmt.Errorf("fetch document by id: %w", err)
	}

	file, err := uc.loadSource(ctx, doc)
	if err != nil {
		return nil, domain.AnalysisResult{}, err
	}

	res, err := uc.analyze(ctx, file)
	if err != nil {
		return nil, domain.AnalysisResult{}, err
	}

	return doc, res, nil
}

func (uc *ProcessDocumentUseCase) loadSource(ctx context.Context, doc *domain.Document) (domain.SourceFile, error) {
	reader, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return domain.SourceFile{}, fmt.Errorf("open stored object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return domain.SourceFile{}, fmt.Errorf("read stored object: %w", err)
	}

	return domain.SourceFile{
		Filename: doc.Filename,
		MimeType: doc.MimeType,
		Data:     data,
	}, nil
}

// analyze runs the active provider under the analysis timeout and falls
// back to the local pipeline when the remote one fails.
func (uc *ProcessDocumentUseCase) analyze(ctx context.Context, file domain.SourceFile) (domain.AnalysisResult, error) {
	analyzeCtx := ctx
	if uc.analyzeTimeout > 0 {
		var cancel context.CancelFunc
		analyzeCtx, cancel = context.WithTimeout(ctx, uc.analyzeTimeout)
		defer cancel()
	}

	active := uc.registry.Provider()
	res, err := active.Analyze(analyzeCtx, file)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return domain.AnalysisResult{}, err
	}
	if uc.fallback == nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyze document: %w", err)
	}

	uc.log.Warn("analysis provider failed, falling back to local pipeline",
		"provider", uc.registry.ActiveName(), "filename", file.Filename, "error", err)

	res, fallbackErr := uc.fallback.Analyze(ctx, file)
	if fallbackErr != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyze document: %w; local fallback: %v", err, fallbackErr)
	}
	return res, nil
}
