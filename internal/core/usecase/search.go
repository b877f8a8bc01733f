package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/core/ports"
)

// SearchMetrics observes search outcomes; a nil recorder disables it.
type SearchMetrics interface {
	ObserveHit()
	ObserveNoMatch()
	ObserveFallback(engine string)
}

type SearchDocumentsUseCase struct {
	repo     ports.DocumentRepository
	registry ports.ProviderRegistry
	fallback ports.RetrievalEngine
	timeout  time.Duration
	metrics  SearchMetrics
	log      *slog.Logger
}

func NewSearchDocumentsUseCase(
	repo ports.DocumentRepository,
	registry ports.ProviderRegistry,
	fallback ports.RetrievalEngine,
	timeout time.Duration,
	metrics SearchMetrics,
	log *slog.Logger,
) *SearchDocumentsUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &SearchDocumentsUseCase{
		repo:     repo,
		registry: registry,
		fallback: fallback,
		timeout:  timeout,
		metrics:  metrics,
		log:      log,
	}
}

// Search answers a free-text query over the whole library with the active
// engine, falling back to the lexical engine on any remote failure. The
// caller always gets an answer unless the query is blank or the repository
// is unreachable.
func (uc *SearchDocumentsUseCase) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResult{}, domain.WrapError(domain.ErrInvalidInput, "search documents", fmt.Errorf("empty query"))
	}

	docs, err := uc.repo.List(ctx, "")
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("list documents for search: %w", err)
	}

	searchCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	engine := uc.registry.Engine()
	res, err := engine.Search(searchCtx, query, docs)
	if err != nil {
		if ctx.Err() != nil {
			return domain.SearchResult{}, err
		}
		if uc.fallback == nil {
			return domain.SearchResult{}, fmt.Errorf("search documents: %w", err)
		}

		engineName := uc.registry.ActiveName()
		uc.log.Warn("retrieval engine failed, falling back to lexical search",
			"engine", engineName, "error", err)
		if uc.metrics != nil {
			uc.metrics.ObserveFallback(engineName)
		}

		res, err = uc.fallback.Search(ctx, query, docs)
		if err != nil {
			return domain.SearchResult{}, fmt.Errorf("lexical fallback search: %w", err)
		}
	}

	if res.RelevantDocIDs == nil {
		res.RelevantDocIDs = []string{}
	}
	if uc.metrics != nil {
		if len(res.RelevantDocIDs) > 0 {
			uc.metrics.ObserveHit()
		} else {
			uc.metrics.ObserveNoMatch()
		}
	}
	return res, nil
}
