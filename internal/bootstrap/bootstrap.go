package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/docvault/internal/config"
	"github.com/kirillkom/docvault/internal/core/ports"
	"github.com/kirillkom/docvault/internal/core/usecase"
	"github.com/kirillkom/docvault/internal/infrastructure/classify"
	"github.com/kirillkom/docvault/internal/infrastructure/extract"
	"github.com/kirillkom/docvault/internal/infrastructure/provider"
	"github.com/kirillkom/docvault/internal/infrastructure/provider/gemini"
	"github.com/kirillkom/docvault/internal/infrastructure/provider/groq"
	"github.com/kirillkom/docvault/internal/infrastructure/provider/local"
	"github.com/kirillkom/docvault/internal/infrastructure/provider/ollama"
	"github.com/kirillkom/docvault/internal/infrastructure/provider/openai"
	"github.com/kirillkom/docvault/internal/infrastructure/queue/nats"
	"github.com/kirillkom/docvault/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/docvault/internal/infrastructure/resilience"
	"github.com/kirillkom/docvault/internal/infrastructure/search/lexical"
	"github.com/kirillkom/docvault/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/docvault/internal/observability/metrics"
)

// App wires the whole dependency graph once; cmd/api and cmd/worker pick the
// parts they serve.
type App struct {
	Config config.Config
	Log    *slog.Logger

	Queue    ports.MessageQueue
	Repo     ports.DocumentRepository
	Storage  *localfs.Storage
	Registry *provider.Registry

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	QueryUC   ports.DocumentReader
	SearchUC  ports.DocumentSearcher
	Folders   *usecase.FolderResolver

	HTTPMetrics *metrics.HTTPServerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	folderRepo := postgres.NewFolderRepository(db)
	if err := docRepo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	classifier, err := loadClassifier(cfg, log)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}

	extractor := extract.New(log)
	localProvider := local.New(extractor, classifier, log)
	lexicalEngine := lexical.NewWithLimit(cfg.SearchMaxResults)
	registry := provider.NewRegistry(localProvider, lexicalEngine)

	exec := resilience.New(resilience.DefaultConfig(), resilience.ClassifyModelError)

	if cfg.GeminiAPIKey != "" {
		client := gemini.NewClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel, exec)
		p := gemini.NewProvider(client, cfg.SearchContextChars, log)
		registry.Register("gemini", p, p)
	}
	if cfg.OpenAIAPIKey != "" {
		p := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.SearchContextChars, exec, log)
		registry.Register("openai", p, p)
	}
	if cfg.GroqAPIKey != "" {
		p := groq.New(cfg.GroqAPIURL, cfg.GroqAPIKey, cfg.GroqModel, classifier, cfg.SearchContextChars, exec, log)
		registry.Register("groq", p, p)
	}
	if cfg.OllamaURL != "" {
		client := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, exec)
		p := ollama.NewProvider(client, extractor, classifier, cfg.SearchContextChars, log)
		registry.Register("ollama", p, p)
	}

	if err := registry.SetActive(cfg.AIProvider); err != nil {
		log.Warn("configured provider unavailable, staying on local",
			"provider", cfg.AIProvider, "error", err)
	}
	if engine := cfg.ActiveSearchEngine(); engine != registry.ActiveName() {
		if err := registry.SetEngineOverride(engine); err != nil {
			log.Warn("configured search engine unavailable, following active provider",
				"engine", engine, "error", err)
		}
	}

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	folders := usecase.NewFolderResolver(folderRepo, log)

	ingestUC := usecase.NewIngestDocumentUseCase(docRepo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(
		docRepo,
		storage,
		registry,
		localProvider,
		folders,
		time.Duration(cfg.AnalyzeTimeoutSeconds)*time.Second,
		log,
	)
	queryUC := usecase.NewQueryDocumentsUseCase(docRepo)
	searchUC := usecase.NewSearchDocumentsUseCase(
		docRepo,
		registry,
		lexicalEngine,
		time.Duration(cfg.SearchTimeoutSeconds)*time.Second,
		httpMetrics,
		log,
	)

	return &App{
		Config: cfg,
		Log:    log,

		Queue:    queue,
		Repo:     docRepo,
		Storage:  storage,
		Registry: registry,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,
		SearchUC:  searchUC,
		Folders:   folders,

		HTTPMetrics: httpMetrics,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func loadClassifier(cfg config.Config, log *slog.Logger) (*classify.Classifier, error) {
	if cfg.ClassifyRulesPath == "" {
		return classify.New(), nil
	}
	classifier, err := classify.LoadFile(cfg.ClassifyRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load classify rules: %w", err)
	}
	log.Info("loaded classification rules", "path", cfg.ClassifyRulesPath)
	return classifier, nil
}
