// Package groq runs search through the Groq OpenAI-compatible chat API.
// The hosted tier has no vision models, so Analyze degrades to filename
// heuristics instead of reading the file.
package groq

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/infrastructure/classify"
	"github.com/kirillkom/docvault/internal/infrastructure/resilience"
	"github.com/kirillkom/docvault/internal/infrastructure/search"
)

const searchSystemPrompt = "You are a helpful document search assistant. Search through documents and provide relevant answers based on their content."

// degradedSummaries replaces the one-sentence model summary when only the
// filename is available.
var degradedSummaries = map[string]string{
	"Identity":  "Identity document",
	"Receipt":   "Financial receipt or invoice",
	"Medical":   "Medical document or health record",
	"Education": "Educational certificate or document",
	"Travel":    "Travel document or booking",
	"Legal":     "Legal document or contract",
	"Notes":     "Note or memo document",
}

type Provider struct {
	client          *goopenai.Client
	model           string
	classifier      *classify.Classifier
	maxContextChars int
	exec            *resilience.Executor
	log             *slog.Logger
}

func New(baseURL, apiKey, model string, classifier *classify.Classifier, maxContextChars int, exec *resilience.Executor, log *slog.Logger) *Provider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if classifier == nil {
		classifier = classify.New()
	}
	if exec == nil {
		exec = resilience.New(resilience.DefaultConfig(), resilience.ClassifyModelError)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Provider{
		client:          goopenai.NewClientWithConfig(cfg),
		model:           model,
		classifier:      classifier,
		maxContextChars: maxContextChars,
		exec:            exec,
		log:             log,
	}
}

// Analyze never calls the remote API: it classifies on filename evidence
// only and marks nothing as OCR text.
func (p *Provider) Analyze(ctx context.Context, file domain.SourceFile) (domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	category, tags := p.classifier.Classify("", file.Filename)

	summary, ok := degradedSummaries[category]
	if !ok {
		switch {
		case strings.Contains(file.MimeType, "pdf"):
			summary = "PDF document"
		case strings.HasPrefix(file.MimeType, "image/"):
			summary = "Image file"
		default:
			summary = "Document uploaded successfully"
		}
	}

	title := file.Filename
	if idx := strings.LastIndex(title, "."); idx > 0 {
		title = title[:idx]
	}

	return domain.AnalysisResult{
		Title:    title,
		Category: category,
		Summary:  summary,
		Tags:     tags,
	}, nil
}

func (p *Provider) Search(ctx context.Context, query string, docs []domain.Document) (domain.SearchResult, error) {
	if len(docs) == 0 {
		return domain.SearchResult{RelevantDocIDs: []string{}, Answer: "No documents found in your library."}, nil
	}

	req := goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: searchSystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: search.BuildPrompt(query, docs, p.maxContextChars)},
		},
		Temperature: 0.5,
		MaxTokens:   1000,
	}

	var reply string
	err := p.exec.Execute(ctx, "search", func(ctx context.Context) error {
		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return normalizeAPIError(err)
		}
		if len(resp.Choices) == 0 {
			return domain.WrapError(domain.ErrSchemaViolation, "groq search", errEmptyChoices)
		}
		reply = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return domain.SearchResult{}, err
	}
	return search.ParseResult(reply)
}

var errEmptyChoices = errors.New("empty choice list")

func normalizeAPIError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &resilience.StatusError{Operation: "groq search", Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	return domain.WrapError(domain.ErrTemporary, "groq search", err)
}
