// Package openai analyzes documents with OpenAI vision chat completions and
// answers search queries over the library context.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/infrastructure/resilience"
	"github.com/kirillkom/docvault/internal/infrastructure/search"
)

const analyzePrompt = `Analyze this document image. Return ONLY a JSON object with the keys:
title (short descriptive title), category (one of: Identity, Receipt, Medical, Education, Travel, Legal, Notes, Other), summary (one sentence), tags (3-5 search tags), importantDate (YYYY-MM-DD or short string, empty if none), dateLabel (Expiry Date, Due Date, etc., empty if none), ocrText (ALL visible text, accurate with numbers and IDs).`

const maxCompletionTokens = 1500

type Provider struct {
	client          *goopenai.Client
	model           string
	maxContextChars int
	exec            *resilience.Executor
	log             *slog.Logger
}

func New(apiKey, model string, maxContextChars int, exec *resilience.Executor, log *slog.Logger) *Provider {
	if exec == nil {
		exec = resilience.New(resilience.DefaultConfig(), resilience.ClassifyModelError)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Provider{
		client:          goopenai.NewClient(apiKey),
		model:           model,
		maxContextChars: maxContextChars,
		exec:            exec,
		log:             log,
	}
}

// NewWithConfig keeps the client configurable for OpenAI-compatible hosts
// and tests.
func NewWithConfig(cfg goopenai.ClientConfig, model string, maxContextChars int, exec *resilience.Executor, log *slog.Logger) *Provider {
	p := New("", model, maxContextChars, exec, log)
	p.client = goopenai.NewClientWithConfig(cfg)
	return p
}

func (p *Provider) Analyze(ctx context.Context, file domain.SourceFile) (domain.AnalysisResult, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", file.MimeType, base64.StdEncoding.EncodeToString(file.Data))

	req := goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{{
			Role: goopenai.ChatMessageRoleUser,
			MultiContent: []goopenai.ChatMessagePart{
				{Type: goopenai.ChatMessagePartTypeText, Text: analyzePrompt},
				{Type: goopenai.ChatMessagePartTypeImageURL, ImageURL: &goopenai.ChatMessageImageURL{URL: dataURL}},
			},
		}},
		MaxTokens:      maxCompletionTokens,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject},
	}

	reply, err := p.complete(ctx, "analyze", req)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	var res domain.AnalysisResult
	if err := json.Unmarshal([]byte(search.ExtractJSONObject(reply)), &res); err != nil || res.Title == "" {
		p.log.Warn("openai reply did not match analysis schema, using placeholder",
			"filename", file.Filename, "error", err)
		return domain.AnalysisResult{
			Title:    file.Filename,
			Category: "Uncategorized",
			Summary:  "Could not analyze document.",
			Tags:     []string{},
		}, nil
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	return res, nil
}

func (p *Provider) Search(ctx context.Context, query string, docs []domain.Document) (domain.SearchResult, error) {
	if len(docs) == 0 {
		return domain.SearchResult{RelevantDocIDs: []string{}, Answer: "No documents found."}, nil
	}

	req := goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{{
			Role:    goopenai.ChatMessageRoleUser,
			Content: search.BuildPrompt(query, docs, p.maxContextChars),
		}},
		MaxTokens:      maxCompletionTokens,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject},
	}

	reply, err := p.complete(ctx, "search", req)
	if err != nil {
		return domain.SearchResult{}, err
	}
	return search.ParseResult(reply)
}

func (p *Provider) complete(ctx context.Context, operation string, req goopenai.ChatCompletionRequest) (string, error) {
	var reply string
	err := p.exec.Execute(ctx, operation, func(ctx context.Context) error {
		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return normalizeAPIError(operation, err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("openai %s: empty choice list", operation)
		}
		reply = resp.Choices[0].Message.Content
		return nil
	})
	return reply, err
}

// normalizeAPIError maps go-openai errors onto the status error the retry
// classifier understands.
func normalizeAPIError(operation string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &resilience.StatusError{
			Operation: "openai " + operation,
			Status:    apiErr.HTTPStatusCode,
			Body:      apiErr.Message,
		}
	}
	return domain.WrapError(domain.ErrTemporary, "openai "+operation, err)
}
