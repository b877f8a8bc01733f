package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/infrastructure/classify"
	"github.com/kirillkom/docvault/internal/infrastructure/search"
	"github.com/kirillkom/docvault/internal/infrastructure/synthesize"
)

const analyzeTextLimit = 4000

// TextExtractor matches the on-device extraction engine; the local model
// cannot see images, so extraction always runs first.
type TextExtractor interface {
	Extract(ctx context.Context, file domain.SourceFile) (string, error)
}

type Provider struct {
	client          *Client
	extractor       TextExtractor
	classifier      *classify.Classifier
	maxContextChars int
	log             *slog.Logger
}

func NewProvider(client *Client, extractor TextExtractor, classifier *classify.Classifier, maxContextChars int, log *slog.Logger) *Provider {
	if classifier == nil {
		classifier = classify.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Provider{
		client:          client,
		extractor:       extractor,
		classifier:      classifier,
		maxContextChars: maxContextChars,
		log:             log,
	}
}

// Analyze extracts text locally, asks the model to classify it, and fills
// whatever the model left blank with the rule-based pipeline. Model failure
// falls back to rules entirely.
func (p *Provider) Analyze(ctx context.Context, file domain.SourceFile) (domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	var text string
	if p.extractor != nil {
		extracted, err := p.extractor.Extract(ctx, file)
		if err != nil {
			if ctx.Err() != nil {
				return domain.AnalysisResult{}, err
			}
			p.log.Warn("extraction failed before ollama analysis", "filename", file.Filename, "error", err)
		}
		text = extracted
	}

	res, err := p.classifyWithModel(ctx, text, file.Filename)
	if err != nil {
		p.log.Warn("ollama classification failed, falling back to rules",
			"filename", file.Filename, "error", err)
		res = domain.AnalysisResult{}
	}

	p.fillGaps(&res, text, file.Filename)
	res.OCRText = strings.TrimSpace(text)
	return res, nil
}

func (p *Provider) classifyWithModel(ctx context.Context, text, filename string) (domain.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.AnalysisResult{}, nil
	}

	clipped := text
	if len(clipped) > analyzeTextLimit {
		clipped = clipped[:analyzeTextLimit]
	}

	reply, err := p.client.generateJSON(ctx, "analyze", buildAnalyzePrompt(clipped, filename, p.classifier.Categories()))
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	var res domain.AnalysisResult
	if err := json.Unmarshal([]byte(search.ExtractJSONObject(reply)), &res); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("parse analyze json: %w", err)
	}
	return res, nil
}

// fillGaps completes a partial model reply so the stored record always has
// every analysis field populated.
func (p *Provider) fillGaps(res *domain.AnalysisResult, text, filename string) {
	category, tags := p.classifier.Classify(text, filename)
	if res.Category == "" {
		res.Category = category
	}
	if len(res.Tags) == 0 {
		res.Tags = tags
	}
	if res.Title == "" {
		res.Title = synthesize.Title(text, filename, res.Category)
	}
	if res.Summary == "" {
		res.Summary = synthesize.Summary(text, res.Category)
	}
	if res.ImportantDate == "" {
		res.ImportantDate, res.DateLabel = p.classifier.ExtractDate(text)
	}
}

func (p *Provider) Search(ctx context.Context, query string, docs []domain.Document) (domain.SearchResult, error) {
	if len(docs) == 0 {
		return domain.SearchResult{RelevantDocIDs: []string{}, Answer: "No documents found in your library."}, nil
	}

	reply, err := p.client.generateJSON(ctx, "search", search.BuildPrompt(query, docs, p.maxContextChars))
	if err != nil {
		return domain.SearchResult{}, err
	}
	return search.ParseResult(reply)
}

func buildAnalyzePrompt(text, filename string, categories []string) string {
	return fmt.Sprintf(`You are a document classification engine.
Filename: %s
Document text:
---
%s
---

Classify the document. Return ONLY a JSON object with the keys:
"title": a short descriptive title,
"category": one of [%s, Other],
"summary": one sentence,
"tags": 3-5 lowercase search tags,
"importantDate": the most important date in the text or "",
"dateLabel": what that date means (Expiry Date, Due Date, etc.) or "".`,
		filename, text, strings.Join(categories, ", "))
}
