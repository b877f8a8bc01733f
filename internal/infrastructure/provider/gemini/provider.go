package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/infrastructure/search"
)

const analyzePrompt = `Analyze this document/image.
1. Identify the document type/category (e.g., Identity, Receipt, Medical, Education, Travel, Legal, Notes).
2. Extract a short, descriptive title.
3. Write a 1-sentence summary.
4. Suggest 3-5 search tags.
5. EXTRACT IMPORTANT DATES: if this is an ID, look for Expiry Date. If a bill, look for Due Date. If an event, look for Event Date. Return the date in YYYY-MM-DD format if possible, or a short string, and label it.
6. OCR EXTRACTION: read and extract ALL visible text from the document into the 'ocrText' field. Be accurate with numbers, IDs, and phone numbers.

Return ONLY a JSON object with the keys: title, category, summary, tags, importantDate, dateLabel, ocrText.`

type Provider struct {
	client          *Client
	maxContextChars int
	log             *slog.Logger
}

func NewProvider(client *Client, maxContextChars int, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	return &Provider{client: client, maxContextChars: maxContextChars, log: log}
}

// Analyze sends the raw file to the vision model. A transport failure is
// returned to the caller; a reply that cannot be parsed degrades to a
// placeholder result so ingestion still completes.
func (p *Provider) Analyze(ctx context.Context, file domain.SourceFile) (domain.AnalysisResult, error) {
	parts := []part{
		{InlineData: &inlineData{
			MimeType: file.MimeType,
			Data:     base64.StdEncoding.EncodeToString(file.Data),
		}},
		{Text: analyzePrompt},
	}

	reply, err := p.client.generateContent(ctx, "analyze", parts)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	var res domain.AnalysisResult
	if err := json.Unmarshal([]byte(search.ExtractJSONObject(reply)), &res); err != nil || res.Title == "" {
		p.log.Warn("gemini reply did not match analysis schema, using placeholder",
			"filename", file.Filename, "error", err)
		return placeholderResult(file.Filename), nil
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

	prompt := search.BuildPrompt(query, docs, p.maxContextChars)
	reply, err := p.client.generateContent(ctx, "search", []part{{Text: prompt}})
	if err != nil {
		return domain.SearchResult{}, err
	}
	return search.ParseResult(reply)
}

func placeholderResult(filename string) domain.AnalysisResult {
	return domain.AnalysisResult{
		Title:    filename,
		Category: "Uncategorized",
		Summary:  "Could not analyze document.",
		Tags:     []string{},
	}
}
