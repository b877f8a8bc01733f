// Package local implements document analysis entirely on-device: text
// extraction, rule-based classification, and title/summary synthesis. It is
// the provider of last resort and therefore never returns an error from
// Analyze.
package local

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/infrastructure/classify"
	"github.com/kirillkom/docvault/internal/infrastructure/synthesize"
)

// TextExtractor pulls plain text out of a source file. Extraction failures
// surface as empty text, not errors.
type TextExtractor interface {
	Extract(ctx context.Context, file domain.SourceFile) (string, error)
}

type Provider struct {
	extractor  TextExtractor
	classifier *classify.Classifier
	log        *slog.Logger
}

func New(extractor TextExtractor, classifier *classify.Classifier, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	if classifier == nil {
		classifier = classify.New()
	}
	return &Provider{extractor: extractor, classifier: classifier, log: log}
}

// Analyze runs the full local pipeline. Only context cancellation can fail
// it; anything the engines cannot read degrades to a filename-driven result.
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
			p.log.Warn("local extraction failed, continuing with filename only",
				"filename", file.Filename, "error", err)
		}
		text = extracted
	}

	return p.analyzeText(text, file.Filename), nil
}

func (p *Provider) analyzeText(text, filename string) domain.AnalysisResult {
	category, tags := p.classifier.Classify(text, filename)
	date, label := p.classifier.ExtractDate(text)

	res := domain.AnalysisResult{
		Title:         synthesize.Title(text, filename, category),
		Category:      category,
		Summary:       synthesize.Summary(text, category),
		Tags:          tags,
		ImportantDate: date,
		DateLabel:     label,
		OCRText:       strings.TrimSpace(text),
	}

	p.log.Debug("local analysis complete",
		"filename", filename,
		"category", res.Category,
		"chars", len(res.OCRText),
	)
	return res
}
