package local

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/docvault/internal/core/domain"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, _ domain.SourceFile) (string, error) {
	return f.text, f.err
}

func TestAnalyzeFullPipeline(t *testing.T) {
	p := New(&fakeExtractor{text: "Invoice #102\nTotal amount: $42.50 due 2024-05-01"}, nil, nil)

	res, err := p.Analyze(context.Background(), domain.SourceFile{Filename: "invoice-102.pdf", MimeType: "application/pdf"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Category != "Receipt" {
		t.Fatalf("expected Receipt, got %q", res.Category)
	}
	if res.ImportantDate != "2024-05-01" || res.DateLabel != "Due Date" {
		t.Fatalf("unexpected date: %q / %q", res.ImportantDate, res.DateLabel)
	}
	if res.Title == "" || res.Summary == "" || len(res.Tags) == 0 {
		t.Fatalf("incomplete result: %+v", res)
	}
}

func TestAnalyzeExtractionFailureDegradesToFilename(t *testing.T) {
	p := New(&fakeExtractor{err: errors.New("engine unavailable")}, nil, nil)

	res, err := p.Analyze(context.Background(), domain.SourceFile{Filename: "boarding-pass.pdf", MimeType: "application/pdf"})
	if err != nil {
		t.Fatalf("extraction failure must not fail analysis: %v", err)
	}
	if res.Category != "Travel" {
		t.Fatalf("filename evidence should still classify, got %q", res.Category)
	}
	if res.OCRText != "" {
		t.Fatalf("expected empty ocr text, got %q", res.OCRText)
	}
}

func TestAnalyzeEmptyTextNeverEmptyCategoryOrTags(t *testing.T) {
	p := New(&fakeExtractor{}, nil, nil)

	res, err := p.Analyze(context.Background(), domain.SourceFile{Filename: "scan001.png", MimeType: "image/png"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Category == "" || len(res.Tags) == 0 {
		t.Fatalf("analysis must always fill category and tags: %+v", res)
	}
	if res.Title == "" || res.Summary == "" {
		t.Fatalf("analysis must always fill title and summary: %+v", res)
	}
}

func TestAnalyzeHonorsCanceledContext(t *testing.T) {
	p := New(&fakeExtractor{text: "hello"}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Analyze(ctx, domain.SourceFile{Filename: "a.txt"}); err == nil {
		t.Fatalf("expected context error")
	}
}
