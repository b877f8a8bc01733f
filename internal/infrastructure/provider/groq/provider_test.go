package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/infrastructure/resilience"
)

func fastExec() *resilience.Executor {
	return resilience.New(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, resilience.ClassifyModelError)
}

func TestAnalyzeUsesFilenameOnly(t *testing.T) {
	p := New("", "key", "llama-3.1-70b-versatile", nil, 0, fastExec(), nil)

	res, err := p.Analyze(context.Background(), domain.SourceFile{
		Filename: "gym-receipt-march.jpg",
		MimeType: "image/jpeg",
		Data:     []byte("never read"),
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Category != "Receipt" {
		t.Fatalf("expected Receipt from filename, got %q", res.Category)
	}
	if res.Title != "gym-receipt-march" {
		t.Fatalf("title should drop extension, got %q", res.Title)
	}
	if res.Summary != "Financial receipt or invoice" {
		t.Fatalf("unexpected degraded summary: %q", res.Summary)
	}
	if res.OCRText != "" {
		t.Fatalf("filename-only analysis must not claim ocr text")
	}
}

func TestAnalyzeUncategorizedFallsBackToMimeSummary(t *testing.T) {
	p := New("", "key", "llama-3.1-70b-versatile", nil, 0, fastExec(), nil)

	res, err := p.Analyze(context.Background(), domain.SourceFile{Filename: "scan0001.pdf", MimeType: "application/pdf"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Category != "Other" {
		t.Fatalf("expected Other, got %q", res.Category)
	}
	if res.Summary != "PDF document" {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
}

func TestSearchSendsSystemPromptAndParsesReply(t *testing.T) {
	var gotBody struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		raw, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"relevantDocIds":["a"],"answer":"Found your receipt."}`}},
			},
		})
		w.Write(raw)
	}))
	defer srv.Close()

	p := New(srv.URL+"/openai/v1", "key", "llama-3.1-70b-versatile", nil, 0, fastExec(), nil)

	res, err := p.Search(context.Background(), "receipt", []domain.Document{{ID: "a", Title: "Receipt"}})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.Answer != "Found your receipt." {
		t.Fatalf("unexpected answer: %q", res.Answer)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("expected system plus user message, got %+v", gotBody.Messages)
	}
}

func TestSearchEmptyLibraryShortCircuits(t *testing.T) {
	p := New("http://127.0.0.1:1", "key", "llama-3.1-70b-versatile", nil, 0, fastExec(), nil)

	res, err := p.Search(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.Answer != "No documents found in your library." {
		t.Fatalf("unexpected answer: %q", res.Answer)
	}
}
