package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kirillkom/docvault/internal/core/domain"
)

func TestBuildPromptTruncatesOCRText(t *testing.T) {
	long := strings.Repeat("a", 4000)
	prompt := BuildPrompt("query", []domain.Document{{ID: "d1", Title: "Doc", OCRText: long}}, 0)

	if strings.Contains(prompt, strings.Repeat("a", DefaultContextChars+1)) {
		t.Fatalf("ocr text not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("a", DefaultContextChars)) {
		t.Fatalf("truncated ocr text missing")
	}
}

func TestBuildPromptIncludesLabeledDate(t *testing.T) {
	prompt := BuildPrompt("q", []domain.Document{{
		ID:            "d1",
		Title:         "Card",
		ImportantDate: "12/12/2030",
		DateLabel:     "Expiry Date",
	}}, 0)

	if !strings.Contains(prompt, "Expiry Date: 12/12/2030") {
		t.Fatalf("labeled date missing from prompt")
	}
}

func TestParseResultAcceptsFencedJSON(t *testing.T) {
	raw := "```json\n{\"relevantDocIds\": [\"a\"], \"answer\": \"found it\"}\n```"
	res, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("ParseResult() error = %v", err)
	}
	if len(res.RelevantDocIDs) != 1 || res.RelevantDocIDs[0] != "a" || res.Answer != "found it" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestParseResultRejectsMissingAnswer(t *testing.T) {
	_, err := ParseResult(`{"relevantDocIds": []}`)
	if err == nil {
		t.Fatalf("expected schema violation")
	}
	if !domain.IsKind(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation kind, got %v", err)
	}
}

func TestParseResultRejectsProse(t *testing.T) {
	_, err := ParseResult("I could not find anything relevant.")
	if err == nil || !domain.IsKind(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestParseResultNilIDsBecomeEmpty(t *testing.T) {
	res, err := ParseResult(`{"answer": "nothing matches"}`)
	if err != nil {
		t.Fatalf("ParseResult() error = %v", err)
	}
	if res.RelevantDocIDs == nil {
		t.Fatalf("ids should be empty slice, not nil")
	}
}

func TestBuildPromptTruncationIsRuneSafe(t *testing.T) {
	prompt := BuildPrompt("q", []domain.Document{{ID: "d1", Title: "Doc", OCRText: strings.Repeat("я", 40)}}, 25)

	if !utf8.ValidString(prompt) {
		t.Fatalf("prompt contains invalid utf-8")
	}
	if strings.ContainsRune(prompt, utf8.RuneError) {
		t.Fatalf("prompt contains a replacement character")
	}
	if !strings.Contains(prompt, strings.Repeat("я", 12)) || strings.Contains(prompt, strings.Repeat("я", 13)) {
		t.Fatalf("expected the ocr text cut to 12 whole runes")
	}
}
