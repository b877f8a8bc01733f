// Package search holds the pieces shared by the LLM-delegated retrieval
// engines: the document-context serialization, the search prompt, and the
// strict parsing of the {relevantDocIds, answer} reply.
package search

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docvault/internal/core/domain"
)

// DefaultContextChars bounds the OCR text serialized per document so the
// prompt payload stays within model context limits.
const DefaultContextChars = 1500

type docContext struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	Summary          string `json:"summary"`
	Tags             string `json:"tags"`
	ImportantDate    string `json:"importantDate,omitempty"`
	ExtractedContent string `json:"extractedContent"`
}

// BuildPrompt serializes the library metadata plus the query into a prompt
// instructing the model to search the extracted text rigorously and reply
// with the fixed JSON shape.
func BuildPrompt(query string, docs []domain.Document, maxContextChars int) string {
	if maxContextChars <= 0 {
		maxContextChars = DefaultContextChars
	}

	contexts := make([]docContext, 0, len(docs))
	for _, doc := range docs {
		extracted := truncateOnRune(doc.OCRText, maxContextChars)
		if extracted == "" {
			extracted = "No text extracted"
		}
		var important string
		if doc.ImportantDate != "" {
			important = fmt.Sprintf("%s: %s", doc.DateLabel, doc.ImportantDate)
		}
		contexts = append(contexts, docContext{
			ID:               doc.ID,
			Title:            doc.Title,
			Category:         doc.Category,
			Summary:          doc.Summary,
			Tags:             strings.Join(doc.Tags, ", "),
			ImportantDate:    important,
			ExtractedContent: extracted,
		})
	}

	serialized, _ := json.Marshal(contexts)

	return fmt.Sprintf(`You are a helpful document assistant.
User Query: %q

Here is the user's document library metadata and extracted text (OCR):
%s

Task:
1. SEARCH RIGOROUSLY: look for exact matches of numbers, names, or keywords in the 'extractedContent' field. If the query contains a sequence of digits, verify whether that sequence appears in any 'extractedContent'.
2. Identify which documents are most relevant to the query based on their text content.
3. Formulate a natural language answer addressing the user's request based on the relevant documents found.
4. If the user asks for a specific document, mention its title and summary.
5. If no documents match, say so politely.

Return ONLY a JSON object with this structure (no markdown, no extra text):
{"relevantDocIds": ["id1", "id2"], "answer": "your helpful answer here"}`, query, serialized)
}

// ParseResult validates a model reply against the search schema. Any
// deviation is reported as a schema violation so the caller can fall back to
// the lexical engine.
func ParseResult(raw string) (domain.SearchResult, error) {
	payload := ExtractJSONObject(raw)
	if payload == "" {
		return domain.SearchResult{}, domain.WrapError(domain.ErrSchemaViolation, "parse search reply", fmt.Errorf("no json object in %q", clip(raw)))
	}

	var parsed struct {
		RelevantDocIDs []string `json:"relevantDocIds"`
		Answer         string   `json:"answer"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return domain.SearchResult{}, domain.WrapError(domain.ErrSchemaViolation, "parse search reply", err)
	}
	if parsed.Answer == "" {
		return domain.SearchResult{}, domain.WrapError(domain.ErrSchemaViolation, "parse search reply", fmt.Errorf("missing answer field"))
	}
	if parsed.RelevantDocIDs == nil {
		parsed.RelevantDocIDs = []string{}
	}

	return domain.SearchResult{RelevantDocIDs: parsed.RelevantDocIDs, Answer: parsed.Answer}, nil
}

// ExtractJSONObject cuts the outermost {...} span out of a model reply that
// may be wrapped in markdown fences or prose.
func ExtractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

func clip(s string) string {
	if len(s) > 120 {
		return truncateOnRune(s, 120) + "..."
	}
	return s
}

// truncateOnRune cuts s to at most n bytes without splitting a UTF-8 rune.
func truncateOnRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
