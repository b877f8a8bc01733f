// Package lexical ranks documents by literal substring and keyword matches
// with fixed field bonuses. It is the always-available retrieval engine: no
// network, no model, deterministic output.
package lexical

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kirillkom/docvault/internal/core/domain"
)

const (
	verbatimBonus = 100
	wordWeight    = 10
	titleBonus    = 50
	categoryBonus = 30
	tagBonus      = 40
	dateBonus     = 60

	defaultMaxResults = 10
)

type Engine struct {
	maxResults int
}

func New() *Engine {
	return &Engine{maxResults: defaultMaxResults}
}

// NewWithLimit caps the ranked list at n instead of the default 10.
func NewWithLimit(n int) *Engine {
	if n < 1 {
		n = defaultMaxResults
	}
	return &Engine{maxResults: n}
}

// Search scores every document against query and returns the top matches
// with a natural-language answer. Equal scores keep the original document
// order.
func (e *Engine) Search(ctx context.Context, query string, docs []domain.Document) (domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SearchResult{}, err
	}
	if len(docs) == 0 {
		return domain.SearchResult{Answer: "No documents found in your library."}, nil
	}

	queryLower := strings.ToLower(query)
	queryWords := significantWords(queryLower)

	type scored struct {
		doc   domain.Document
		score float64
	}

	matches := make([]scored, 0, len(docs))
	for _, doc := range docs {
		score := scoreDocument(doc, queryLower, queryWords)
		if score > 0 {
			matches = append(matches, scored{doc: doc, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > e.maxResults {
		matches = matches[:e.maxResults]
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.doc.ID)
	}

	var answer string
	switch len(matches) {
	case 0:
		answer = fmt.Sprintf("No documents found matching %q. Try different keywords or check your document library.", query)
	case 1:
		doc := matches[0].doc
		answer = fmt.Sprintf("Found 1 document: %q (%s). %s", doc.Title, doc.Category, doc.Summary)
	default:
		top := len(matches)
		if top > 3 {
			top = 3
		}
		titles := make([]string, 0, top)
		for _, m := range matches[:top] {
			titles = append(titles, m.doc.Title)
		}
		answer = fmt.Sprintf("Found %d documents matching %q. Top results: \"%s\".", len(matches), query, strings.Join(titles, `", "`))
	}

	return domain.SearchResult{RelevantDocIDs: ids, Answer: answer}, nil
}

// Score returns the lexical relevance of a single document; exported for
// ranking tests and diagnostics.
func (e *Engine) Score(doc domain.Document, query string) float64 {
	queryLower := strings.ToLower(query)
	return scoreDocument(doc, queryLower, significantWords(queryLower))
}

func scoreDocument(doc domain.Document, queryLower string, queryWords []string) float64 {
	blob := strings.ToLower(strings.Join([]string{
		doc.Title,
		doc.Summary,
		strings.Join(doc.Tags, " "),
		doc.Category,
		doc.OCRText,
	}, " "))

	var score float64

	// Exact phrase match outranks everything else.
	if strings.Contains(blob, queryLower) {
		score += verbatimBonus
	}

	for _, word := range queryWords {
		score += float64(wordWeight * strings.Count(blob, word))
	}

	if strings.Contains(strings.ToLower(doc.Title), queryLower) {
		score += titleBonus
	}
	if strings.Contains(strings.ToLower(doc.Category), queryLower) {
		score += categoryBonus
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), queryLower) {
			score += tagBonus
			break
		}
	}
	if doc.ImportantDate != "" && strings.Contains(queryLower, strings.ToLower(doc.ImportantDate)) {
		score += dateBonus
	}

	return score
}

func significantWords(queryLower string) []string {
	fields := strings.Fields(queryLower)
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}
