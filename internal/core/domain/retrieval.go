package domain

// RankedMatch is a transient scoring record produced by the lexical engine.
// The list handed to callers is sorted descending by score; equal scores keep
// the original document order.
type RankedMatch struct {
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
}

// SearchResult is the answer to one free-text query over the document set.
type SearchResult struct {
	RelevantDocIDs []string `json:"relevantDocIds"`
	Answer         string   `json:"answer"`
}
