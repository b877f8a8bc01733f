package domain

// BatchItemState is the per-item lifecycle inside an upload batch.
// idle -> analyzing -> done | error, no other transitions.
type BatchItemState string

const (
	ItemIdle      BatchItemState = "idle"
	ItemAnalyzing BatchItemState = "analyzing"
	ItemDone      BatchItemState = "done"
	ItemError     BatchItemState = "error"
)

// BatchItem tracks one queued file through the ingestion batch.
type BatchItem struct {
	ID         string         `json:"id"`
	Filename   string         `json:"filename"`
	State      BatchItemState `json:"state"`
	DocumentID string         `json:"document_id,omitempty"`
	Title      string         `json:"title,omitempty"`
	Error      string         `json:"error,omitempty"`
}
