package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// SourceFile is the ephemeral input to one analysis call. It exists only for
// the duration of that call and is never persisted as-is.
type SourceFile struct {
	Filename string
	MimeType string
	Data     []byte
}

// AnalysisResult is the structured output of analyzing one document.
// Produced exactly once per SourceFile and read-only afterwards.
type AnalysisResult struct {
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Summary       string   `json:"summary"`
	Tags          []string `json:"tags"`
	ImportantDate string   `json:"importantDate,omitempty"`
	DateLabel     string   `json:"dateLabel,omitempty"`
	OCRText       string   `json:"ocrText,omitempty"`
}

type Document struct {
	ID            string         `json:"id"`
	Filename      string         `json:"filename"`
	MimeType      string         `json:"mime_type"`
	StoragePath   string         `json:"storage_path"`
	Title         string         `json:"title"`
	Category      string         `json:"category,omitempty"`
	Summary       string         `json:"summary,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	ImportantDate string         `json:"important_date,omitempty"`
	DateLabel     string         `json:"date_label,omitempty"`
	OCRText       string         `json:"ocr_text,omitempty"`
	FolderID      string         `json:"folder_id,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	FileSize      int64          `json:"file_size,omitempty"`
	Status        DocumentStatus `json:"status"`
	Error         string         `json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type Folder struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	SharedWith []string  `json:"shared_with,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
