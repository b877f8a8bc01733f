// Package extract converts raw file bytes into plain text. Empty output is a
// signal ("no evidence"), not a failure: unsupported types and engine errors
// both degrade to an empty string so callers can fall back gracefully.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docvault/internal/core/domain"
)

// maxPDFPages bounds text-layer extraction latency; pages beyond the bound
// are silently skipped.
const maxPDFPages = 10

type Extractor struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{log: log}
}

// Extract returns the plain-text content of file. It never returns an error
// for unsupported MIME types and swallows engine failures after logging them.
func (e *Extractor) Extract(ctx context.Context, file domain.SourceFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mime := strings.ToLower(strings.TrimSpace(file.MimeType))

	var (
		text string
		err  error
	)
	switch {
	case mime == "application/pdf":
		text, err = pdfText(file.Data)
	case strings.HasPrefix(mime, "image/"):
		text, err = imageText(file.Data)
	case mime == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		text, err = spreadsheetText(file.Data)
	case strings.HasPrefix(mime, "text/"):
		if utf8.Valid(file.Data) {
			text = string(file.Data)
		}
	default:
		e.log.Debug("unsupported mime type", "mime", mime, "filename", file.Filename)
		return "", nil
	}

	if err != nil {
		e.log.Warn("extraction degraded to empty text", "mime", mime, "filename", file.Filename, "error", err)
		return "", nil
	}
	return strings.TrimSpace(text), nil
}
