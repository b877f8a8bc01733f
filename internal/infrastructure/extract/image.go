package extract

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// imageText runs Tesseract OCR at word/line granularity; recognized lines
// come back concatenated in reading order with no page structure.
func imageText(data []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}
