package pdfmeta

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount reads the page count from an in-memory PDF. Uploads are
// size-capped before they reach this point, so buffering is fine.
func PageCount(data []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	n := reader.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("pdf reports %d pages", n)
	}
	return n, nil
}
