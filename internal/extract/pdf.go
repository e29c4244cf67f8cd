package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// fromPDF concatenates the extracted text of every page in page order.
// The pdf package panics on some malformed inputs, so recover converts
// those into ordinary errors; a corrupt PDF must never abort the run.
func fromPDF(body []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// skip unreadable pages, keep the rest
			continue
		}
		b.WriteString(pageText)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrNoContent
	}
	return b.String(), nil
}
