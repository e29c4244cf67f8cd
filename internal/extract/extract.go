package extract

import (
	"bytes"
	"errors"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// ErrNoContent indicates a document yielded nothing usable. Callers are
// expected to skip the source rather than abort the run.
var ErrNoContent = errors.New("no extractable content")

// FromBytes converts fetched bytes into plain readable text based on the
// declared content type. PDF bodies are parsed page by page in page order;
// everything else is treated as an HTML document.
func FromBytes(body []byte, contentType string) (string, error) {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return fromPDF(body)
	}
	return fromHTML(body)
}

// fromHTML runs boilerplate-stripping extraction and returns the main-content
// text. Readability rejects sparse or non-article pages, so a heuristic
// walker over the parsed tree serves as fallback.
func fromHTML(body []byte) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), nil)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text, nil
		}
	}
	if text := strings.TrimSpace(heuristicText(body)); text != "" {
		return text, nil
	}
	return "", ErrNoContent
}
