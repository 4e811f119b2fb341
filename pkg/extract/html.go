package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractHTML parses an HTML document, removes the script and style
// subtrees entirely, and returns the remaining visible text.
func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, style").Remove()

	return strings.TrimSpace(doc.Find("body").Text()), nil
}
