// Package extract converts raw file bytes into plain text for ingestion.
//
// Supported formats: PDF, DOCX (Office XML), HTML, and plain
// text/Markdown. The format is resolved from the declared MIME type
// first, then from the filename extension. Extraction never returns an
// empty string alongside a nil error — an empty result is reported as
// [ErrEmptyDocument] so the caller can fail the enclosing task.
package extract

import (
	"path/filepath"
	"strings"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeHTML = "text/html"
	mimeText = "text/plain"
)

// Extract converts a file's bytes into plain text based on its declared
// MIME type or filename extension.
func Extract(data []byte, filename, mimeType string) (string, error) {
	var (
		text string
		err  error
	)

	switch {
	case matches(filename, mimeType, mimePDF, ".pdf"):
		text, err = extractPDF(data)
	case matches(filename, mimeType, mimeDOCX, ".docx"):
		text, err = extractDOCX(data)
	case matches(filename, mimeType, mimeHTML, ".html", ".htm"):
		text, err = extractHTML(data)
	case matches(filename, mimeType, mimeText, ".txt", ".md"):
		text = strings.TrimSpace(string(data))
	default:
		return "", UnsupportedFormatError{Filename: filename}
	}

	if err != nil {
		return "", err
	}

	if text == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}

// Title derives a document title from a filename by stripping its
// extension, matching how uploads are labeled in the knowledge base.
func Title(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func matches(filename, mimeType, wantMIME string, wantExts ...string) bool {
	// MIME types may carry parameters, e.g. "text/html; charset=utf-8".
	if mt, _, ok := strings.Cut(mimeType, ";"); ok {
		mimeType = mt
	}
	if strings.TrimSpace(mimeType) == wantMIME {
		return true
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, want := range wantExts {
		if ext == want {
			return true
		}
	}

	return false
}
