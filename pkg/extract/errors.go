package extract

import "errors"

var (
	// ErrNoTextFound is returned when a recognized document yields zero
	// extractable characters.
	ErrNoTextFound = errors.New("no extractable text found")

	// ErrEmptyDocument is returned when extraction succeeds but the
	// resulting text is empty after trimming.
	ErrEmptyDocument = errors.New("document is empty")
)

// UnsupportedFormatError is returned when a file's MIME type and
// extension match none of the supported formats.
type UnsupportedFormatError struct {
	Filename string
}

func (e UnsupportedFormatError) Error() string {
	if e.Filename == "" {
		return "unsupported file format"
	}

	return "unsupported file format: " + e.Filename
}
