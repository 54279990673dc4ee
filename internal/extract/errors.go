package extract

import (
	"fmt"

	"recscan/internal/domain"
)

// MalformedExtractionError indicates a model completion contained no
// parseable embedded JSON. It carries the offending substring for
// diagnostics and matches domain.ErrMalformedExtraction via errors.Is.
type MalformedExtractionError struct {
	Err     error
	Snippet string
}

func (e *MalformedExtractionError) Error() string {
	return fmt.Sprintf("malformed extraction: %v (raw: %s)", e.Err, e.Snippet)
}

func (e *MalformedExtractionError) Unwrap() error {
	return e.Err
}

func (e *MalformedExtractionError) Is(target error) bool {
	return target == domain.ErrMalformedExtraction
}

// NewMalformedExtractionError creates a MalformedExtractionError, truncating
// the snippet to keep log lines bounded.
func NewMalformedExtractionError(err error, snippet string) *MalformedExtractionError {
	return &MalformedExtractionError{Err: err, Snippet: truncate(snippet, 500)}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
