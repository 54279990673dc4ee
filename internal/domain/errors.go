package domain

import "errors"

var (
	// ErrEmptyInput means neither text nor image was supplied. Surfaced as a
	// client error, never retried.
	ErrEmptyInput = errors.New("no text or image provided to analyze")
	// ErrMalformedExtraction means the primary source returned text with no
	// parseable embedded JSON. Triggers fallback, not surfaced to callers.
	ErrMalformedExtraction = errors.New("no parseable JSON in model output")
	// ErrValidationRejected means the structured result failed the grounding
	// gate. Triggers fallback.
	ErrValidationRejected = errors.New("extraction rejected by grounding validation")
	// ErrBackendUnavailable means the primary extraction backend could not be
	// reached within the retry budget and no text exists for the regex
	// fallback. Surfaced as 503.
	ErrBackendUnavailable = errors.New("primary extraction backend unavailable")
)
