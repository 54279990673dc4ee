package port

import "context"

// CompletionInput carries a request to a completion backend.
type CompletionInput struct {
	Prompt      string
	ImageBase64 string // optional; passed through when the backend supports vision
	Model       string // optional per-request model override
}

// CompletionBackend abstracts the generative model used for primary
// extraction. The backend returns the raw completion text; locating and
// parsing embedded JSON belongs to the extract package.
type CompletionBackend interface {
	Complete(ctx context.Context, input CompletionInput) (string, error)
	ModelName() string
}
