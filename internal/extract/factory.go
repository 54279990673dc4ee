package extract

import (
	"fmt"

	"recscan/internal/config"
	"recscan/internal/port"
)

// BackendFactory is a function that creates a CompletionBackend from the
// extractor config.
type BackendFactory func(cfg *config.ExtractorConfig) (port.CompletionBackend, error)

// registry of completion backend factories, populated explicitly via
// RegisterBackend at startup.
var backends = map[string]BackendFactory{}

// RegisterBackend registers a completion backend factory by provider name.
func RegisterBackend(name string, factory BackendFactory) {
	backends[name] = factory
}

// NewBackend creates a CompletionBackend from the extractor config using the
// registered factory. Provider "none" (or empty) yields a nil backend,
// meaning analysis runs fallback-only.
func NewBackend(cfg *config.ExtractorConfig) (port.CompletionBackend, error) {
	if cfg.Provider == "" || cfg.Provider == "none" {
		return nil, nil
	}
	factory, ok := backends[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
