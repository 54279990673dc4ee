package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/cenkalti/backoff/v4"

	"recscan/internal/config"
	"recscan/internal/domain"
	"recscan/internal/extract"
	"recscan/internal/port"
	"recscan/internal/validator"
)

// FallbackModelLabel is reported as model_used when the regex fallback
// produced the record.
const FallbackModelLabel = "regex-fallback"

// CacheModelLabel is reported as model_used on a memoization hit.
const CacheModelLabel = "cache"

// AnalyzeInput carries one analysis request.
type AnalyzeInput struct {
	Text        string
	ImageBase64 string
	Model       string // optional per-request model override, passed through opaquely
}

// AnalyzeResult is the outcome of one analysis request.
type AnalyzeResult struct {
	Record    *domain.ReceiptRecord
	ModelUsed string
}

// AnalyzeService orchestrates the extraction pipeline: primary model-based
// extraction with bounded retries, grounding validation, and deterministic
// fallback to the regex parser. It always returns a best-effort record when
// any usable input is present.
type AnalyzeService struct {
	backend   port.CompletionBackend // nil when no primary backend is configured
	heuristic *extract.HeuristicParser
	validator *validator.Validator
	cache     port.ResultCache // nil when caching is disabled
	cfg       config.ExtractorConfig
	tolerance float64
}

// NewAnalyzeService creates an AnalyzeService. backend and cache may be nil.
func NewAnalyzeService(
	backend port.CompletionBackend,
	v *validator.Validator,
	cache port.ResultCache,
	extractorCfg config.ExtractorConfig,
	validatorCfg config.ValidatorConfig,
) *AnalyzeService {
	return &AnalyzeService{
		backend:   backend,
		heuristic: extract.NewHeuristicParser(),
		validator: v,
		cache:     cache,
		cfg:       extractorCfg,
		tolerance: validatorCfg.AmountTolerance,
	}
}

// Analyze runs the pipeline for one request. It returns domain.ErrEmptyInput
// when neither text nor image is present, and domain.ErrBackendUnavailable
// only on total exhaustion (primary failed and no text exists for fallback).
func (s *AnalyzeService) Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && input.ImageBase64 == "" {
		return nil, domain.ErrEmptyInput
	}

	if s.cache != nil && text != "" {
		if record, ok := s.cache.Get(text); ok {
			return &AnalyzeResult{Record: record, ModelUsed: CacheModelLabel}, nil
		}
	}

	var notes []string

	if s.backend != nil {
		record, err := s.tryPrimary(ctx, text, input)
		switch {
		case err != nil:
			log.Printf("service.AnalyzeService: primary extraction failed: %v", err)
			if errors.Is(err, domain.ErrMalformedExtraction) {
				notes = append(notes, "primary extraction returned no parseable JSON")
			} else {
				notes = append(notes, "primary extraction backend unavailable")
			}
		case text == "":
			// Image-only input leaves nothing to ground against; accept the
			// extraction as-is.
			return s.finalize(record, domain.SourcePrimary, notes, text, s.modelUsed(input)), nil
		default:
			report := s.validator.Validate(record, text)
			if report.Accepted {
				return s.finalize(record, domain.SourcePrimary, append(notes, report.Notes...), text, s.modelUsed(input)), nil
			}
			log.Printf("service.AnalyzeService: %v (%d/%d items suspect), falling back",
				domain.ErrValidationRejected, report.SuspectItems, report.TotalItems)
			notes = append(notes, report.Notes...)
		}
	}

	if text == "" {
		return nil, domain.ErrBackendUnavailable
	}

	record := s.heuristic.Parse(text)
	record.Provenance.Notes = append(notes, record.Provenance.Notes...)
	return s.finalize(record, domain.SourceFallback, record.Provenance.Notes, text, FallbackModelLabel), nil
}

// tryPrimary invokes the completion backend with a bounded number of
// retries at a fixed delay. Transport errors, empty completions, and
// malformed JSON all count as transient; each attempt gets its own
// request-level timeout, and a timeout is indistinguishable from the
// backend being unreachable.
func (s *AnalyzeService) tryPrimary(ctx context.Context, text string, input AnalyzeInput) (*domain.ReceiptRecord, error) {
	prompt := extract.BuildReceiptPrompt(text)

	var record *domain.ReceiptRecord
	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
		defer cancel()

		completion, err := s.backend.Complete(attemptCtx, port.CompletionInput{
			Prompt:      prompt,
			ImageBase64: input.ImageBase64,
			Model:       input.Model,
		})
		if err != nil {
			return fmt.Errorf("completion call: %w", err)
		}
		if strings.TrimSpace(completion) == "" {
			return fmt.Errorf("empty completion from %s", s.backend.ModelName())
		}

		raw, err := extract.ExtractJSON(completion)
		if err != nil {
			return err
		}
		record = extract.BuildRecord(raw, s.tolerance)
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.cfg.RetryDelay()), uint64(s.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *AnalyzeService) finalize(
	record *domain.ReceiptRecord,
	source domain.ExtractionSource,
	notes []string,
	text, modelUsed string,
) *AnalyzeResult {
	record.Provenance = domain.Provenance{Source: source, Notes: notes}
	record.DetectedLanguage = detectLanguage(text)

	if s.cache != nil && text != "" {
		s.cache.Put(text, record)
	}
	return &AnalyzeResult{Record: record, ModelUsed: modelUsed}
}

func (s *AnalyzeService) modelUsed(input AnalyzeInput) string {
	if input.Model != "" {
		return input.Model
	}
	return s.backend.ModelName()
}

func detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return domain.DefaultLanguage
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" || !info.IsReliable() {
		return domain.DefaultLanguage
	}
	return code
}
