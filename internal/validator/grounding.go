package validator

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"recscan/internal/config"
	"recscan/internal/domain"
)

// genericNames is the closed stoplist of item names that models emit when
// inventing items rather than reading them.
var genericNames = map[string]bool{
	"item":         true,
	"product":      true,
	"food":         true,
	"drink":        true,
	"unknown item": true,
}

// amountEvidence are numeric shapes that suggest the source text ever
// carried a price at all.
var amountEvidence = []*regexp.Regexp{
	regexp.MustCompile(`\d+\.\d{2}`),
	regexp.MustCompile(`\d{3,7}`),
}

var tokenTrim = regexp.MustCompile(`^[^a-z0-9]+|[^a-z0-9]+$`)

// Report is the outcome of grounding validation for one record.
type Report struct {
	Accepted     bool
	SuspectItems int
	TotalItems   int
	Notes        []string
}

// Validator decides whether a structured extraction is plausibly grounded
// in its source text. Item grounding is a hard gate; unconfirmed totals are
// a soft warning only, since totals can be recomputed from items but
// invented items cannot be recovered from.
type Validator struct {
	cfg config.ValidatorConfig
}

// New creates a Validator with the given thresholds.
func New(cfg config.ValidatorConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks a candidate record against the original source text and
// returns an accept/reject report.
func (v *Validator) Validate(record *domain.ReceiptRecord, sourceText string) *Report {
	source := strings.ToLower(sourceText)
	report := &Report{TotalItems: len(record.Items)}

	for i := range record.Items {
		name := record.Items[i].Name
		if genericNames[strings.ToLower(strings.TrimSpace(name))] {
			report.SuspectItems++
			report.Notes = append(report.Notes, fmt.Sprintf("item %q has a generic placeholder name", name))
			continue
		}
		if !v.grounded(name, source) {
			report.SuspectItems++
			report.Notes = append(report.Notes, fmt.Sprintf("item %q is not grounded in the source text", name))
		}
	}

	report.Accepted = true
	if report.TotalItems > 0 {
		ratio := float64(report.SuspectItems) / float64(report.TotalItems)
		if ratio >= v.cfg.SuspectRatio {
			report.Accepted = false
			report.Notes = append(report.Notes, fmt.Sprintf(
				"%d of %d items look hallucinated; rejecting extraction", report.SuspectItems, report.TotalItems))
		}
	}

	// Total plausibility is a soft check: OCR frequently drops price text,
	// so a missing amount is logged but never grounds rejection on its own.
	if record.TotalAmount > 0 && !hasAmountEvidence(source) {
		report.Notes = append(report.Notes, fmt.Sprintf(
			"total amount %.2f has no numeric evidence in the source text", record.TotalAmount))
	}

	return report
}

// grounded reports whether enough of the name's tokens are traceable to the
// source text. A token is found when it appears verbatim or when any
// 3-character substring of it appears, which tolerates OCR corruption of
// individual characters.
func (v *Validator) grounded(name, source string) bool {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		tok = tokenTrim.ReplaceAllString(tok, "")
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		// Nothing assessable; give the item the benefit of the doubt.
		return true
	}

	found := 0
	for _, tok := range tokens {
		if tokenFound(tok, source) {
			found++
		}
	}

	required := int(math.Ceil(float64(len(tokens)) * v.cfg.MinTokenRatio))
	if required < 1 {
		required = 1
	}
	return found >= required
}

func tokenFound(tok, source string) bool {
	if strings.Contains(source, tok) {
		return true
	}
	for i := 0; i+3 <= len(tok); i++ {
		if strings.Contains(source, tok[i:i+3]) {
			return true
		}
	}
	return false
}

func hasAmountEvidence(source string) bool {
	for _, re := range amountEvidence {
		if re.MatchString(source) {
			return true
		}
	}
	return false
}
