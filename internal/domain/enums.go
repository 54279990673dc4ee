package domain

// ExtractionSource identifies which pipeline path produced a record.
type ExtractionSource string

const (
	// SourcePrimary means a model-based extraction was accepted.
	SourcePrimary ExtractionSource = "primary"
	// SourceFallback means the regex fallback parser produced the record.
	SourceFallback ExtractionSource = "fallback"
)

// DefaultMerchantName is the sentinel used when no merchant name can be
// determined.
const DefaultMerchantName = "Unknown Merchant"

// DefaultLanguage is the language code used when detection is inconclusive.
const DefaultLanguage = "en"
