package domain

// LineItem is a single purchased item on a receipt. Prices are rounded to
// 2 decimal places; total_price is derived from quantity * unit_price.
type LineItem struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// Provenance records which extraction path produced a record, plus free-text
// diagnostics accumulated along the way. Required for observability, not
// correctness.
type Provenance struct {
	Source ExtractionSource `json:"source"`
	Notes  []string         `json:"notes,omitempty"`
}

// ReceiptRecord is the canonical output of receipt analysis. A record is
// constructed once per request and never mutated after return; it is not
// persisted anywhere.
type ReceiptRecord struct {
	MerchantName     string     `json:"merchant_name"`
	Date             string     `json:"date"`
	Items            []LineItem `json:"items"`
	TotalAmount      float64    `json:"total_amount"`
	DetectedLanguage string     `json:"detected_language"`
	Provenance       Provenance `json:"provenance"`
}

// ItemTotalSum returns the sum of all item total prices.
func (r *ReceiptRecord) ItemTotalSum() float64 {
	var sum float64
	for i := range r.Items {
		sum += r.Items[i].TotalPrice
	}
	return sum
}
