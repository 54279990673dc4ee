package extract

import (
	"math"
	"regexp"
	"strings"

	"recscan/internal/domain"
)

// defaultItemTolerance is the allowed drift between a reported line total
// and quantity * unit_price before the total is recomputed. Used when the
// caller does not supply a tolerance.
const defaultItemTolerance = 0.01

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// placeholderNames are generic labels that models emit when they cannot read
// an item name. Such items are rejected during cleaning.
var placeholderNames = map[string]bool{
	"item":    true,
	"product": true,
}

var numericName = regexp.MustCompile(`^[\d\s.,$-]+$`)

// BuildRecord turns a normalized raw mapping into a canonical ReceiptRecord:
// aliases resolved, amounts coerced and rounded, invalid items dropped
// wholesale, and the arithmetic invariants enforced. Provenance and language
// are left for the orchestrator to fill in.
func BuildRecord(raw map[string]interface{}, tolerance float64) *domain.ReceiptRecord {
	if tolerance <= 0 {
		tolerance = defaultItemTolerance
	}
	fields := NormalizeFields(raw)
	record := &domain.ReceiptRecord{
		MerchantName: normalizeMerchant(fields.MerchantName),
		Date:         normalizeDate(fields.Date),
		Items:        []domain.LineItem{},
	}

	for _, rawItem := range fields.Items {
		if item, ok := cleanItem(rawItem, tolerance); ok {
			record.Items = append(record.Items, item)
		}
	}

	total, ok := ParseAmount(fields.TotalAmount)
	switch {
	case !ok || total < 0:
		// Unparseable totals are recomputed from retained items.
		total = record.ItemTotalSum()
	case len(fields.Items) > 0 && len(record.Items) == 0:
		// Every extracted item failed cleaning; a total with no surviving
		// items to back it would be fabricated.
		total = 0
	}
	record.TotalAmount = RoundAmount(total)

	return record
}

// cleanItem validates one raw item mapping. A partially valid item is
// discarded wholesale: name and unit price are required, quantity defaults
// to 1, and the line total is recomputed whenever it disagrees with
// quantity * unit_price beyond tolerance.
func cleanItem(raw map[string]interface{}, tolerance float64) (domain.LineItem, bool) {
	name, ok := cleanName(itemField(raw, itemNameAliases))
	if !ok {
		return domain.LineItem{}, false
	}

	unitPrice, ok := ParseAmount(itemField(raw, itemPriceAliases))
	if !ok || unitPrice < 0 {
		return domain.LineItem{}, false
	}

	quantity, ok := ParseQuantity(itemField(raw, itemQtyAliases))
	if !ok {
		quantity = 1
	}

	expected := float64(quantity) * unitPrice
	totalPrice, ok := ParseAmount(itemField(raw, itemTotalAliases))
	if !ok || math.Abs(RoundAmount(expected)-totalPrice) > tolerance {
		// quantity and unit price are ground truth; the total is derived.
		totalPrice = expected
	}

	return domain.LineItem{
		Name:       name,
		Quantity:   quantity,
		UnitPrice:  RoundAmount(unitPrice),
		TotalPrice: RoundAmount(totalPrice),
	}, true
}

func cleanName(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || numericName.MatchString(s) || placeholderNames[strings.ToLower(s)] {
		return "", false
	}
	return s, true
}

func normalizeMerchant(v interface{}) string {
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return domain.DefaultMerchantName
}

// normalizeDate keeps only well-formed YYYY-MM-DD values; a date is never
// fabricated.
func normalizeDate(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if !isoDate.MatchString(s) {
		return ""
	}
	return s
}
