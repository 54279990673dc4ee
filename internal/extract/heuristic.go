package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recscan/internal/domain"
)

// sectionKeywords are receipt section labels that can never be merchant or
// item names.
var sectionKeywords = []string{
	"TOTAL", "SUBTOTAL", "TAX", "RECEIPT", "ORDER", "ITEM", "PRICE", "QTY", "DATE",
}

// amountKeywords mark lines whose prices are not item prices.
var amountKeywords = []string{
	"TOTAL", "SUBTOTAL", "TAX", "DISCOUNT", "CHANGE", "CASH", "TENDER", "BALANCE", "AMOUNT DUE",
}

var (
	dateMDY       = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	dateYMD       = regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`)
	dateMonthName = regexp.MustCompile(`(?i)\b(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)

	// Ordered total patterns: keyword before number, number before keyword,
	// then the "due" variants. The last match of the first successful
	// pattern wins; on a receipt the last "total" mention is the grand
	// total, earlier ones tend to be subtotal-like.
	totalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:grand\s+)?total\b[^0-9\n]*(\d[\d,]*\.\d{2})`),
		regexp.MustCompile(`(?i)(\d[\d,]*\.\d{2})[^0-9\n]*\b(?:grand\s+)?total\b`),
		regexp.MustCompile(`(?i)\b(?:amount|balance)\s+due\b[^0-9\n]*(\d[\d,]*\.\d{2})`),
		regexp.MustCompile(`(?i)(\d[\d,]*\.\d{2})[^0-9\n]*\b(?:amount|balance)\s+due\b`),
	}

	qtyNamePrice = regexp.MustCompile(`^\s*(\d{1,3})\s*[xX]?\s+([A-Za-z][A-Za-z0-9 .,'&/-]*?)\s+\$?(\d[\d,]*\.\d{2})\s*$`)
	nameQtyPrice = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9 .,'&/-]*?)\s+[xX]?\s*(\d{1,3})\s+\$?(\d[\d,]*\.\d{2})\s*$`)
	namePrice    = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9 .,'&/-]*?)\s+\$?(\d[\d,]*\.\d{2})\s*$`)
	anyPrice     = regexp.MustCompile(`\d[\d,]*\.\d{2}`)

	monthNumbers = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

// HeuristicParser is the regex fallback extraction path. It operates purely
// on text patterns, never calls a model, and always returns a record,
// possibly with no items.
type HeuristicParser struct{}

// NewHeuristicParser creates a HeuristicParser.
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

// Parse produces a best-effort ReceiptRecord from raw receipt text.
func (p *HeuristicParser) Parse(text string) *domain.ReceiptRecord {
	lines := strings.Split(text, "\n")

	record := &domain.ReceiptRecord{
		MerchantName: p.findMerchant(lines),
		Date:         p.findDate(text),
		Items:        []domain.LineItem{},
		Provenance:   domain.Provenance{Source: domain.SourceFallback},
	}

	total, totalFound := p.findTotal(text)
	record.Items = p.findItems(lines)

	if len(record.Items) == 0 && totalFound && total > 0 {
		// Last resort: a receipt with a grand total but no detectable item
		// lines still represents at least one purchase.
		name := "Purchase"
		if record.MerchantName != domain.DefaultMerchantName {
			name = record.MerchantName + " purchase"
		}
		record.Items = append(record.Items, domain.LineItem{
			Name:       name,
			Quantity:   1,
			UnitPrice:  RoundAmount(total),
			TotalPrice: RoundAmount(total),
		})
		record.Provenance.Notes = append(record.Provenance.Notes,
			"no item lines detected; synthesized a single item from the receipt total (low confidence)")
	}

	if !totalFound {
		total = record.ItemTotalSum()
	}
	record.TotalAmount = RoundAmount(total)

	return record
}

// findMerchant scans the first few lines for a capitalized line that is not
// a receipt section keyword.
func (p *HeuristicParser) findMerchant(lines []string) string {
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, raw := range lines[:limit] {
		line := strings.TrimSpace(raw)
		if line == "" || !startsCapitalized(line) {
			continue
		}
		if containsKeyword(line, sectionKeywords) || numericName.MatchString(line) {
			continue
		}
		return line
	}
	return domain.DefaultMerchantName
}

// findDate tries MM/DD/YYYY, then YYYY/MM/DD, then a month-name pattern.
// The first pattern to yield a valid date wins; matches are never merged
// across patterns.
func (p *HeuristicParser) findDate(text string) string {
	for _, m := range dateMDY.FindAllStringSubmatch(text, -1) {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d := formatDate(year, month, day); d != "" {
			return d
		}
	}
	for _, m := range dateYMD.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d := formatDate(year, month, day); d != "" {
			return d
		}
	}
	for _, m := range dateMonthName.FindAllStringSubmatch(text, -1) {
		month := monthNumbers[strings.ToLower(m[1])[:3]]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d := formatDate(year, month, day); d != "" {
			return d
		}
	}
	return ""
}

// findTotal tries the ordered total patterns and takes the last match of
// the first pattern that matches at all.
func (p *HeuristicParser) findTotal(text string) (float64, bool) {
	for _, re := range totalPatterns {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		last := matches[len(matches)-1]
		if v, ok := parsePriceToken(last[1]); ok {
			return v, true
		}
	}
	return 0, false
}

// findItems runs the three item strategies in order; the first strategy to
// yield any item wins.
func (p *HeuristicParser) findItems(lines []string) []domain.LineItem {
	if items := p.itemsFromTriples(lines); len(items) > 0 {
		return items
	}
	if items := p.itemsFromPairs(lines); len(items) > 0 {
		return items
	}
	return p.itemsFromPriceLines(lines)
}

// itemsFromTriples matches "qty name price" and "name qty price" lines.
func (p *HeuristicParser) itemsFromTriples(lines []string) []domain.LineItem {
	var items []domain.LineItem
	for _, line := range lines {
		if m := qtyNamePrice.FindStringSubmatch(line); m != nil {
			if item, ok := buildHeuristicItem(m[2], m[1], m[3]); ok {
				items = append(items, item)
			}
			continue
		}
		if m := nameQtyPrice.FindStringSubmatch(line); m != nil {
			if item, ok := buildHeuristicItem(m[1], m[2], m[3]); ok {
				items = append(items, item)
			}
		}
	}
	return items
}

// itemsFromPairs matches "name price" lines with an implied quantity of 1.
func (p *HeuristicParser) itemsFromPairs(lines []string) []domain.LineItem {
	var items []domain.LineItem
	for _, line := range lines {
		if m := namePrice.FindStringSubmatch(line); m != nil {
			if item, ok := buildHeuristicItem(m[1], "1", m[2]); ok {
				items = append(items, item)
			}
		}
	}
	return items
}

// itemsFromPriceLines is the secondary pass: any line carrying a two-decimal
// price not adjacent to total/tax/discount keywords is an item candidate.
// The name comes from the same line with the price stripped, or from the
// immediately preceding line.
func (p *HeuristicParser) itemsFromPriceLines(lines []string) []domain.LineItem {
	var items []domain.LineItem
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		prices := anyPrice.FindAllString(line, -1)
		if len(prices) == 0 || containsKeyword(line, amountKeywords) {
			continue
		}
		price, ok := parsePriceToken(prices[len(prices)-1])
		if !ok {
			continue
		}

		name := strings.Trim(anyPrice.ReplaceAllString(line, ""), " \t-:$¥₩")
		if !validItemName(name) && i > 0 {
			name = strings.TrimSpace(lines[i-1])
		}
		if !validItemName(name) {
			continue
		}
		items = append(items, domain.LineItem{
			Name:       name,
			Quantity:   1,
			UnitPrice:  RoundAmount(price),
			TotalPrice: RoundAmount(price),
		})
	}
	return items
}

// buildHeuristicItem assembles an item from captured tokens, applying the
// detection-time name filter. The captured price is the unit price; the
// line total is always derived.
func buildHeuristicItem(name, qty, price string) (domain.LineItem, bool) {
	name = strings.TrimSpace(name)
	if !validItemName(name) {
		return domain.LineItem{}, false
	}
	quantity, err := strconv.Atoi(qty)
	if err != nil || quantity < 1 {
		quantity = 1
	}
	unitPrice, ok := parsePriceToken(price)
	if !ok {
		return domain.LineItem{}, false
	}
	return domain.LineItem{
		Name:       name,
		Quantity:   quantity,
		UnitPrice:  RoundAmount(unitPrice),
		TotalPrice: RoundAmount(float64(quantity) * unitPrice),
	}, true
}

// validItemName rejects purely numeric names, names shorter than 3
// characters, and section keywords at detection time.
func validItemName(name string) bool {
	if len(name) < 3 || numericName.MatchString(name) {
		return false
	}
	return !containsKeyword(name, sectionKeywords)
}

func containsKeyword(s string, keywords []string) bool {
	upper := strings.ToUpper(s)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func startsCapitalized(line string) bool {
	for _, r := range line {
		if r >= 'A' && r <= 'Z' {
			return true
		}
		if r >= 'a' && r <= 'z' {
			return false
		}
	}
	return false
}

func parsePriceToken(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func formatDate(year, month, day int) string {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1000 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
