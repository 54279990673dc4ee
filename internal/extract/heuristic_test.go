package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recscan/internal/domain"
	"recscan/internal/extract"
)

func TestHeuristicParse_QtyNamePriceLines(t *testing.T) {
	text := "CAFE ONE\n2 Coffee 3.50\n1 Muffin 2.00\nTotal: 9.00"

	record := extract.NewHeuristicParser().Parse(text)
	assert.Equal(t, "CAFE ONE", record.MerchantName)
	require.Len(t, record.Items, 2)
	assert.Equal(t, domain.LineItem{Name: "Coffee", Quantity: 2, UnitPrice: 3.5, TotalPrice: 7}, record.Items[0])
	assert.Equal(t, domain.LineItem{Name: "Muffin", Quantity: 1, UnitPrice: 2, TotalPrice: 2}, record.Items[1])
	assert.Equal(t, 9.0, record.TotalAmount)
	assert.Equal(t, domain.SourceFallback, record.Provenance.Source)
}

func TestHeuristicParse_TextWithNoNumbers(t *testing.T) {
	record := extract.NewHeuristicParser().Parse("thanks for shopping with us\nsee you again soon")

	assert.Equal(t, domain.DefaultMerchantName, record.MerchantName)
	assert.Equal(t, "", record.Date)
	assert.Empty(t, record.Items)
	assert.Equal(t, 0.0, record.TotalAmount)
}

func TestHeuristicParse_ExplicitQuantityMarker(t *testing.T) {
	record := extract.NewHeuristicParser().Parse("FOOD COURT\n1x Chicken Rice $8.50\n3x Iced Tea $2.00")

	require.Len(t, record.Items, 2)
	assert.Equal(t, domain.LineItem{Name: "Chicken Rice", Quantity: 1, UnitPrice: 8.5, TotalPrice: 8.5}, record.Items[0])
	assert.Equal(t, domain.LineItem{Name: "Iced Tea", Quantity: 3, UnitPrice: 2, TotalPrice: 6}, record.Items[1])
	assert.Equal(t, 14.5, record.TotalAmount)
}

func TestHeuristicParse_NamePricePairs(t *testing.T) {
	record := extract.NewHeuristicParser().Parse("MART\nBananas 1.20\nOat Milk 3.80\nTOTAL 5.00")

	require.Len(t, record.Items, 2)
	assert.Equal(t, domain.LineItem{Name: "Bananas", Quantity: 1, UnitPrice: 1.2, TotalPrice: 1.2}, record.Items[0])
	assert.Equal(t, domain.LineItem{Name: "Oat Milk", Quantity: 1, UnitPrice: 3.8, TotalPrice: 3.8}, record.Items[1])
	assert.Equal(t, 5.0, record.TotalAmount)
}

func TestHeuristicParse_MerchantSkipsSectionKeywords(t *testing.T) {
	record := extract.NewHeuristicParser().Parse("RECEIPT\nJoe's Diner\nBurger 9.50")
	assert.Equal(t, "Joe's Diner", record.MerchantName)
}

func TestHeuristicParse_MerchantOnlyFromTopLines(t *testing.T) {
	text := "\n\n\n\n\nLate Capitalized Line\nBurger 9.50"
	record := extract.NewHeuristicParser().Parse(text)
	assert.Equal(t, domain.DefaultMerchantName, record.MerchantName)
}

func TestHeuristicParse_Dates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"mdy slashes", "Date: 03/15/2024", "2024-03-15"},
		{"mdy dashes", "3-5-2024", "2024-03-05"},
		{"ymd", "2024/03/15 14:02", "2024-03-15"},
		{"month name", "Mar 15, 2024", "2024-03-15"},
		{"full month name", "visited on March 15th 2024", "2024-03-15"},
		{"invalid month", "13/45/2024", ""},
		{"no date", "no dates here", ""},
	}

	p := extract.NewHeuristicParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.text).Date)
		})
	}
}

func TestHeuristicParse_LastTotalMentionWins(t *testing.T) {
	text := "SHOP\nSandwich 4.00\nTotal 4.00\nTotal with tip 4.80"
	record := extract.NewHeuristicParser().Parse(text)
	assert.Equal(t, 4.8, record.TotalAmount)
}

func TestHeuristicParse_SubtotalDoesNotMatchTotal(t *testing.T) {
	text := "SHOP\nSandwich 4.00\nSUBTOTAL 4.00\nTAX 0.40"
	record := extract.NewHeuristicParser().Parse(text)
	// no grand total line; the total comes from summed items
	assert.Equal(t, 4.0, record.TotalAmount)
}

func TestHeuristicParse_AmountDue(t *testing.T) {
	record := extract.NewHeuristicParser().Parse("SHOP\nSandwich 4.00\nAmount Due: 4.40")
	assert.Equal(t, 4.4, record.TotalAmount)
}

func TestHeuristicParse_SynthesizesItemFromTotal(t *testing.T) {
	record := extract.NewHeuristicParser().Parse("CITY PARKING\nTOTAL 25.00")

	require.Len(t, record.Items, 1)
	assert.Equal(t, "CITY PARKING purchase", record.Items[0].Name)
	assert.Equal(t, 1, record.Items[0].Quantity)
	assert.Equal(t, 25.0, record.Items[0].UnitPrice)
	assert.Equal(t, 25.0, record.TotalAmount)
	assert.NotEmpty(t, record.Provenance.Notes)
}

func TestHeuristicParse_TotalKeptOverItemSum(t *testing.T) {
	// digits on the receipt win over recomputation, even when they disagree
	text := "CAFE ONE\n2 Coffee 3.50\n1 Muffin 2.00\nTotal: 9.00"
	record := extract.NewHeuristicParser().Parse(text)
	assert.Equal(t, 9.0, record.TotalAmount)
	assert.Equal(t, 9.0, record.ItemTotalSum())
}

func TestHeuristicParse_PriceLineFallbackStrategy(t *testing.T) {
	// no qty/name shapes match, so any price-bearing line becomes an item
	text := "MART\n*** Organic Apples ***  4.50\nTOTAL 4.50"
	record := extract.NewHeuristicParser().Parse(text)

	require.Len(t, record.Items, 1)
	assert.Contains(t, record.Items[0].Name, "Organic Apples")
	assert.Equal(t, 4.5, record.Items[0].UnitPrice)
}
