package extract

import "strings"

// Ordered alias lists per canonical field. The first alias present in the
// raw mapping wins; comparison is case-insensitive to absorb arbitrary key
// casing from model output.
var (
	merchantAliases = []string{"merchant_name", "merchantname", "merchant", "store_name", "store", "vendor"}
	dateAliases     = []string{"date", "receipt_date", "purchase_date", "transaction_date"}
	totalAliases    = []string{"total_amount", "totalamount", "total", "grand_total", "amount_due"}
	itemsAliases    = []string{"items", "line_items", "lineitems", "products", "purchases"}

	itemNameAliases = []string{"name", "item_name", "description", "item"}
	// Price lookup priority is fixed: unit_price, then price, then amount.
	itemPriceAliases = []string{"unit_price", "price", "amount"}
	itemQtyAliases   = []string{"quantity", "qty", "count"}
	itemTotalAliases = []string{"total_price", "total", "line_total"}
)

// RawFields is a raw parsed mapping reshaped onto the canonical field set.
// Values are still untyped; legality checks (numeric parsing, non-emptiness)
// belong to the amount normalizer and item cleaning.
type RawFields struct {
	MerchantName interface{}
	Date         interface{}
	TotalAmount  interface{}
	Items        []map[string]interface{}
}

// NormalizeFields maps heterogeneous field-name variants onto the canonical
// schema. It never fails: absent fields come back nil and defaults are
// applied downstream.
func NormalizeFields(raw map[string]interface{}) RawFields {
	fields := RawFields{
		MerchantName: lookupAlias(raw, merchantAliases),
		Date:         lookupAlias(raw, dateAliases),
		TotalAmount:  lookupAlias(raw, totalAliases),
	}

	items, _ := lookupAlias(raw, itemsAliases).([]interface{})
	for _, entry := range items {
		if m, ok := entry.(map[string]interface{}); ok {
			fields.Items = append(fields.Items, m)
		}
	}
	return fields
}

// itemField resolves an item attribute through its alias list.
func itemField(item map[string]interface{}, aliases []string) interface{} {
	return lookupAlias(item, aliases)
}

func lookupAlias(m map[string]interface{}, aliases []string) interface{} {
	if m == nil {
		return nil
	}
	for _, alias := range aliases {
		for key, val := range m {
			if strings.EqualFold(key, alias) {
				return val
			}
		}
	}
	return nil
}
