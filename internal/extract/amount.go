package extract

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyStripper removes currency symbols, thousands separators, and
// whitespace from amount strings before numeric coercion.
var currencyStripper = strings.NewReplacer(
	"$", "", "¥", "", "₩", "", "€", "", "£", "",
	",", "", " ", "", " ", "",
)

// ParseAmount coerces a raw field value representing a currency amount into
// a float64. The bool result is false when the value is absent or has
// non-numeric residue; the caller then applies its default-or-drop policy.
func ParseAmount(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case int:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		s := currencyStripper.Replace(strings.TrimSpace(val))
		if s == "" {
			return 0, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return 0, false
		}
		return d.InexactFloat64(), true
	default:
		return 0, false
	}
}

// ParseQuantity coerces a raw quantity value into an integer. Fractional
// numeric values are truncated the way the upstream pipeline always has;
// results below 1 are unparseable.
func ParseQuantity(v interface{}) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		q := int(val)
		return q, q >= 1
	case int:
		return val, val >= 1
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		q := int(f)
		return q, q >= 1
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(val)), "x"))
		d, err := decimal.NewFromString(s)
		if err != nil {
			return 0, false
		}
		q := int(d.IntPart())
		return q, q >= 1
	default:
		return 0, false
	}
}

// RoundAmount rounds a currency amount half-up to 2 decimal digits. Applied
// only when a value is finalized into a record, never mid-arithmetic.
func RoundAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
