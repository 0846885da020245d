// Package currency converts and formats money amounts using a static
// exchange-rate table.
package currency

import "strings"

// Supported currency codes.
const (
	USD = "USD"
	IDR = "IDR"
	EUR = "EUR"
	GBP = "GBP"
)

// Rates maps a source currency to target currencies and the multiplier that
// converts one unit of the source into the target. Rates are not required to
// be reciprocal.
type Rates map[string]map[string]float64

// Rate returns the direct multiplier from source to target.
func (r Rates) Rate(source, target string) (float64, bool) {
	row, ok := r[source]
	if !ok {
		return 0, false
	}
	rate, ok := row[target]
	if !ok || rate == 0 {
		return 0, false
	}
	return rate, true
}

// DefaultRates is the built-in table.
var DefaultRates = Rates{
	USD: {IDR: 15500, EUR: 0.92, GBP: 0.79},
	IDR: {USD: 0.000065, EUR: 0.000059, GBP: 0.000051},
	EUR: {USD: 1.09, IDR: 16850, GBP: 0.86},
	GBP: {USD: 1.27, IDR: 19650, EUR: 1.16},
}

// Normalize upper-cases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
