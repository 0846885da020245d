package currency

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"
)

// Reserve is the currency used for two-hop conversions.
const Reserve = USD

// Converter converts amounts between currencies.
type Converter struct {
	rates Rates
	log   zerolog.Logger
}

// NewConverter creates a Converter. A nil rates table uses DefaultRates.
func NewConverter(rates Rates, log zerolog.Logger) *Converter {
	if rates == nil {
		rates = DefaultRates
	}
	return &Converter{rates: rates, log: log}
}

// Convert converts amount from source to target currency. Same-currency
// conversions return amount untouched. Pairs without a direct rate go
// through Reserve. When no path exists the amount is returned unconverted and
// a warning is logged.
func (c *Converter) Convert(amount float64, source, target string) float64 {
	source, target = Normalize(source), Normalize(target)
	if source == target {
		return amount
	}

	if rate, ok := c.rates.Rate(source, target); ok {
		return amount * rate
	}

	toReserve, okIn := c.rates.Rate(source, Reserve)
	fromReserve, okOut := c.rates.Rate(Reserve, target)
	if okIn && okOut {
		return amount * toReserve * fromReserve
	}

	c.log.Warn().
		Str("source", source).
		Str("target", target).
		Msgf("no conversion rate available from %s to %s", source, target)
	return amount
}

// CanConvert reports whether Convert has a rate path between the currencies.
func (c *Converter) CanConvert(source, target string) bool {
	source, target = Normalize(source), Normalize(target)
	if source == target {
		return true
	}
	if _, ok := c.rates.Rate(source, target); ok {
		return true
	}
	_, okIn := c.rates.Rate(source, Reserve)
	_, okOut := c.rates.Rate(Reserve, target)
	return okIn && okOut
}

// Codes returns the currencies that appear as a source in the table, sorted.
func (c *Converter) Codes() []string {
	return slices.Sorted(maps.Keys(c.rates))
}
