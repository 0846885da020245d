package currency

import (
	"bytes"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestConverter() *Converter {
	return NewConverter(nil, zerolog.New(io.Discard))
}

func TestConvert_Identity(t *testing.T) {
	c := newTestConverter()

	for _, amount := range []float64{0, 0.1, 19.99, 1e12, -3.3333333} {
		assert.Equal(t, amount, c.Convert(amount, USD, USD))
		assert.Equal(t, amount, c.Convert(amount, "XYZ", "XYZ"))
	}
}

func TestConvert_DirectRate(t *testing.T) {
	c := newTestConverter()

	assert.InDelta(t, 155000.0, c.Convert(10, USD, IDR), 1e-9)
	assert.InDelta(t, 9.2, c.Convert(10, USD, EUR), 1e-9)
	assert.InDelta(t, 12.7, c.Convert(10, GBP, USD), 1e-9)
	assert.InDelta(t, 9.2, c.Convert(10, "usd", "eur"), 1e-9, "codes are case-insensitive")
}

func TestConvert_ViaReserve(t *testing.T) {
	rates := Rates{
		USD: {EUR: 0.5},
		"CHF": {USD: 2},
	}
	c := NewConverter(rates, zerolog.New(io.Discard))

	assert.InDelta(t, 10.0, c.Convert(10, "CHF", EUR), 1e-9)
	assert.True(t, c.CanConvert("CHF", EUR))
}

func TestConvert_NoRateReturnsAmountAndLogs(t *testing.T) {
	var buf bytes.Buffer
	c := NewConverter(nil, zerolog.New(&buf))

	assert.Equal(t, 42.0, c.Convert(42, USD, "JPY"))
	assert.Contains(t, buf.String(), "no conversion rate available from USD to JPY")
	assert.False(t, c.CanConvert(USD, "JPY"))
}

func TestConvert_RoundTripWithinTolerance(t *testing.T) {
	c := newTestConverter()

	for _, amount := range []float64{1, 20, 99.95, 12345} {
		back := c.Convert(c.Convert(amount, USD, EUR), EUR, USD)
		// 0.92 * 1.09 = 1.0028, the table is not exactly reciprocal
		assert.InEpsilon(t, amount, back, 0.005)
	}
}

func TestConverter_Codes(t *testing.T) {
	assert.Equal(t, []string{EUR, GBP, IDR, USD}, newTestConverter().Codes())
}
