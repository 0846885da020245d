package currency

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFormatFallback(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{name: "idr groups thousands", amount: 1234567, code: IDR, want: "Rp 1.234.567"},
		{name: "idr rounds to whole", amount: 1500.6, code: IDR, want: "Rp 1.501"},
		{name: "idr small", amount: 999, code: IDR, want: "Rp 999"},
		{name: "idr negative", amount: -12345, code: IDR, want: "Rp -12.345"},
		{name: "usd two decimals", amount: 12.5, code: USD, want: "$ 12.50"},
		{name: "eur", amount: 3, code: EUR, want: "€ 3.00"},
		{name: "gbp", amount: 0.999, code: GBP, want: "£ 1.00"},
		{name: "unknown code uses code", amount: 7.25, code: "CHF", want: "CHF 7.25"},
		{name: "lower-case code", amount: 1000, code: "idr", want: "Rp 1.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFallback(tt.amount, tt.code))
		})
	}
}

func TestFormatter_FallbackWhenNotLocalized(t *testing.T) {
	f := NewFormatter(false)
	assert.Equal(t, "Rp 1.234.567", f.Format(1234567, IDR, "id-ID"))
}

func TestFormatter_FallbackOnInvalidInput(t *testing.T) {
	f := NewFormatter(true)

	assert.Equal(t, "ABC 1.00", f.Format(1, "ABC", "en-US"), "unknown ISO code")
	assert.Equal(t, "$ 5.00", f.Format(5, USD, "not a locale!"), "unparseable locale")
}

func TestFormatter_Localized(t *testing.T) {
	f := NewFormatter(true)

	tests := []struct {
		name   string
		amount float64
		code   string
		locale string
		want   string
	}{
		{name: "usd en-US", amount: 1234.5, code: USD, locale: "en-US", want: "$ 1,234.50"},
		{name: "eur de-DE", amount: 1234.5, code: EUR, locale: "de-DE", want: "€ 1.234,50"},
		{name: "idr id-ID", amount: 1234567, code: IDR, locale: "id-ID", want: "Rp 1.234.567,00"},
		{name: "symbol outside fallback table", amount: 1234.5, code: "JPY", locale: "en-US", want: "¥ 1,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.amount, tt.code, tt.locale))
		})
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "1", groupThousands("1", "."))
	assert.Equal(t, "123", groupThousands("123", "."))
	assert.Equal(t, "1.234", groupThousands("1234", "."))
	assert.Equal(t, "123.456", groupThousands("123456", "."))
	assert.Equal(t, "-1,000,000", groupThousands("-1000000", ","))
}

func TestDualPrice(t *testing.T) {
	c := NewConverter(nil, zerolog.New(io.Discard))
	f := NewFormatter(false)

	assert.Equal(t, "$ 10.00", DualPrice(c, f, 10, USD, "usd", "en-US"))
	assert.Equal(t, "$ 10.00 (Rp 155.000)", DualPrice(c, f, 10, USD, IDR, "en-US"))
}
