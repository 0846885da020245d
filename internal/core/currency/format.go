package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// fallbackSymbols is used when localized formatting is off or fails.
var fallbackSymbols = map[string]string{
	USD: "$",
	EUR: "€",
	GBP: "£",
	IDR: "Rp",
}

// Formatter renders money amounts for display.
type Formatter struct {
	localized bool
}

// NewFormatter creates a Formatter. When localized is false every call uses
// the fixed symbol table.
func NewFormatter(localized bool) *Formatter {
	return &Formatter{localized: localized}
}

// Format renders amount in the given currency for locale (a BCP 47 tag such
// as "id-ID"). If the locale or currency cannot be resolved the fallback
// format is used instead; Format never fails.
func (f *Formatter) Format(amount float64, code, locale string) string {
	code = Normalize(code)

	if f.localized {
		if s, err := formatLocalized(amount, code, locale); err == nil {
			return s
		}
	}

	return FormatFallback(amount, code)
}

// formatLocalized takes the symbol from CLDR for the locale and groups the
// digits with the locale's separators. The symbol always leads, as in
// x/text's own currency formatter, since x/text carries no currency patterns.
func formatLocalized(amount float64, code, locale string) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", locale, err)
	}

	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("parse currency %q: %w", code, err)
	}

	p := message.NewPrinter(tag)
	symbol := p.Sprint(xcurrency.Symbol(unit))
	digits := p.Sprint(number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))

	return symbol + " " + digits, nil
}

func symbolFor(code string) string {
	if symbol, ok := fallbackSymbols[code]; ok {
		return symbol
	}
	return code
}

// FormatFallback renders amount with a fixed symbol table: IDR without
// decimals and dot thousands separators ("Rp 1.234.567"), everything else
// with two decimals ("$ 12.50"). Unknown codes use the code as the symbol.
func FormatFallback(amount float64, code string) string {
	code = Normalize(code)

	symbol := symbolFor(code)

	if code == IDR {
		return symbol + " " + groupThousands(strconv.FormatFloat(math.Round(amount), 'f', 0, 64), ".")
	}

	return symbol + " " + strconv.FormatFloat(amount, 'f', 2, 64)
}

// groupThousands inserts sep between groups of three integer digits.
func groupThousands(digits, sep string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}

	return sign + b.String()
}

// DualPrice renders amount in its original currency followed by the
// converted amount in target, e.g. "$ 10.00 (Rp 155.000)". When the
// currencies match only one price is shown.
func DualPrice(c *Converter, f *Formatter, amount float64, original, target, locale string) string {
	original, target = Normalize(original), Normalize(target)
	if original == target {
		return f.Format(amount, original, locale)
	}

	converted := c.Convert(amount, original, target)
	return fmt.Sprintf("%s (%s)", f.Format(amount, original, locale), f.Format(converted, target, locale))
}
