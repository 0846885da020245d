package currency

import (
	"fmt"
	"os"
	"strings"
)

// Mode selects how the user's display currency is chosen.
type Mode string

const (
	// ModeLocale maps the user's locale to a currency.
	ModeLocale Mode = "locale"
	// ModeFixed always uses a configured currency.
	ModeFixed Mode = "fixed"
)

// DefaultLocale is used when no locale can be determined.
const DefaultLocale = "en-US"

// localeCurrencies is checked in order; the first matching prefix wins.
var localeCurrencies = []struct {
	prefix   string
	currency string
}{
	{"en-US", USD},
	{"en-GB", GBP},
	{"de", EUR},
	{"fr", EUR},
	{"es", EUR},
	{"it", EUR},
	{"ja", "JPY"},
}

// Resolver infers the user's locale and display currency.
type Resolver struct {
	Mode   Mode
	Fixed  string // currency used in ModeFixed
	Locale string // overrides the environment locale when set

	// Getenv reads environment variables; defaults to os.Getenv.
	Getenv func(string) string
}

// Validate checks that the resolver settings are usable.
func (r Resolver) Validate() error {
	switch r.Mode {
	case ModeLocale, "":
		return nil
	case ModeFixed:
		if Normalize(r.Fixed) == "" {
			return fmt.Errorf("fixed currency mode requires a currency code")
		}
		return nil
	default:
		return fmt.Errorf("unknown currency mode %q (expected %q or %q)", r.Mode, ModeLocale, ModeFixed)
	}
}

// UserLocale returns the configured locale, else the locale from LC_ALL,
// LC_MONETARY or LANG, else DefaultLocale. The result is a BCP 47 style tag.
func (r Resolver) UserLocale() string {
	if r.Locale != "" {
		return NormalizeLocale(r.Locale)
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	for _, key := range []string{"LC_ALL", "LC_MONETARY", "LANG"} {
		if v := NormalizeLocale(getenv(key)); v != "" {
			return v
		}
	}

	return DefaultLocale
}

// UserCurrency returns the display currency for the user.
func (r Resolver) UserCurrency() string {
	if r.Mode == ModeFixed {
		if code := Normalize(r.Fixed); code != "" {
			return code
		}
	}
	return CurrencyForLocale(r.UserLocale())
}

// CurrencyForLocale maps a locale tag to a currency. Indonesian locales
// (language "id" or region "ID") map to IDR; unmatched locales map to USD.
func CurrencyForLocale(locale string) string {
	locale = NormalizeLocale(locale)

	lang, region, _ := strings.Cut(locale, "-")
	if strings.EqualFold(lang, "id") || strings.EqualFold(region, "ID") {
		return IDR
	}

	for _, lc := range localeCurrencies {
		if strings.HasPrefix(locale, lc.prefix) {
			return lc.currency
		}
	}

	return USD
}

// NormalizeLocale converts POSIX locale strings such as "en_US.UTF-8" to
// "en-US". "C" and "POSIX" normalize to the empty string.
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}

	switch locale {
	case "", "C", "POSIX":
		return ""
	}

	return strings.ReplaceAll(locale, "_", "-")
}
