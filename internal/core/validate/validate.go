// Package validate provides shared input validation for the CLI and API.
package validate

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	MaxQueryLength = 200
	MaxLimit       = 100
)

// SearchQuery validates a search query is non-empty after trimming whitespace.
func SearchQuery(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return fmt.Errorf("query must be at most %d characters", MaxQueryLength)
	}
	return nil
}

// ProductID validates a product id is non-empty and contains no whitespace.
func ProductID(id string) error {
	if id == "" {
		return fmt.Errorf("product id is required")
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return fmt.Errorf("product id %q must not contain whitespace", id)
	}
	return nil
}

// CurrencyCode validates a three letter currency code such as "USD".
func CurrencyCode(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("currency code %q must be 3 letters", code)
	}
	for _, r := range code {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return fmt.Errorf("currency code %q must be 3 letters", code)
		}
	}
	return nil
}

// Limit validates a recommendation limit.
func Limit(n int) error {
	if n < 1 || n > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	return nil
}
