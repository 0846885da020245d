// Package recommend ranks catalog products for a user based on their search
// and viewing history.
package recommend

import (
	"fmt"
	"strings"
)

// Strategy selects how recommendations are ranked.
type Strategy string

const (
	// ForYou blends search term matches, searched categories and rating.
	ForYou Strategy = "forYou"
	// Searches ranks purely on search term matches.
	Searches Strategy = "searches"
	// Viewed puts recently viewed products first, padded with products from
	// the same categories.
	Viewed Strategy = "viewed"
	// Similar picks products sharing the category of the latest interaction.
	Similar Strategy = "similar"
)

// Strategies lists every strategy in display order.
var Strategies = []Strategy{ForYou, Searches, Viewed, Similar}

// ParseStrategy parses a strategy name case-insensitively. Dashes and
// underscores are ignored, so "for-you" and "FOR_YOU" both parse as ForYou.
func ParseStrategy(s string) (Strategy, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.TrimSpace(s)))
	for _, st := range Strategies {
		if strings.ToLower(string(st)) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q (expected one of %s)", s, strings.Join(Names(), ", "))
}

// Names returns the strategy names in display order.
func Names() []string {
	names := make([]string, len(Strategies))
	for i, st := range Strategies {
		names[i] = string(st)
	}
	return names
}

// Next returns the strategy after s, wrapping around.
func (s Strategy) Next() Strategy {
	for i, st := range Strategies {
		if st == s {
			return Strategies[(i+1)%len(Strategies)]
		}
	}
	return ForYou
}

// Label is a human readable name for s.
func (s Strategy) Label() string {
	switch s {
	case ForYou:
		return "For You"
	case Searches:
		return "From Your Searches"
	case Viewed:
		return "Recently Viewed"
	case Similar:
		return "Similar Items"
	default:
		return string(s)
	}
}
