package catalog

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPageSize is the number of products shown per page.
const DefaultPageSize = 12

// Query narrows a product list. Zero fields match everything.
type Query struct {
	// Category is a case-insensitive glob such as "cloth*" or "{shoes,electronics}".
	Category string
	// Text is matched case-insensitively against title, name, description and category.
	Text string
}

// Filter returns the products matching q in their original order.
func Filter(products []Product, q Query) []Product {
	pattern := strings.ToLower(strings.TrimSpace(q.Category))
	text := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if pattern != "" && !matchCategory(pattern, p.Category) {
			continue
		}
		if text != "" && !matchText(text, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchCategory(pattern, category string) bool {
	category = strings.ToLower(category)

	ok, err := doublestar.Match(pattern, category)
	if err != nil {
		// not a valid glob, compare literally
		return pattern == category
	}
	return ok
}

func matchText(text string, p Product) bool {
	for _, field := range []string{p.Title, p.Name, p.Description, p.Category} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

// Categories returns the distinct non-empty categories in first-seen order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Paginate returns the 1-based page of products and the total page count,
// which is never less than 1. Out of range pages are clamped.
func Paginate(products []Product, page, size int) ([]Product, int) {
	if size < 1 {
		size = DefaultPageSize
	}

	pages := max((len(products)+size-1)/size, 1)
	page = min(max(page, 1), pages)

	start := (page - 1) * size
	end := min(start+size, len(products))
	return products[start:end], pages
}
