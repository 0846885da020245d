// Package history records search queries and viewed products as bounded,
// most-recent-first logs persisted through a kv.Store.
package history

import (
	"strings"
	"time"
)

// Storage keys for the two logs.
const (
	SearchHistoryKey  = "neighborly_search_history"
	ViewedProductsKey = "neighborly_viewed_products"
)

// KeyPrefix is shared by every key this package writes.
const KeyPrefix = "neighborly_"

// DefaultMaxEntries is the capacity of each log.
const DefaultMaxEntries = 10

// SearchEntry is a submitted search query. An empty Category means the search
// was not scoped to a category.
type SearchEntry struct {
	Query     string `json:"query"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Category  string `json:"category,omitempty"`
}

// Time returns the entry timestamp.
func (e SearchEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// searchIdentity matches queries case-insensitively within the same category.
func searchIdentity(e SearchEntry) string {
	return strings.ToLower(e.Query) + "\x00" + e.Category
}

// ViewedEntry is a product the user opened.
type ViewedEntry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Time returns the entry timestamp.
func (e ViewedEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

func viewedIdentity(e ViewedEntry) string {
	return e.ID
}

// Log applies the insertion rule shared by both histories: an entry whose
// identity matches the new one is dropped, the new entry goes to the front,
// and the result is cut to the maximum length.
type Log[T any] struct {
	max      int
	identity func(T) string
}

// NewLog creates a Log holding at most max entries. max below 1 is treated as 1.
func NewLog[T any](max int, identity func(T) string) Log[T] {
	if max < 1 {
		max = 1
	}
	return Log[T]{max: max, identity: identity}
}

// Max returns the capacity of the log.
func (l Log[T]) Max() int {
	return l.max
}

// Push returns a new slice with entry at index 0. The input is not modified.
func (l Log[T]) Push(entries []T, entry T) []T {
	key := l.identity(entry)

	out := make([]T, 0, min(len(entries)+1, l.max))
	out = append(out, entry)

	for _, existing := range entries {
		if len(out) == l.max {
			break
		}
		if l.identity(existing) == key {
			continue
		}
		out = append(out, existing)
	}

	return out
}

// Trim cuts entries to the capacity of the log.
func (l Log[T]) Trim(entries []T) []T {
	if len(entries) > l.max {
		return entries[:l.max]
	}
	return entries
}
