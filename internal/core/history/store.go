package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hay-kot/neighborly/internal/core/kv"
)

// Store reads and writes the interaction logs. None of its methods return
// errors: storage failures are logged and the call degrades to an empty read
// or a write with no effect.
//
// Writes are read-modify-write against the backing kv.Store. Two writers
// racing on the same key can lose one update.
type Store struct {
	kv       kv.Store
	log      zerolog.Logger
	now      func() time.Time
	searches Log[SearchEntry]
	viewed   Log[ViewedEntry]
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMaxEntries overrides DefaultMaxEntries for both logs.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		s.searches = NewLog(n, searchIdentity)
		s.viewed = NewLog(n, viewedIdentity)
	}
}

// New creates a Store on top of store. A nil store behaves as kv.Unavailable.
func New(store kv.Store, log zerolog.Logger, opts ...Option) *Store {
	if store == nil {
		store = kv.Unavailable{}
	}

	s := &Store{
		kv:       store,
		log:      log,
		now:      time.Now,
		searches: NewLog(DefaultMaxEntries, searchIdentity),
		viewed:   NewLog(DefaultMaxEntries, viewedIdentity),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SearchHistory returns recorded searches, most recent first.
func (s *Store) SearchHistory(ctx context.Context) []SearchEntry {
	return s.searches.Trim(read[SearchEntry](ctx, s, SearchHistoryKey))
}

// AddSearch records query at the front of the search log. Blank queries are
// ignored. A previous entry with the same query (case-insensitive) and
// category is replaced.
func (s *Store) AddSearch(ctx context.Context, query, category string) {
	if strings.TrimSpace(query) == "" {
		return
	}

	entries := read[SearchEntry](ctx, s, SearchHistoryKey)
	entries = s.searches.Push(entries, SearchEntry{
		Query:     query,
		Timestamp: s.now().UnixMilli(),
		Category:  category,
	})

	write(ctx, s, SearchHistoryKey, entries)
}

// ClearSearchHistory removes the search log.
func (s *Store) ClearSearchHistory(ctx context.Context) {
	remove(ctx, s, SearchHistoryKey)
}

// ViewedProducts returns viewed product IDs, most recent first.
func (s *Store) ViewedProducts(ctx context.Context) []ViewedEntry {
	return s.viewed.Trim(read[ViewedEntry](ctx, s, ViewedProductsKey))
}

// AddViewed records productID at the front of the viewed log. Empty IDs are
// ignored.
func (s *Store) AddViewed(ctx context.Context, productID string) {
	if strings.TrimSpace(productID) == "" {
		return
	}

	entries := read[ViewedEntry](ctx, s, ViewedProductsKey)
	entries = s.viewed.Push(entries, ViewedEntry{
		ID:        productID,
		Timestamp: s.now().UnixMilli(),
	})

	write(ctx, s, ViewedProductsKey, entries)
}

// ClearViewedProducts removes the viewed log.
func (s *Store) ClearViewedProducts(ctx context.Context) {
	remove(ctx, s, ViewedProductsKey)
}

func read[T entry](ctx context.Context, s *Store, key string) []T {
	record, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logFailure(err, key, "read history")
		return []T{}
	}

	entries, err := decodeRecord[T](record.Value)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding corrupt history")
		return []T{}
	}

	return entries
}

func write[T any](ctx context.Context, s *Store, key string, entries []T) {
	data, err := json.Marshal(entries)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("encode history")
		return
	}

	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.logFailure(err, key, "write history")
	}
}

func remove(ctx context.Context, s *Store, key string) {
	if err := s.kv.Delete(ctx, key); err != nil {
		s.logFailure(err, key, "clear history")
	}
}

func (s *Store) logFailure(err error, key, msg string) {
	switch {
	case errors.Is(err, kv.ErrKeyNotFound):
		// absent record reads as empty
	case errors.Is(err, kv.ErrUnavailable):
		s.log.Debug().Str("key", key).Msg(msg + ": storage unavailable")
	default:
		s.log.Warn().Err(err).Str("key", key).Msg(msg)
	}
}
