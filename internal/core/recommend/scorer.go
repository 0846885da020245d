package recommend

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/history"
)

// DefaultLimit is the number of recommendations shown when none is requested.
const DefaultLimit = 8

// Score weights.
const (
	forYouTermWeight     = 5.0
	forYouCategoryWeight = 3.0
	forYouRatingWeight   = 0.5
	searchTermWeight     = 10.0
	viewedCategoryWeight = 5.0
)

// History is the interaction history the scorer reads.
type History interface {
	SearchHistory(ctx context.Context) []history.SearchEntry
	ViewedProducts(ctx context.Context) []history.ViewedEntry
}

// Scorer produces ranked product recommendations. Every scored strategy adds
// a random value in [0,1) to each score, so equal-scoring products are
// reshuffled between calls.
type Scorer struct {
	history History
	log     zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Scorer)

// WithRand sets the random source used for tie-breaking and shuffles.
func WithRand(rng *rand.Rand) Option {
	return func(s *Scorer) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed seeds the random source. A zero seed keeps the random default.
func WithSeed(seed uint64) Option {
	return func(s *Scorer) {
		if seed != 0 {
			s.rng = rand.New(rand.NewPCG(seed, seed))
		}
	}
}

func New(h History, log zerolog.Logger, opts ...Option) *Scorer {
	s := &Scorer{
		history: h,
		log:     log,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend returns at most limit products ranked by strategy. The result
// never contains the same product id twice. Unknown strategies are treated
// as ForYou.
func (s *Scorer) Recommend(ctx context.Context, products []catalog.Product, limit int, strategy Strategy) []catalog.Product {
	products = uniqueByID(products)
	if len(products) == 0 || limit <= 0 {
		return []catalog.Product{}
	}
	limit = min(limit, len(products))

	switch strategy {
	case ForYou:
	case Searches:
		return s.searches(ctx, products, limit)
	case Viewed:
		return s.viewed(ctx, products, limit)
	case Similar:
		return s.similar(ctx, products, limit)
	default:
		s.log.Warn().Str("strategy", string(strategy)).Msg("unknown strategy, using forYou")
	}

	return s.forYou(ctx, products, limit)
}

func (s *Scorer) forYou(ctx context.Context, products []catalog.Product, limit int) []catalog.Product {
	searches := s.history.SearchHistory(ctx)
	if len(searches) == 0 {
		return byRating(products)[:limit]
	}

	terms := searchTerms(searches)
	categories := searchCategories(searches)

	return s.rank(products, limit, func(p catalog.Product) float64 {
		score := forYouTermWeight * float64(countTerms(terms, p))
		if _, ok := categories[strings.ToLower(p.Category)]; ok {
			score += forYouCategoryWeight
		}
		return score + forYouRatingWeight*p.RatingOrZero()
	})
}

func (s *Scorer) searches(ctx context.Context, products []catalog.Product, limit int) []catalog.Product {
	searches := s.history.SearchHistory(ctx)
	if len(searches) == 0 {
		return s.shuffled(products)[:limit]
	}

	terms := searchTerms(searches)
	return s.rank(products, limit, func(p catalog.Product) float64 {
		return searchTermWeight * float64(countTerms(terms, p))
	})
}

func (s *Scorer) viewed(ctx context.Context, products []catalog.Product, limit int) []catalog.Product {
	views := s.history.ViewedProducts(ctx)
	if len(views) == 0 {
		return byRating(products)[:limit]
	}

	viewedIDs := make(map[string]struct{}, len(views))
	for _, v := range views {
		viewedIDs[v.ID] = struct{}{}
	}

	var seen, rest []catalog.Product
	for _, p := range products {
		if _, ok := viewedIDs[p.ID]; ok {
			seen = append(seen, p)
		} else {
			rest = append(rest, p)
		}
	}

	if len(seen) >= limit {
		return seen[:limit]
	}

	categories := make(map[string]struct{}, len(seen))
	for _, p := range seen {
		if p.Category != "" {
			categories[strings.ToLower(p.Category)] = struct{}{}
		}
	}

	supplement := s.rank(rest, limit-len(seen), func(p catalog.Product) float64 {
		if _, ok := categories[strings.ToLower(p.Category)]; ok {
			return viewedCategoryWeight
		}
		return 0
	})

	return append(seen, supplement...)
}

func (s *Scorer) similar(ctx context.Context, products []catalog.Product, limit int) []catalog.Product {
	anchor := s.anchorCategory(ctx, products)
	if anchor == "" {
		return s.shuffled(products)[:limit]
	}

	var same, rest []catalog.Product
	for _, p := range products {
		if p.Category != "" && strings.ToLower(p.Category) == anchor {
			same = append(same, p)
		} else {
			rest = append(rest, p)
		}
	}

	out := append(s.shuffled(same), s.shuffled(rest)...)
	return out[:limit]
}

// anchorCategory returns the lower-cased category of the most recently viewed
// product, else the category of the most recent search, else "".
func (s *Scorer) anchorCategory(ctx context.Context, products []catalog.Product) string {
	if views := s.history.ViewedProducts(ctx); len(views) > 0 {
		if p, ok := catalog.FindByID(products, views[0].ID); ok && p.Category != "" {
			return strings.ToLower(p.Category)
		}
	}

	if searches := s.history.SearchHistory(ctx); len(searches) > 0 {
		return strings.ToLower(searches[0].Category)
	}

	return ""
}

type scored struct {
	product catalog.Product
	score   float64
}

// rank scores every product, adds the random tie-breaker and returns the n
// highest.
func (s *Scorer) rank(products []catalog.Product, n int, score func(catalog.Product) float64) []catalog.Product {
	s.mu.Lock()
	items := make([]scored, len(products))
	for i, p := range products {
		items[i] = scored{product: p, score: score(p) + s.rng.Float64()}
	}
	s.mu.Unlock()

	slices.SortStableFunc(items, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	n = min(n, len(items))
	out := make([]catalog.Product, n)
	for i := range n {
		out[i] = items[i].product
	}
	return out
}

func (s *Scorer) shuffled(products []catalog.Product) []catalog.Product {
	out := slices.Clone(products)

	s.mu.Lock()
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	s.mu.Unlock()

	return out
}

// byRating sorts a copy of products by rating, highest first. Unrated
// products count as 0 and ties keep their input order.
func byRating(products []catalog.Product) []catalog.Product {
	out := slices.Clone(products)
	slices.SortStableFunc(out, func(a, b catalog.Product) int {
		ra, rb := a.RatingOrZero(), b.RatingOrZero()
		switch {
		case ra > rb:
			return -1
		case ra < rb:
			return 1
		default:
			return 0
		}
	})
	return out
}

func uniqueByID(products []catalog.Product) []catalog.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// searchTerms returns the distinct lower-cased, non-empty queries.
func searchTerms(entries []history.SearchEntry) []string {
	var terms []string
	for _, e := range entries {
		term := strings.ToLower(e.Query)
		if term == "" || slices.Contains(terms, term) {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// searchCategories returns the distinct lower-cased categories recorded on
// searches.
func searchCategories(entries []history.SearchEntry) map[string]struct{} {
	out := make(map[string]struct{})
	for _, e := range entries {
		if e.Category != "" {
			out[strings.ToLower(e.Category)] = struct{}{}
		}
	}
	return out
}

// countTerms counts the terms contained in the product's display name.
func countTerms(terms []string, p catalog.Product) int {
	name := strings.ToLower(p.DisplayName())

	n := 0
	for _, term := range terms {
		if strings.Contains(name, term) {
			n++
		}
	}
	return n
}
