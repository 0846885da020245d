// Package storefront ties the catalog, interaction history, recommendation
// scorer and currency utilities together for the CLI, TUI and HTTP API.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/currency"
	"github.com/hay-kot/neighborly/internal/core/history"
	"github.com/hay-kot/neighborly/internal/core/recommend"
	"github.com/hay-kot/neighborly/internal/core/validate"
)

// ErrProductNotFound is returned when a product id is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// Pricing groups the currency collaborators.
type Pricing struct {
	Converter *currency.Converter
	Formatter *currency.Formatter
	Resolver  currency.Resolver
}

// Service orchestrates storefront operations.
type Service struct {
	source  catalog.Source
	history *history.Store
	scorer  *recommend.Scorer
	pricing Pricing
	log     zerolog.Logger

	mu       sync.Mutex
	products []catalog.Product
}

// New creates a new Service.
func New(source catalog.Source, hist *history.Store, scorer *recommend.Scorer, pricing Pricing, log zerolog.Logger) *Service {
	return &Service{
		source:  source,
		history: hist,
		scorer:  scorer,
		pricing: pricing,
		log:     log,
	}
}

// History exposes the interaction history store.
func (s *Service) History() *history.Store {
	return s.history
}

// Products returns the catalog. The first successful fetch is kept for the
// lifetime of the service so decorated prices and ratings stay stable.
func (s *Service) Products(ctx context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.products != nil {
		return s.products, nil
	}

	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if products == nil {
		products = []catalog.Product{}
	}

	s.log.Debug().Int("count", len(products)).Msg("catalog loaded")
	s.products = products
	return products, nil
}

// Refresh drops the cached catalog and fetches it again.
func (s *Service) Refresh(ctx context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	s.products = nil
	s.mu.Unlock()

	return s.Products(ctx)
}

// Find returns the products matching q.
func (s *Service) Find(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Filter(products, q), nil
}

// Product looks up a product by id.
func (s *Service) Product(ctx context.Context, id string) (catalog.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return catalog.Product{}, err
	}

	p, ok := catalog.FindByID(products, id)
	if !ok {
		return catalog.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, nil
}

// Search records query in the search history and returns the products
// matching it within category.
func (s *Service) Search(ctx context.Context, query, category string) ([]catalog.Product, error) {
	if err := validate.SearchQuery(query); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	category = strings.TrimSpace(category)
	s.history.AddSearch(ctx, query, category)

	return s.Find(ctx, catalog.Query{Text: query, Category: category})
}

// View records a product view and returns the product.
func (s *Service) View(ctx context.Context, id string) (catalog.Product, error) {
	if err := validate.ProductID(id); err != nil {
		return catalog.Product{}, err
	}

	p, err := s.Product(ctx, id)
	if err != nil {
		return catalog.Product{}, err
	}

	s.history.AddViewed(ctx, p.ID)
	return p, nil
}

// Recommend returns up to limit recommended products.
func (s *Service) Recommend(ctx context.Context, strategy recommend.Strategy, limit int) ([]catalog.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return s.scorer.Recommend(ctx, products, limit, strategy), nil
}

// Pricing exposes the currency collaborators.
func (s *Service) Pricing() Pricing {
	return s.pricing
}

// UserCurrency returns the display currency for the current user.
func (s *Service) UserCurrency() string {
	return s.pricing.Resolver.UserCurrency()
}

// Locale returns the locale used for formatting.
func (s *Service) Locale() string {
	return s.pricing.Resolver.UserLocale()
}

// Convert converts amount between currencies.
func (s *Service) Convert(amount float64, from, to string) float64 {
	return s.pricing.Converter.Convert(amount, from, to)
}

// Format formats amount in code for the user's locale.
func (s *Service) Format(amount float64, code string) string {
	return s.pricing.Formatter.Format(amount, code, s.Locale())
}

// Price renders the product price in its listing currency, followed by the
// price in target when the two differ. An empty target uses the user's
// currency.
func (s *Service) Price(p catalog.Product, target string) string {
	if target == "" {
		target = s.UserCurrency()
	}

	listing := p.Currency
	if listing == "" {
		listing = currency.USD
	}

	return currency.DualPrice(s.pricing.Converter, s.pricing.Formatter, p.Price, listing, target, s.Locale())
}
