package storefront

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/config"
	"github.com/hay-kot/neighborly/internal/core/currency"
	"github.com/hay-kot/neighborly/internal/core/history"
	"github.com/hay-kot/neighborly/internal/core/kv"
	"github.com/hay-kot/neighborly/internal/core/recommend"
	"github.com/hay-kot/neighborly/internal/integration/platzi"
	"github.com/hay-kot/neighborly/internal/store/badgerkv"
	"github.com/hay-kot/neighborly/internal/store/jsonfile"
	"github.com/hay-kot/neighborly/internal/store/sqlite"
)

// OpenStore opens the key-value backend selected by cfg. The returned closer
// is never nil.
func OpenStore(cfg *config.Config) (kv.Store, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendJSONFile:
		return jsonfile.New(cfg.StoragePath()), nopCloser{}, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.StoragePath())
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendBadger:
		s, err := badgerkv.Open(cfg.StoragePath())
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendMemory:
		return kv.NewMemory(), nopCloser{}, nil
	case config.BackendNone:
		return kv.Unavailable{}, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSource builds the catalog source selected by cfg.
func NewSource(cfg *config.Config, conv *currency.Converter, log zerolog.Logger) catalog.Source {
	if cfg.Catalog.Source == config.SourceFile {
		return catalog.NewFileSource(cfg.CatalogFile())
	}

	client := platzi.New(platzi.Config{
		BaseURL:           cfg.Catalog.URL,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		FailureThreshold:  cfg.Catalog.FailureThreshold,
	}, log.With().Str("component", "platzi").Logger())

	return platzi.NewSource(client, catalog.NewDecorator(conv, nil))
}

// NewPricing builds the currency collaborators from cfg.
func NewPricing(cfg *config.Config, log zerolog.Logger) Pricing {
	return Pricing{
		Converter: currency.NewConverter(nil, log.With().Str("component", "currency").Logger()),
		Formatter: currency.NewFormatter(cfg.Currency.IsLocalized()),
		Resolver: currency.Resolver{
			Mode:   currency.Mode(cfg.Currency.Mode),
			Fixed:  cfg.Currency.Fixed,
			Locale: cfg.Currency.Locale,
			Getenv: os.Getenv,
		},
	}
}

// Build assembles a Service on top of an already opened store.
func Build(cfg *config.Config, store kv.Store, log zerolog.Logger) *Service {
	pricing := NewPricing(cfg, log)

	hist := history.New(store, log.With().Str("component", "history").Logger(),
		history.WithMaxEntries(cfg.History.MaxEntries))

	scorer := recommend.New(hist, log.With().Str("component", "recommend").Logger(),
		recommend.WithSeed(cfg.Recommend.Seed))

	source := NewSource(cfg, pricing.Converter, log)

	return New(source, hist, scorer, pricing, log.With().Str("component", "storefront").Logger())
}

// Open opens the configured store and assembles a Service on it. Close
// releases the storage backend.
func Open(cfg *config.Config, log zerolog.Logger) (*Service, io.Closer, error) {
	store, closer, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	return Build(cfg, store, log), closer, nil
}
