package storefront

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/config"
	"github.com/hay-kot/neighborly/internal/core/kv"
	"github.com/hay-kot/neighborly/internal/integration/platzi"
)

func TestOpenStore(t *testing.T) {
	backends := []string{
		config.BackendJSONFile,
		config.BackendSQLite,
		config.BackendBadger,
		config.BackendMemory,
	}

	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.DataDir = t.TempDir()
			cfg.Storage.Backend = backend

			store, closer, err := OpenStore(&cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })

			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "neighborly_k", "v"))
			entry, err := store.Get(ctx, "neighborly_k")
			require.NoError(t, err)
			assert.Equal(t, "v", entry.Value)
		})
	}
}

func TestOpenStore_None(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendNone

	store, closer, err := OpenStore(&cfg)
	require.NoError(t, err)
	require.NotNil(t, closer)

	assert.ErrorIs(t, store.Set(context.Background(), "k", "v"), kv.ErrUnavailable)
}

func TestOpenStore_Unknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = "postgres"

	_, _, err := OpenStore(&cfg)
	require.Error(t, err)
}

func TestNewSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = "/data"
	pricing := NewPricing(&cfg, zerolog.Nop())

	assert.IsType(t, &platzi.Source{}, NewSource(&cfg, pricing.Converter, zerolog.Nop()))

	cfg.Catalog.Source = config.SourceFile
	cfg.Catalog.File = "products.json"
	src := NewSource(&cfg, pricing.Converter, zerolog.Nop())
	require.IsType(t, &catalog.FileSource{}, src)
	assert.Equal(t, "/data/products.json", src.(*catalog.FileSource).Path())
}

func TestOpen_PersistsAcrossServices(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Storage.Backend = config.BackendSQLite

	ctx := context.Background()

	svc, closer, err := Open(&cfg, zerolog.Nop())
	require.NoError(t, err)
	svc.History().AddSearch(ctx, "honey", "")
	require.NoError(t, closer.Close())

	svc, closer, err = Open(&cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	entries := svc.History().SearchHistory(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "honey", entries[0].Query)
}
