package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/config"
	"github.com/hay-kot/neighborly/internal/core/kv"
	"github.com/hay-kot/neighborly/internal/printer"
	"github.com/hay-kot/neighborly/internal/storefront"
)

func rating(v float64) *float64 { return &v }

func testCatalog() []catalog.Product {
	return []catalog.Product{
		{ID: "1", Title: "Raw Honey", Category: "Food", Price: 12.5, Currency: "USD", Rating: rating(4.5), Stock: 3},
		{ID: "2", Title: "Bamboo Tote", Category: "Home", Price: 20, Currency: "USD", Rating: rating(4.0), Stock: 7},
		{ID: "3", Title: "Honey Dipper", Category: "Home", Price: 4, Currency: "USD"},
	}
}

// newTestFlags wires a service over a catalog file and an in-memory history.
func newTestFlags(t *testing.T) *Flags {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Storage.Backend = config.BackendMemory
	cfg.Catalog.Source = config.SourceFile
	cfg.Catalog.File = filepath.Join(cfg.DataDir, "products.json")
	cfg.Currency.Mode = config.CurrencyModeFixed
	cfg.Currency.Fixed = "USD"

	data, err := json.Marshal(testCatalog())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg.Catalog.File, data, 0o644))

	store := kv.NewMemory()
	return &Flags{
		Config:  &cfg,
		Store:   store,
		Service: storefront.Build(&cfg, store, zerolog.Nop()),
	}
}

// runApp registers one command on a fresh root command and runs args
// against it, returning everything written to the root writer and printer.
func runApp(t *testing.T, register func(*cli.Command) *cli.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.Command{
		Name:      "neighborly",
		Writer:    &out,
		ErrWriter: &out,
	}
	register(app)

	ctx := printer.NewContext(context.Background(), printer.New(&out))
	err := app.Run(ctx, append([]string{"neighborly"}, args...))
	return out.String(), err
}
