package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_Products(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	data := `[
		{"id": 1, "title": "Organic Honey", "price": 12.5, "currency": "USD", "category": "Food"},
		{"id": "2", "title": "Linen Towel", "price": 150000, "currency": "IDR", "category": "Home"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	src := NewFileSource(path)
	got, err := src.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "Organic Honey", got[0].Title)
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, "IDR", got[1].Currency)
	assert.Equal(t, path, src.Path())
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "missing.json")).Products(context.Background())
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = NewFileSource(bad).Products(context.Background())
	require.Error(t, err)
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource("unused").Products(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
