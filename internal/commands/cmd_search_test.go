package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_RecordsHistory(t *testing.T) {
	flags := newTestFlags(t)
	ctx := context.Background()

	out, err := runApp(t, NewSearchCmd(flags).Register, "search", "--category", "Home", "honey")
	require.NoError(t, err)

	assert.Contains(t, out, "Honey Dipper")
	assert.NotContains(t, out, "Raw Honey", "outside the category")
	assert.NotContains(t, out, "Bamboo Tote")

	searches := flags.Service.History().SearchHistory(ctx)
	require.Len(t, searches, 1)
	assert.Equal(t, "honey", searches[0].Query)
	assert.Equal(t, "Home", searches[0].Category)
}

func TestSearchCmd_NoMatchesStillRecorded(t *testing.T) {
	flags := newTestFlags(t)

	out, err := runApp(t, NewSearchCmd(flags).Register, "search", "saffron", "threads")
	require.NoError(t, err)
	assert.Contains(t, out, `No products match "saffron threads"`)

	searches := flags.Service.History().SearchHistory(context.Background())
	require.Len(t, searches, 1)
	assert.Equal(t, "saffron threads", searches[0].Query)
}

func TestSearchCmd_InvalidCurrency(t *testing.T) {
	flags := newTestFlags(t)

	_, err := runApp(t, NewSearchCmd(flags).Register, "search", "--currency", "dollars", "honey")
	require.Error(t, err)

	assert.Empty(t, flags.Service.History().SearchHistory(context.Background()), "rejected before recording")
}
