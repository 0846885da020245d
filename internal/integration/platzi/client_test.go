package platzi

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/currency"
)

const samplePayload = `[
	{"id": 4, "title": "Handmade Fresh Table", "price": 687, "description": "Andy shoes", "images": ["https://i.imgur.com/a.jpeg", "https://i.imgur.com/b.jpeg"], "category": {"id": 1, "name": "Others"}},
	{"id": 9, "title": "Classic Tee", "price": "$12.50", "description": "cotton", "images": [], "category": null},
	{"id": 10, "title": "Freebie", "price": null}
]`

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, samplePayload)
	})

	c := New(Config{BaseURL: srv.URL + "/api/v1/"}, zerolog.Nop())
	got, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, catalog.RawProduct{
		ID:          "4",
		Title:       "Handmade Fresh Table",
		Description: "Andy shoes",
		PriceUSD:    687,
		Images:      []string{"https://i.imgur.com/a.jpeg", "https://i.imgur.com/b.jpeg"},
		Category:    "Others",
	}, got[0])

	assert.Equal(t, "9", got[1].ID)
	assert.Equal(t, 12.5, got[1].PriceUSD)
	assert.Empty(t, got[1].Category)
	assert.Zero(t, got[2].PriceUSD)
}

func TestClient_FetchStatusError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := New(Config{BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_FetchDecodeError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"not": "a list"}`)
	})

	_, err := New(Config{BaseURL: srv.URL}, zerolog.Nop()).Fetch(context.Background())
	require.Error(t, err)
}

func TestClient_BreakerOpensAfterThreshold(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	c := New(Config{BaseURL: srv.URL, FailureThreshold: 2}, zerolog.Nop())

	for range 2 {
		_, err := c.Fetch(context.Background())
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	_, err := c.Fetch(context.Background())
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load(), "open breaker does not reach the server")
}

func TestClient_CancelledContext(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "[]")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{BaseURL: srv.URL, RequestsPerSecond: 1}, zerolog.Nop()).Fetch(ctx)
	require.Error(t, err)
}

func TestSource_DecoratesProducts(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, samplePayload)
	})

	conv := currency.NewConverter(nil, zerolog.Nop())
	src := NewSource(
		New(Config{BaseURL: srv.URL}, zerolog.Nop()),
		catalog.NewDecorator(conv, rand.New(rand.NewPCG(1, 2))),
	)

	got, err := src.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Others", got[0].Category)
	assert.Equal(t, "https://i.imgur.com/a.jpeg", got[0].Image)
	assert.True(t, got[0].FreeShipping)
	assert.Equal(t, catalog.DefaultCategory, got[1].Category)
	assert.False(t, got[1].FreeShipping)
	for _, p := range got {
		assert.NotEmpty(t, p.Seller)
		assert.NotNil(t, p.Rating)
	}
}
