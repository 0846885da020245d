// Package platzi fetches products from the Platzi Fake Store API
// (https://fakeapi.platzi.com), the upstream catalog of the demo storefront.
package platzi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/metrics"
)

const (
	DefaultURL     = "https://api.escuelajs.co/api/v1"
	DefaultTimeout = 10 * time.Second

	breakerName = "platzi"
	sourceLabel = "platzi"
)

// Config configures the client. Zero values use defaults.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables rate limiting
	FailureThreshold  uint32  // consecutive failures before the breaker opens
	HTTPClient        *http.Client
}

// Client fetches raw products. Calls are rate limited and guarded by a
// circuit breaker that opens after FailureThreshold consecutive failures.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]catalog.RawProduct]
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    cfg.HTTPClient,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}

	threshold := cfg.FailureThreshold
	c.cb = gobreaker.NewCircuitBreaker[[]catalog.RawProduct](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return c
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// State reports the circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}

// Fetch returns the upstream product list.
func (c *Client) Fetch(ctx context.Context) ([]catalog.RawProduct, error) {
	started := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	products, err := c.cb.Execute(func() ([]catalog.RawProduct, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		outcome := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
		}
		metrics.ObserveCatalogFetch(sourceLabel, outcome, started)
		return nil, err
	}

	metrics.ObserveCatalogFetch(sourceLabel, "success", started)
	c.log.Debug().Int("count", len(products)).Dur("took", time.Since(started)).Msg("fetched products")
	return products, nil
}

func (c *Client) fetch(ctx context.Context) ([]catalog.RawProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch products: unexpected status %s", resp.Status)
	}

	var payload []product
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	out := make([]catalog.RawProduct, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.raw())
	}
	return out, nil
}

type product struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       price       `json:"price"`
	Images      []string    `json:"images"`
	Category    *struct {
		Name string `json:"name"`
	} `json:"category"`
}

func (p product) raw() catalog.RawProduct {
	var category string
	if p.Category != nil {
		category = p.Category.Name
	}

	return catalog.RawProduct{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		PriceUSD:    float64(p.Price),
		Images:      p.Images,
		Category:    category,
	}
}

// price decodes numbers as well as strings such as "$12.50".
type price float64

func (p *price) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*p = 0
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, str)
		if s == "" {
			*p = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", string(data), err)
	}
	*p = price(f)
	return nil
}

// Source adapts the client to catalog.Source, decorating every fetched
// product with marketplace data.
type Source struct {
	client    *Client
	decorator *catalog.Decorator
}

func NewSource(client *Client, decorator *catalog.Decorator) *Source {
	return &Source{client: client, decorator: decorator}
}

func (s *Source) Products(ctx context.Context) ([]catalog.Product, error) {
	raws, err := s.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return s.decorator.DecorateAll(raws), nil
}
