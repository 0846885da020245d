package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/currency"
	"github.com/hay-kot/neighborly/internal/core/history"
	"github.com/hay-kot/neighborly/internal/core/recommend"
	"github.com/hay-kot/neighborly/internal/core/validate"
	"github.com/hay-kot/neighborly/internal/metrics"
	"github.com/hay-kot/neighborly/internal/storefront"
)

// pricedProduct is a product with its price rendered for the requester.
type pricedProduct struct {
	catalog.Product
	DisplayPrice string `json:"displayPrice"`
}

type productsResponse struct {
	Products []pricedProduct `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page,omitempty"`
	Pages    int             `json:"pages,omitempty"`
}

type recommendationsResponse struct {
	Strategy recommend.Strategy `json:"strategy"`
	Label    string             `json:"label"`
	Products []pricedProduct    `json:"products"`
}

type searchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

type viewedRequest struct {
	ID string `json:"id"`
}

type convertResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Formatted string  `json:"formatted"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) priced(products []catalog.Product, target string) []pricedProduct {
	out := make([]pricedProduct, len(products))
	for i, p := range products {
		out[i] = pricedProduct{Product: p, DisplayPrice: s.svc.Price(p, target)}
	}
	return out
}

// targetCurrency reads and validates the optional currency query parameter.
func targetCurrency(r *http.Request) (string, error) {
	code := r.URL.Query().Get("currency")
	if code == "" {
		return "", nil
	}
	if err := validate.CurrencyCode(code); err != nil {
		return "", err
	}
	return currency.Normalize(code), nil
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	target, err := targetCurrency(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	products, err := s.svc.Find(r.Context(), catalog.Query{
		Category: q.Get("category"),
		Text:     q.Get("q"),
	})
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err)
		return
	}

	resp := productsResponse{Total: len(products)}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			s.respondError(w, http.StatusBadRequest, fmt.Errorf("page must be a positive integer"))
			return
		}
		products, resp.Pages = catalog.Paginate(products, page, catalog.DefaultPageSize)
		resp.Page = min(page, resp.Pages)
	}

	resp.Products = s.priced(products, target)
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.ProductID(id); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	target, err := targetCurrency(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := s.svc.Product(r.Context(), id)
	if err != nil {
		s.respondError(w, lookupStatus(err), err)
		return
	}

	s.respondJSON(w, http.StatusOK, pricedProduct{Product: p, DisplayPrice: s.svc.Price(p, target)})
}

func lookupStatus(err error) int {
	if errors.Is(err, storefront.ErrProductNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	strategy := s.strategy
	if raw := q.Get("strategy"); raw != "" {
		var err error
		if strategy, err = recommend.ParseStrategy(raw); err != nil {
			s.respondError(w, http.StatusBadRequest, err)
			return
		}
	}

	limit := s.limit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Errorf("limit must be an integer"))
			return
		}
		limit = n
	}
	if err := validate.Limit(limit); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	target, err := targetCurrency(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	products, err := s.svc.Recommend(r.Context(), strategy, limit)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err)
		return
	}

	metrics.Recommendations.WithLabelValues(string(strategy)).Inc()

	s.respondJSON(w, http.StatusOK, recommendationsResponse{
		Strategy: strategy,
		Label:    strategy.Label(),
		Products: s.priced(products, target),
	})
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("amount must be a number"))
		return
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("amount must be a finite number"))
		return
	}

	from, to := q.Get("from"), q.Get("to")
	for _, code := range []string{from, to} {
		if err := validate.CurrencyCode(code); err != nil {
			s.respondError(w, http.StatusBadRequest, err)
			return
		}
	}

	locale := q.Get("locale")
	if locale == "" {
		locale = s.svc.Locale()
	}

	pricing := s.svc.Pricing()
	converted := pricing.Converter.Convert(amount, from, to)

	s.respondJSON(w, http.StatusOK, convertResponse{
		Amount:    amount,
		From:      currency.Normalize(from),
		To:        currency.Normalize(to),
		Converted: converted,
		Formatted: pricing.Formatter.Format(converted, to, locale),
	})
}

func (s *Server) listSearches(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, nonNil(s.svc.History().SearchHistory(r.Context())))
}

func (s *Server) addSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	if err := validate.SearchQuery(req.Query); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	hist := s.svc.History()
	hist.AddSearch(r.Context(), strings.TrimSpace(req.Query), strings.TrimSpace(req.Category))
	metrics.HistoryWrites.WithLabelValues("searches", "add").Inc()

	s.respondJSON(w, http.StatusCreated, nonNil(hist.SearchHistory(r.Context())))
}

func (s *Server) clearSearches(w http.ResponseWriter, r *http.Request) {
	s.svc.History().ClearSearchHistory(r.Context())
	metrics.HistoryWrites.WithLabelValues("searches", "clear").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listViewed(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, nonNil(s.svc.History().ViewedProducts(r.Context())))
}

func (s *Server) addViewed(w http.ResponseWriter, r *http.Request) {
	var req viewedRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	if err := validate.ProductID(req.ID); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	if _, err := s.svc.View(r.Context(), req.ID); err != nil {
		s.respondError(w, lookupStatus(err), err)
		return
	}
	metrics.HistoryWrites.WithLabelValues("viewed", "add").Inc()

	s.respondJSON(w, http.StatusCreated, nonNil(s.svc.History().ViewedProducts(r.Context())))
}

func (s *Server) clearViewed(w http.ResponseWriter, r *http.Request) {
	s.svc.History().ClearViewedProducts(r.Context())
	metrics.HistoryWrites.WithLabelValues("viewed", "clear").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// nonNil keeps empty logs encoding as [] rather than null.
func nonNil[T history.SearchEntry | history.ViewedEntry](entries []T) []T {
	if entries == nil {
		return []T{}
	}
	return entries
}
