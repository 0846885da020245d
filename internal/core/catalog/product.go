// Package catalog defines the product model consumed by the recommendation
// and pricing code, along with the sources that produce products.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Product is a catalog item. Only ID, Title/Name, Category, Rating, Price and
// Currency are read by the scorer; the rest is display data.
type Product struct {
	ID           string   `json:"id"`
	Title        string   `json:"title,omitempty"`
	Name         string   `json:"name,omitempty"`
	Image        string   `json:"image,omitempty"`
	Description  string   `json:"description,omitempty"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency,omitempty"`
	Category     string   `json:"category,omitempty"`
	Seller       string   `json:"seller,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewCount  int      `json:"reviewCount,omitempty"`
	FreeShipping bool     `json:"freeShipping,omitempty"`
	Sold         int      `json:"sold,omitempty"`
	Stock        int      `json:"stock,omitempty"`
}

// DisplayName returns the title, falling back to the name.
func (p Product) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// RatingOrZero returns the rating, or 0 when the product is unrated.
func (p Product) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// UnmarshalJSON accepts both numeric and string ids.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// decodeID converts a JSON number or string into an id string.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode product id: %w", err)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode product id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// Rating returns a pointer to r, for building products in code.
func Rating(r float64) *float64 {
	return &r
}

// Source produces the current product list.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
}

// Static is a fixed in-memory product list.
type Static []Product

func (s Static) Products(context.Context) ([]Product, error) {
	return s, nil
}

// FindByID returns the first product with the given id.
func FindByID(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
