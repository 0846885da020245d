package catalog

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/hay-kot/neighborly/internal/core/currency"
)

// Sellers are assigned to raw products at random.
var Sellers = []string{
	"GreenLeaf Market",
	"EcoGoods",
	"Urban Artisan",
	"Crafted Co.",
	"Nature's Best",
	"Local Roots",
	"Handmade Hub",
	"Purely Eco",
	"Sunrise Sellers",
	"Sustainable Finds",
}

// ListingCurrencies are the currencies raw products may be listed in.
var ListingCurrencies = []string{currency.USD, currency.IDR, currency.EUR, currency.GBP}

// DefaultCategory is used for raw products without a category.
const DefaultCategory = "Other"

// freeShippingThreshold is the USD base price above which shipping is free.
const freeShippingThreshold = 20

// RawProduct is a product as served by an upstream catalog, priced in USD.
type RawProduct struct {
	ID          string
	Title       string
	Description string
	PriceUSD    float64
	Images      []string
	Category    string
}

// Decorator turns raw upstream products into storefront listings by
// assigning a seller, a listing currency and marketplace statistics.
type Decorator struct {
	conv *currency.Converter

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDecorator creates a Decorator. A nil rng uses a randomly seeded source.
func NewDecorator(conv *currency.Converter, rng *rand.Rand) *Decorator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Decorator{conv: conv, rng: rng}
}

// Decorate converts a single raw product.
func (d *Decorator) Decorate(raw RawProduct) Product {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.decorate(raw)
}

// DecorateAll converts every raw product, preserving order.
func (d *Decorator) DecorateAll(raws []RawProduct) []Product {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Product, 0, len(raws))
	for _, raw := range raws {
		out = append(out, d.decorate(raw))
	}
	return out
}

func (d *Decorator) decorate(raw RawProduct) Product {
	code := ListingCurrencies[d.rng.IntN(len(ListingCurrencies))]

	price := raw.PriceUSD
	if code != currency.USD {
		price = math.Round(d.conv.Convert(raw.PriceUSD, currency.USD, code)*100) / 100
	}

	category := raw.Category
	if category == "" {
		category = DefaultCategory
	}

	var image string
	if len(raw.Images) > 0 {
		image = raw.Images[0]
	}

	rating := math.Round((d.rng.Float64()*2+3)*10) / 10

	return Product{
		ID:           raw.ID,
		Title:        raw.Title,
		Description:  raw.Description,
		Image:        image,
		Price:        price,
		Currency:     code,
		Category:     category,
		Seller:       Sellers[d.rng.IntN(len(Sellers))],
		Rating:       &rating,
		ReviewCount:  d.rng.IntN(500) + 10,
		FreeShipping: raw.PriceUSD > freeShippingThreshold,
		Sold:         d.rng.IntN(1951) + 50,
		Stock:        d.rng.IntN(91) + 10,
	}
}
