package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	products := []Product{
		{ID: "1", Title: "Organic Honey", Category: "Food"},
		{ID: "2", Title: "Honey Dipper", Category: "Kitchen"},
		{ID: "3", Title: "Canvas Tote", Category: "Clothes", Description: "carries honey jars"},
		{ID: "4", Name: "Wool Socks", Category: "Clothes"},
		{ID: "5", Title: "Desk Lamp", Category: "Electronics"},
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "empty query", query: Query{}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "exact category", query: Query{Category: "Clothes"}, want: []string{"3", "4"}},
		{name: "case insensitive", query: Query{Category: "clothes"}, want: []string{"3", "4"}},
		{name: "glob", query: Query{Category: "k*"}, want: []string{"2"}},
		{name: "alternation", query: Query{Category: "{food,electronics}"}, want: []string{"1", "5"}},
		{name: "text in title or description", query: Query{Text: "HONEY"}, want: []string{"1", "2", "3"}},
		{name: "text in name", query: Query{Text: "socks"}, want: []string{"4"}},
		{name: "text in category", query: Query{Text: "electro"}, want: []string{"5"}},
		{name: "combined", query: Query{Category: "clothes", Text: "honey"}, want: []string{"3"}},
		{name: "bad glob compares literally", query: Query{Category: "[food"}, want: []string{}},
		{name: "no match", query: Query{Text: "piano"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(products, tt.query)))
		})
	}
}

func TestCategories(t *testing.T) {
	products := []Product{
		{ID: "1", Category: "Food"},
		{ID: "2", Category: ""},
		{ID: "3", Category: "Home"},
		{ID: "4", Category: "Food"},
	}
	assert.Equal(t, []string{"Food", "Home"}, Categories(products))
	assert.Empty(t, Categories(nil))
}

func TestPaginate(t *testing.T) {
	products := make([]Product, 25)
	for i := range products {
		products[i].ID = string(rune('a' + i))
	}

	page, total := Paginate(products, 1, 12)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 12)

	page, _ = Paginate(products, 3, 12)
	assert.Len(t, page, 1)
	assert.Equal(t, "y", page[0].ID)

	page, _ = Paginate(products, 99, 12)
	assert.Len(t, page, 1, "clamped to last page")

	page, total = Paginate(nil, 1, 0)
	assert.Equal(t, 1, total)
	assert.Empty(t, page)
}
