package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/currency"
)

// CatalogCheck fetches the catalog and checks every listing currency can be
// converted to the user's display currency.
type CatalogCheck struct {
	source   catalog.Source
	conv     *currency.Converter
	target   string
	timeout  time.Duration
	describe string
}

// NewCatalogCheck creates a new catalog check. describe names the source in
// the output, e.g. "platzi" or a file path.
func NewCatalogCheck(source catalog.Source, conv *currency.Converter, target, describe string, timeout time.Duration) *CatalogCheck {
	return &CatalogCheck{
		source:   source,
		conv:     conv,
		target:   target,
		timeout:  timeout,
		describe: describe,
	}
}

func (c *CatalogCheck) Name() string {
	return "Catalog"
}

func (c *CatalogCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	products, err := c.source.Products(ctx)
	if err != nil {
		result.fail("Fetch "+c.describe, err.Error())
		return result
	}

	detail := fmt.Sprintf("%d products in %d categories", len(products), len(catalog.Categories(products)))
	if len(products) == 0 {
		result.warn("Fetch "+c.describe, detail)
	} else {
		result.pass("Fetch "+c.describe, detail)
	}

	seen := map[string]bool{}
	for _, p := range products {
		code := currency.Normalize(p.Currency)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		if !c.conv.CanConvert(code, c.target) {
			result.warn("Currency "+code, fmt.Sprintf("no rate to %s; prices shown unconverted", c.target))
		}
	}

	return result
}
