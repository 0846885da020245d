package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/storefront"
)

// writeProducts prints products as an aligned table. Prices are rendered in
// their listing currency followed by target when the two differ.
func writeProducts(out io.Writer, svc *storefront.Service, products []catalog.Product, target string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tRATING")

	for _, p := range products {
		rating := "-"
		if p.Rating != nil {
			rating = fmt.Sprintf("%.1f", *p.Rating)
		}

		category := p.Category
		if category == "" {
			category = "-"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			truncateName(p.DisplayName(), 40),
			category,
			svc.Price(p, target),
			rating,
		)
	}

	return w.Flush()
}

func truncateName(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
