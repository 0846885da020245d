package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/validate"
	"github.com/hay-kot/neighborly/internal/printer"
	"github.com/urfave/cli/v3"
)

type ProductsCmd struct {
	flags *Flags

	// Command-specific flags
	category string
	query    string
	currency string
	page     int
	all      bool
}

// NewProductsCmd creates a new products command
func NewProductsCmd(flags *Flags) *ProductsCmd {
	return &ProductsCmd{flags: flags}
}

// Register adds the products command to the application
func (cmd *ProductsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "products",
		Aliases:   []string{"ls"},
		Usage:     "List catalog products",
		UsageText: "neighborly products [options]",
		Description: `Lists products from the configured catalog, one page at a time.

--category accepts a glob such as "cloth*". --query filters on title,
description and category without recording a search; use 'neighborly search'
to record one.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "category",
				Usage:       "category glob to filter by",
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "query",
				Aliases:     []string{"q"},
				Usage:       "text to filter by",
				Destination: &cmd.query,
			},
			&cli.StringFlag{
				Name:        "currency",
				Usage:       "currency to show converted prices in (defaults to your currency)",
				Destination: &cmd.currency,
			},
			&cli.IntFlag{
				Name:        "page",
				Usage:       "page to show",
				Value:       1,
				Destination: &cmd.page,
			},
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "show every product instead of a single page",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ProductsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.currency != "" {
		if err := validate.CurrencyCode(cmd.currency); err != nil {
			return err
		}
	}

	products, err := cmd.flags.Service.Find(ctx, catalog.Query{Category: cmd.category, Text: cmd.query})
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	if len(products) == 0 {
		p.Infof("No products found")
		return nil
	}

	total := len(products)
	pages := 1
	if !cmd.all {
		products, pages = catalog.Paginate(products, cmd.page, catalog.DefaultPageSize)
	}

	if err := writeProducts(c.Root().Writer, cmd.flags.Service, products, cmd.currency); err != nil {
		return err
	}

	if pages > 1 {
		page := min(max(cmd.page, 1), pages)
		p.Printf("")
		p.Printf("%s", p.Muted(fmt.Sprintf("Page %d of %d (%d products)", page, pages, total)))
	}

	return nil
}
