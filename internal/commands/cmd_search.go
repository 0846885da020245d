package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/validate"
	"github.com/hay-kot/neighborly/internal/printer"
	"github.com/hay-kot/neighborly/internal/styles"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type SearchCmd struct {
	flags *Flags

	// Command-specific flags
	category string
	currency string
}

// NewSearchCmd creates a new search command
func NewSearchCmd(flags *Flags) *SearchCmd {
	return &SearchCmd{flags: flags}
}

// Register adds the search command to the application
func (cmd *SearchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "search",
		Usage:     "Search products and record the query in your history",
		UsageText: "neighborly search [options] [QUERY]",
		Description: `Searches the catalog and records the query in your search history, which
feeds the "for you" and "searches" recommendations.

When QUERY is omitted on an interactive terminal, a form prompts for the
query and category.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "category",
				Usage:       "category to search within",
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "currency",
				Usage:       "currency to show converted prices in",
				Destination: &cmd.currency,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SearchCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.currency != "" {
		if err := validate.CurrencyCode(cmd.currency); err != nil {
			return err
		}
	}

	query := strings.Join(c.Args().Slice(), " ")
	category := cmd.category

	if strings.TrimSpace(query) == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("query is required when stdin is not a terminal")
		}

		var err error
		query, category, err = cmd.prompt(ctx, category)
		if err != nil {
			return err
		}
	}

	products, err := cmd.flags.Service.Search(ctx, query, category)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(products) == 0 {
		p.Infof("No products match %q", strings.TrimSpace(query))
		return nil
	}

	return writeProducts(c.Root().Writer, cmd.flags.Service, products, cmd.currency)
}

// prompt asks for the query and category interactively.
func (cmd *SearchCmd) prompt(ctx context.Context, category string) (string, string, error) {
	products, err := cmd.flags.Service.Products(ctx)
	if err != nil {
		return "", "", fmt.Errorf("load categories: %w", err)
	}

	options := []huh.Option[string]{huh.NewOption("Any", "")}
	for _, name := range catalog.Categories(products) {
		options = append(options, huh.NewOption(name, name))
	}

	var query string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search").
				Placeholder("bamboo, honey, tote...").
				Validate(validate.SearchQuery).
				Value(&query),
			huh.NewSelect[string]().
				Title("Category").
				Options(options...).
				Value(&category),
		),
	).WithTheme(styles.FormTheme())

	if err := form.RunWithContext(ctx); err != nil {
		return "", "", err
	}

	return query, category, nil
}
