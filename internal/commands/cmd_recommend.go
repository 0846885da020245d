package commands

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/recommend"
	"github.com/hay-kot/neighborly/internal/core/validate"
	"github.com/hay-kot/neighborly/internal/printer"
	"github.com/urfave/cli/v3"
)

type RecommendCmd struct {
	flags *Flags

	// Command-specific flags
	strategy string
	limit    int
	currency string
	asJSON   bool
}

// NewRecommendCmd creates a new recommend command
func NewRecommendCmd(flags *Flags) *RecommendCmd {
	return &RecommendCmd{flags: flags}
}

// Register adds the recommend command to the application
func (cmd *RecommendCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "recommend",
		Usage:     "Recommend products based on your history",
		UsageText: "neighborly recommend [options]",
		Description: `Recommends products using one of four strategies:

  forYou    matches your recent search terms and categories
  searches  ranks products by how often your search terms appear
  viewed    your recently viewed products, then products in the same categories
  similar   products in the category you looked at most recently

Without history every strategy falls back to the best rated or a random pick.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "strategy",
				Aliases:     []string{"s"},
				Usage:       "recommendation strategy (forYou, searches, viewed, similar)",
				Destination: &cmd.strategy,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of products",
				Destination: &cmd.limit,
			},
			&cli.StringFlag{
				Name:        "currency",
				Usage:       "currency to show converted prices in",
				Destination: &cmd.currency,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output products as JSON",
				Destination: &cmd.asJSON,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RecommendCmd) run(ctx context.Context, c *cli.Command) error {
	strategyName := cmd.strategy
	if cfg := cmd.flags.Config; cfg != nil && strategyName == "" {
		strategyName = cfg.Recommend.DefaultStrategy
	}

	// An explicit --limit is validated as given, including 0.
	limit := cmd.limit
	if !c.IsSet("limit") {
		limit = recommend.DefaultLimit
		if cfg := cmd.flags.Config; cfg != nil && cfg.Recommend.DefaultLimit > 0 {
			limit = cfg.Recommend.DefaultLimit
		}
	}

	strategy := recommend.ForYou
	if strategyName != "" {
		var err error
		if strategy, err = recommend.ParseStrategy(strategyName); err != nil {
			return err
		}
	}

	if err := validate.Limit(limit); err != nil {
		return err
	}
	if cmd.currency != "" {
		if err := validate.CurrencyCode(cmd.currency); err != nil {
			return err
		}
	}

	products, err := cmd.flags.Service.Recommend(ctx, strategy, limit)
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if cmd.asJSON {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Strategy recommend.Strategy `json:"strategy"`
			Products []catalog.Product  `json:"products"`
		}{Strategy: strategy, Products: products})
	}

	p := printer.Ctx(ctx)
	if len(products) == 0 {
		p.Infof("No recommendations")
		return nil
	}

	p.Section(strategy.Label())
	for _, prod := range products {
		p.ProductLine(prod.ID, prod.DisplayName(), cmd.flags.Service.Price(prod, cmd.currency), prod.RatingOrZero())
	}

	return nil
}
