package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hay-kot/neighborly/internal/core/validate"
	"github.com/urfave/cli/v3"
)

type ConvertCmd struct {
	flags *Flags

	// Command-specific flags
	locale string
}

// NewConvertCmd creates a new convert command
func NewConvertCmd(flags *Flags) *ConvertCmd {
	return &ConvertCmd{flags: flags}
}

// Register adds the convert command to the application
func (cmd *ConvertCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "convert",
		Usage:     "Convert an amount between currencies",
		UsageText: "neighborly convert [options] AMOUNT FROM TO",
		Description: `Converts AMOUNT from one currency to another using the built-in rate table
and prints it formatted for your locale.

Supported currencies: USD, EUR, GBP and IDR. Pairs without a rate print the
amount unchanged and log a warning.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "locale",
				Usage:       "locale to format the result with, e.g. id-ID",
				Destination: &cmd.locale,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ConvertCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("expected AMOUNT FROM TO")
	}

	amount, err := strconv.ParseFloat(c.Args().Get(0), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", c.Args().Get(0), err)
	}

	from, to := c.Args().Get(1), c.Args().Get(2)
	for _, code := range []string{from, to} {
		if err := validate.CurrencyCode(code); err != nil {
			return err
		}
	}

	pricing := cmd.flags.Service.Pricing()

	locale := cmd.locale
	if locale == "" {
		locale = cmd.flags.Service.Locale()
	}

	converted := pricing.Converter.Convert(amount, from, to)
	_, err = fmt.Fprintln(c.Root().Writer, pricing.Formatter.Format(converted, to, locale))
	return err
}
