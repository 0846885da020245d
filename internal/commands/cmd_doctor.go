package commands

import (
	"context"

	"github.com/hay-kot/neighborly/internal/commands/doctor"
	"github.com/hay-kot/neighborly/internal/core/config"
	"github.com/hay-kot/neighborly/internal/printer"
	"github.com/hay-kot/neighborly/internal/storefront"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type DoctorCmd struct {
	flags   *Flags
	format  string
	fix     bool
	offline bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your neighborly setup",
		UsageText:   "neighborly doctor [options]",
		Description: "Runs diagnostic checks on configuration, history storage, and the product catalog.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "delete corrupt or unknown history records",
				Destination: &cmd.fix,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "skip the catalog fetch",
				Destination: &cmd.offline,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	checks := []doctor.Check{
		doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath),
		doctor.NewRecordsCheck(cmd.flags.Store, cfg.Storage.Backend, cmd.fix),
	}

	if !cmd.offline {
		// a fresh source so the check performs a real fetch
		pricing := cmd.flags.Service.Pricing()
		source := storefront.NewSource(cfg, pricing.Converter, log.Logger)
		checks = append(checks, doctor.NewCatalogCheck(
			source,
			pricing.Converter,
			cmd.flags.Service.UserCurrency(),
			describeSource(cfg),
			cfg.Catalog.Timeout,
		))
	}

	report := doctor.Run(ctx, checks...)

	err := writeReport(ctx, c, report, cmd.format)

	if keys := report.FixableKeys(); len(keys) > 0 && cmd.format != "json" {
		printer.Ctx(ctx).Printf("Run 'neighborly doctor --fix' to delete %d bad history record(s)", len(keys))
	}

	return err
}

func describeSource(cfg *config.Config) string {
	if cfg.Catalog.Source == config.SourceFile {
		return cfg.CatalogFile()
	}
	return cfg.Catalog.URL
}
