package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/neighborly/internal/commands/doctor"
	"github.com/hay-kot/neighborly/internal/core/config"
)

type ConfigCmd struct {
	flags *Flags

	// Command-specific flags
	validateFormat string
	showFormat     string
}

// NewConfigCmd creates a new config command
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command and its subcommands to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Inspect the configuration",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate the configuration file",
				UsageText:   "neighborly config validate [options]",
				Description: "Checks enum values, limits, server settings, the product template and file paths, then summarizes the storage, catalog and currency in effect.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.validateFormat,
					},
				},
				Action: cmd.runValidate,
			},
			{
				Name:        "show",
				Usage:       "Print the effective configuration",
				UsageText:   "neighborly config show [options]",
				Description: "Prints the configuration after defaults are applied.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (yaml, json)",
						Value:       "yaml",
						Destination: &cmd.showFormat,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:      "path",
				Usage:     "Print the config, data and history locations",
				UsageText: "neighborly config path",
				Action:    cmd.runPath,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	report := doctor.Run(ctx, doctor.NewConfigCheck(cmd.flags.Config, cmd.flags.ConfigPath))
	return writeReport(ctx, c, report, cmd.validateFormat)
}

func (cmd *ConfigCmd) runShow(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	out := c.Root().Writer
	switch cmd.showFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "yaml", "":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", cmd.showFormat)
	}
}

func (cmd *ConfigCmd) runPath(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	history := cfg.StoragePath()
	if history == "" {
		history = "-"
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "config\t%s\n", cmd.flags.ConfigPath)
	_, _ = fmt.Fprintf(w, "data\t%s\n", cfg.DataDir)
	_, _ = fmt.Fprintf(w, "history\t%s\n", history)
	if cfg.Catalog.Source == config.SourceFile {
		_, _ = fmt.Fprintf(w, "catalog\t%s\n", cfg.CatalogFile())
	}
	return w.Flush()
}
