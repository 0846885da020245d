package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/printer"
	"github.com/urfave/cli/v3"
)

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	viewed bool
	clear  bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "View or clear your search and viewed product history",
		UsageText: "neighborly history [options]",
		Description: `View or manage your interaction history.

By default, lists recent searches, newest first. Use --viewed for recently
viewed products and --clear to remove the selected log.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "viewed",
				Usage:       "show recently viewed products instead of searches",
				Destination: &cmd.viewed,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Aliases:     []string{"c"},
				Usage:       "clear the selected history",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	hist := cmd.flags.Service.History()

	switch {
	case cmd.clear && cmd.viewed:
		hist.ClearViewedProducts(ctx)
		p.Successf("Viewed products cleared")
		return nil
	case cmd.clear:
		hist.ClearSearchHistory(ctx)
		p.Successf("Search history cleared")
		return nil
	case cmd.viewed:
		return cmd.runViewed(ctx, c)
	default:
		return cmd.runSearches(ctx, c)
	}
}

func (cmd *HistoryCmd) runSearches(ctx context.Context, c *cli.Command) error {
	entries := cmd.flags.Service.History().SearchHistory(ctx)
	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("No search history")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "QUERY\tCATEGORY\tTIME")

	for _, e := range entries {
		category := e.Category
		if category == "" {
			category = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Query, category, formatTime(e.Time()))
	}

	return w.Flush()
}

func (cmd *HistoryCmd) runViewed(ctx context.Context, c *cli.Command) error {
	entries := cmd.flags.Service.History().ViewedProducts(ctx)
	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("No viewed products")
		return nil
	}

	// names are a nicety; history stays readable when the catalog is down
	products, err := cmd.flags.Service.Products(ctx)
	if err != nil {
		printer.Ctx(ctx).Warnf("Catalog unavailable, showing ids only: %v", err)
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTIME")

	for _, e := range entries {
		name := "-"
		if p, ok := catalog.FindByID(products, e.ID); ok {
			name = truncateName(p.DisplayName(), 40)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, name, formatTime(e.Time()))
	}

	return w.Flush()
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
