package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/neighborly/internal/core/recommend"
	"github.com/hay-kot/neighborly/internal/tui"
)

type TuiCmd struct {
	flags *Flags

	strategy string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "strategy",
			Usage:       "initial recommendation strategy in the storefront",
			Destination: &cmd.strategy,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config

	name := cmd.strategy
	if name == "" {
		name = cfg.Recommend.DefaultStrategy
	}
	strategy, err := recommend.ParseStrategy(name)
	if err != nil {
		return err
	}

	m := tui.New(ctx, cmd.flags.Service, tui.Options{
		Strategy: strategy,
		Limit:    cfg.Recommend.DefaultLimit,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
