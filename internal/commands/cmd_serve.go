package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/hay-kot/neighborly/internal/core/recommend"
	"github.com/hay-kot/neighborly/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type ServeCmd struct {
	flags *Flags

	// Command-specific flags
	addr string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the storefront JSON API",
		UsageText: "neighborly serve [options]",
		Description: `Serves products, recommendations, currency conversion and history over
HTTP under /api/v1, with Prometheus metrics on /metrics.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "address to listen on (defaults to server.addr)",
				Sources:     cli.EnvVars("NEIGHBORLY_ADDR"),
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	addr := cmd.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	// validated at config load
	strategy, _ := recommend.ParseStrategy(cfg.Recommend.DefaultStrategy)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(
		cmd.flags.Service,
		log.With().Str("component", "server").Logger(),
		server.WithDefaults(strategy, cfg.Recommend.DefaultLimit),
		server.WithCORS(cfg.Server.AllowedOrigins),
		server.WithRateLimit(cfg.Server.RateLimit),
	)

	return srv.ListenAndServe(ctx, addr)
}
