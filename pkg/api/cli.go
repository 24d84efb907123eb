package api

import (
	"github.com/travigo/metroplanner/pkg/config"
	"github.com/travigo/metroplanner/pkg/dataaggregator/global"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the journey planner web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, overrides TRAVIGO_LISTEN",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					if listen := c.String("listen"); listen != "" {
						cfg.Listen = listen
					}

					services, err := global.Connect(c.Context, cfg)
					if err != nil {
						return err
					}
					defer services.Close()

					return SetupServer(cfg.Listen, ServerOptions{
						Aggregator:        services.Aggregator,
						Metrics:           services.Metrics,
						HeartbeatInterval: cfg.HeartbeatInterval,
					})
				},
			},
		},
	}
}
