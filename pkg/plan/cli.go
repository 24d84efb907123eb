package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/travigo/metroplanner/pkg/config"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/global"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
	"github.com/urfave/cli/v2"
)

var ErrNoService = errors.New("no routes found for the requested stations and date")

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Plan a journey between two stations from the command line",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "from",
				Usage:    "origin station id",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "to",
				Usage:    "destination station id",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "travel date as YYYY-MM-DD, defaults to today",
			},
			&cli.StringFlag{
				Name:  "time",
				Usage: "earliest departure as HH:MM or HH:MM:SS",
			},
			&cli.IntFlag{
				Name:  "window",
				Usage: "minutes to wait at the interchange for further connections, 0 takes the first one",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "maximum number of itineraries, 0 for all",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "output format, json or pretty",
			},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if format != "json" && format != "pretty" {
				return fmt.Errorf("unknown format %q", format)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			services, err := global.Connect(c.Context, cfg)
			if err != nil {
				return err
			}
			defer services.Close()

			results, err := dataaggregator.Lookup[*ctdf.JourneyPlanResults](c.Context, services.Aggregator, query.JourneyPlan{
				OriginID:                c.Int("from"),
				DestinationID:           c.Int("to"),
				Date:                    c.String("date"),
				Time:                    c.String("time"),
				Count:                   c.Int("count"),
				ConnectionWindowMinutes: c.Int("window"),
			})
			if err != nil {
				return err
			}

			return WriteResults(c.App.Writer, format, results)
		},
	}
}

func WriteResults(w io.Writer, format string, results *ctdf.JourneyPlanResults) error {
	if results == nil {
		return ErrNoService
	}

	if format == "pretty" {
		_, err := pretty.Fprintf(w, "%# v\n", results)
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(results)
}
