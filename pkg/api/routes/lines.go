package routes

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
)

const maxConcurrentArrivalLookups = 8

func LinesRouter(router fiber.Router, aggregator *dataaggregator.Aggregator) {
	router.Get("/", listLines(aggregator))
	router.Get("/:line/arrivals", getLineArrivals(aggregator))
}

func listLines(aggregator *dataaggregator.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		grouped, err := dataaggregator.Lookup[map[string][]ctdf.Station](c.UserContext(), aggregator, query.StationsGroupedByLine{})
		if err != nil {
			return upstreamError(c, "Could not group stations by line", err)
		}

		groupedReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, grouped)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce lines",
			})
		}

		return c.JSON(groupedReduced)
	}
}

func getLineArrivals(aggregator *dataaggregator.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		line := c.Params("line")
		ctx := c.UserContext()

		stations, err := dataaggregator.Lookup[[]ctdf.Station](ctx, aggregator, query.StationsByLine{Line: line})
		if err != nil {
			return upstreamError(c, "Could not list stations on line", err)
		}

		if len(stations) == 0 {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find Line",
			})
		}

		position := map[int]int{}
		p := pool.NewWithResults[ctdf.StationArrivals]().WithMaxGoroutines(maxConcurrentArrivalLookups)

		for i, station := range stations {
			station := station
			position[station.ID] = i

			p.Go(func() ctdf.StationArrivals {
				arrivals, err := dataaggregator.Lookup[[]ctdf.Arrival](ctx, aggregator, query.StationArrivals{StationID: station.ID})
				if err != nil {
					log.Warn().Err(err).Int("station", station.ID).Str("line", line).Msg("Failed to fetch station arrivals")

					return ctdf.StationArrivals{
						Station:  station,
						Arrivals: []ctdf.Arrival{},
						Error:    err.Error(),
					}
				}

				return ctdf.StationArrivals{
					Station:  station,
					Arrivals: arrivals,
				}
			})
		}

		lineArrivals := p.Wait()

		sort.Slice(lineArrivals, func(i, j int) bool {
			return position[lineArrivals[i].Station.ID] < position[lineArrivals[j].Station.ID]
		})

		return c.JSON(fiber.Map{
			"line":     line,
			"stations": lineArrivals,
		})
	}
}
