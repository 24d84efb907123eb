package routes

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source/stationdirectory"
)

func ArrivalsRouter(router fiber.Router, aggregator *dataaggregator.Aggregator) {
	router.Get("/", getStationArrivals(aggregator))
}

func getStationArrivals(aggregator *dataaggregator.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		stationID, _ := strconv.Atoi(c.Query("stationId"))
		name := c.Query("name")

		var station ctdf.Station

		switch {
		case stationID > 0:
			found, err := dataaggregator.Lookup[*ctdf.Station](ctx, aggregator, query.Station{ID: stationID})
			if errors.Is(err, stationdirectory.ErrStationNotFound) {
				// The live board knows stations the local directory may not
				station = ctdf.Station{ID: stationID}
			} else if err != nil {
				return upstreamError(c, "Could not search stations", err)
			} else {
				station = *found
			}
		case name != "":
			found, err := dataaggregator.Lookup[*ctdf.Station](ctx, aggregator, query.Station{Name: name})
			if errors.Is(err, stationdirectory.ErrStationNotFound) {
				c.SendStatus(fiber.StatusNotFound)
				return c.JSON(fiber.Map{
					"error": "Could not find Station matching name",
				})
			} else if err != nil {
				return upstreamError(c, "Could not search stations", err)
			}
			station = *found
		default:
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter stationId or name is required",
			})
		}

		arrivals, err := dataaggregator.Lookup[[]ctdf.Arrival](ctx, aggregator, query.StationArrivals{StationID: station.ID})
		if err != nil {
			return upstreamError(c, "Could not fetch station arrivals", err)
		}

		return c.JSON(ctdf.StationArrivals{
			Station:  station,
			Arrivals: arrivals,
		})
	}
}
