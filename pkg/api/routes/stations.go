package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source/stationdirectory"
)

func StationsRouter(router fiber.Router, aggregator *dataaggregator.Aggregator) {
	router.Get("/", findStation(aggregator))
	router.Get("/:id", getStation(aggregator))
}

func findStation(aggregator *dataaggregator.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Query("name")
		if name == "" {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter name is required",
			})
		}

		station, err := dataaggregator.Lookup[*ctdf.Station](c.UserContext(), aggregator, query.Station{Name: name})
		if errors.Is(err, stationdirectory.ErrStationNotFound) {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find Station matching name",
			})
		} else if err != nil {
			return upstreamError(c, "Could not search stations", err)
		}

		return c.JSON(station)
	}
}

func getStation(aggregator *dataaggregator.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Station id should be a positive integer",
			})
		}

		station, err := dataaggregator.Lookup[*ctdf.Station](c.UserContext(), aggregator, query.Station{ID: id})
		if errors.Is(err, stationdirectory.ErrStationNotFound) {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find Station matching id",
			})
		} else if err != nil {
			return upstreamError(c, "Could not look up station", err)
		}

		stationReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, station)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce Station",
			})
		}

		return c.JSON(stationReduced)
	}
}
