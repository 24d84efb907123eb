package routes

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
	"github.com/travigo/metroplanner/pkg/planner"
)

func PlannerRouter(router fiber.Router, aggregator *dataaggregator.Aggregator) {
	router.Get("/", getPlanBetweenStations(aggregator))
}

func getPlanBetweenStations(aggregator *dataaggregator.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, fromErr := strconv.Atoi(c.Query("from"))
		to, toErr := strconv.Atoi(c.Query("to"))

		if fromErr != nil || toErr != nil || from <= 0 || to <= 0 {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameters from and to are required station ids",
			})
		}

		count, err := strconv.Atoi(c.Query("count", "0"))
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter count should be an integer",
			})
		}

		connectionWindow, err := strconv.Atoi(c.Query("connection_window", "0"))
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter connection_window should be a number of minutes",
			})
		}

		results, err := dataaggregator.Lookup[*ctdf.JourneyPlanResults](c.UserContext(), aggregator, query.JourneyPlan{
			OriginID:                from,
			DestinationID:           to,
			Date:                    c.Query("date"),
			Time:                    c.Query("time"),
			Count:                   count,
			ConnectionWindowMinutes: connectionWindow,
		})

		if errors.Is(err, planner.ErrInvalidInput) {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		} else if err != nil {
			return upstreamError(c, "Could not query the Metrovalencia timetable", err)
		}

		if results == nil {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "No routes found for the requested stations and date",
			})
		}

		return c.JSON(results)
	}
}
