package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/travigo/metroplanner/pkg/api/routes"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/metrics"
)

type ServerOptions struct {
	Aggregator        *dataaggregator.Aggregator
	Metrics           *metrics.Collector
	HeartbeatInterval time.Duration
}

func NewApp(options ServerOptions) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())
	webApp.Use(cors.New())
	webApp.Use(func(c *fiber.Ctx) error {
		c.Set("MCP", "1")
		return c.Next()
	})

	webApp.Get("version", routes.APIVersion)

	routes.PlannerRouter(webApp.Group("/route"), options.Aggregator)
	routes.StationsRouter(webApp.Group("/station"), options.Aggregator)
	routes.LinesRouter(webApp.Group("/lines"), options.Aggregator)
	routes.ArrivalsRouter(webApp.Group("/arrival"), options.Aggregator)
	routes.EventsRouter(webApp.Group("/events"), options.HeartbeatInterval)
	routes.JSONRPCRouter(webApp, options.Aggregator)

	if options.Metrics != nil {
		webApp.Get("metrics", adaptor.HTTPHandler(options.Metrics.Handler()))
	}

	webApp.Use(func(c *fiber.Ctx) error {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})

	return webApp
}

func SetupServer(listen string, options ServerOptions) error {
	return NewApp(options).Listen(listen)
}
