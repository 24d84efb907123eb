package routes

import "github.com/gofiber/fiber/v2"

const ServerName = "metroplanner"

// Version is overridden at build time with -ldflags "-X ..."
var Version = "v0.1"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    ServerName,
		"version": Version,
	})
}
