package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/metroplanner/pkg/planner"
)

func upstreamError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusBadGateway
	if !errors.Is(err, planner.ErrUpstreamUnavailable) && !errors.Is(err, planner.ErrUpstreamMalformed) {
		status = fiber.StatusInternalServerError
	}

	log.Error().Err(err).Str("path", c.Path()).Msg(message)

	c.SendStatus(status)
	return c.JSON(fiber.Map{
		"error":  message,
		"detail": err.Error(),
	})
}
