package routes

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type heartbeatEvent struct {
	Type string `json:"type"`
	Time string `json:"time"`
}

func EventsRouter(router fiber.Router, heartbeatInterval time.Duration) {
	router.Get("/", streamEvents(heartbeatInterval))
}

func streamEvents(heartbeatInterval time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ticker := time.NewTicker(heartbeatInterval)
			defer ticker.Stop()

			for {
				if err := writeHeartbeat(w, time.Now()); err != nil {
					log.Debug().Err(err).Msg("Event stream closed")
					return
				}

				<-ticker.C
			}
		})

		return nil
	}
}

// writeHeartbeat fails once the client has gone away, which ends the stream
func writeHeartbeat(w *bufio.Writer, now time.Time) error {
	payload, err := json.Marshal(heartbeatEvent{
		Type: "heartbeat",
		Time: now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: heartbeat\ndata: %s\n\n", payload); err != nil {
		return err
	}

	return w.Flush()
}
