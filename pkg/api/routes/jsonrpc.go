package routes

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source/stationdirectory"
)

const (
	jsonRPCParseError     = -32700
	jsonRPCMethodNotFound = -32601
	jsonRPCInvalidParams  = -32602
	jsonRPCStationMissing = -32000
	jsonRPCUpstreamFailed = -32001
)

type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  struct {
		Station string `json:"station"`
	} `json:"params"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var nextTrainsSchema = fiber.Map{
	"description": "Returns the next trains at a station",
	"params": fiber.Map{
		"type": "object",
		"properties": fiber.Map{
			"station": fiber.Map{"type": "string"},
		},
		"required": []string{"station"},
	},
	"returns": fiber.Map{
		"type": "object",
		"properties": fiber.Map{
			"trains": fiber.Map{
				"type": "array",
				"items": fiber.Map{
					"type": "object",
					"properties": fiber.Map{
						"line":        fiber.Map{"type": "string"},
						"destination": fiber.Map{"type": "string"},
						"minutes":     fiber.Map{"type": "string"},
					},
				},
			},
		},
	},
}

func JSONRPCRouter(router fiber.Router, aggregator *dataaggregator.Aggregator) {
	router.Post("/", handleJSONRPC(aggregator))
}

func handleJSONRPC(aggregator *dataaggregator.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var request jsonRPCRequest
		if err := json.Unmarshal(c.Body(), &request); err != nil {
			return jsonRPCFailure(c, fiber.StatusBadRequest, nil, jsonRPCParseError, "Request body is not valid JSON")
		}

		switch request.Method {
		case "initialize":
			return c.JSON(jsonRPCResponse{
				JSONRPC: "2.0",
				ID:      request.ID,
				Result: fiber.Map{
					"serverInfo": fiber.Map{
						"name":    ServerName,
						"version": Version,
					},
					"methods": fiber.Map{
						"getNextTrains": nextTrainsSchema,
					},
				},
			})
		case "getNextTrains":
			return getNextTrains(c, aggregator, request)
		default:
			return jsonRPCFailure(c, fiber.StatusNotFound, request.ID, jsonRPCMethodNotFound, "Method '"+request.Method+"' is not implemented")
		}
	}
}

func getNextTrains(c *fiber.Ctx, aggregator *dataaggregator.Aggregator, request jsonRPCRequest) error {
	if request.Params.Station == "" {
		return jsonRPCFailure(c, fiber.StatusBadRequest, request.ID, jsonRPCInvalidParams, "Missing parameter 'station'")
	}

	ctx := c.UserContext()

	station, err := dataaggregator.Lookup[*ctdf.Station](ctx, aggregator, query.Station{Name: request.Params.Station})
	if errors.Is(err, stationdirectory.ErrStationNotFound) {
		return jsonRPCFailure(c, fiber.StatusNotFound, request.ID, jsonRPCStationMissing, "Station not found")
	} else if err != nil {
		return jsonRPCFailure(c, fiber.StatusInternalServerError, request.ID, jsonRPCUpstreamFailed, err.Error())
	}

	arrivals, err := dataaggregator.Lookup[[]ctdf.Arrival](ctx, aggregator, query.StationArrivals{StationID: station.ID})
	if err != nil {
		log.Error().Err(err).Int("station", station.ID).Msg("getNextTrains failed to fetch arrivals")
		return jsonRPCFailure(c, fiber.StatusBadGateway, request.ID, jsonRPCUpstreamFailed, err.Error())
	}

	return c.JSON(jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      request.ID,
		Result: fiber.Map{
			"trains": arrivals,
		},
	})
}

func jsonRPCFailure(c *fiber.Ctx, status int, id json.RawMessage, code int, message string) error {
	c.SendStatus(status)
	return c.JSON(jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &jsonRPCError{
			Code:    code,
			Message: message,
		},
	})
}
