package metrovalencia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/planner"
	"github.com/travigo/metroplanner/pkg/util"
)

type timetableResponse struct {
	Horarios []horario `json:"horarios"`
}

type horario struct {
	Horas    [][]util.FlexibleString `json:"horas"`
	Trenes   []tren                  `json:"trenes"`
	Duracion util.FlexibleInt        `json:"duracion"`
}

type tren struct {
	ID      util.FlexibleString `json:"id"`
	Linea   util.FlexibleString `json:"linea"`
	Destino string              `json:"destino"`
}

// FetchRouteTimetable returns the validated route segments between two stations for a date (YYYY-MM-DD).
// One segment is a direct route, two mean a single transfer, none means no service.
func (c *Client) FetchRouteTimetable(ctx context.Context, originID int, destinationID int, date string) ([]ctdf.RouteSegment, error) {
	cacheKey := fmt.Sprintf("metroplanner:timetable:%d:%d:%s", originID, destinationID, date)

	if cached, ok := c.Cache.Get(ctx, cacheKey); ok {
		segments, err := parseTimetable([]byte(cached))
		if err == nil {
			return segments, nil
		}

		log.Warn().Err(err).Str("key", cacheKey).Msg("Discarding unreadable cached timetable")
	}

	form := url.Values{}
	form.Set("action", "formularios_ajax")
	form.Set("data", url.Values{
		"action":    {"horarios-ruta"},
		"origen":    {fmt.Sprint(originID)},
		"destino":   {fmt.Sprint(destinationID)},
		"dia":       {date},
		"horaDesde": {"00:00"},
		"horaHasta": {"23:59"},
	}.Encode())

	body, err := c.post(ctx, "timetable", c.Config.TimetableURL, c.Config.TimetableReferer, form)
	if err != nil {
		return nil, err
	}

	segments, err := parseTimetable(body)
	if err != nil {
		return nil, err
	}

	c.Cache.Set(ctx, cacheKey, string(body))

	log.Debug().
		Int("origin", originID).
		Int("destination", destinationID).
		Str("date", date).
		Int("segments", len(segments)).
		Msg("Fetched route timetable")

	return segments, nil
}

func parseTimetable(body []byte) ([]ctdf.RouteSegment, error) {
	var response timetableResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: decoding timetable: %w", planner.ErrUpstreamMalformed, err)
	}

	rawSegments := make([]planner.RawSegment, 0, len(response.Horarios))

	for segmentIndex, schedule := range response.Horarios {
		rawSegment := planner.RawSegment{
			DurationSeconds: int(schedule.Duracion),
		}

		for _, hora := range schedule.Horas {
			if len(hora) < 2 {
				return nil, fmt.Errorf("%w: segment %d has a departure without a train", planner.ErrUpstreamMalformed, segmentIndex)
			}

			rawSegment.Departures = append(rawSegment.Departures, planner.RawDeparture{
				Time:    string(hora[0]),
				TrainID: string(hora[1]),
			})
		}

		for _, train := range schedule.Trenes {
			rawSegment.Trains = append(rawSegment.Trains, ctdf.Train{
				ID:          string(train.ID),
				Line:        string(train.Linea),
				Destination: train.Destino,
			})
		}

		rawSegments = append(rawSegments, rawSegment)
	}

	return planner.Normalise(rawSegments)
}
