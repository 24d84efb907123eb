package journeyplanner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
	"github.com/travigo/metroplanner/pkg/planner"
	"github.com/travigo/metroplanner/pkg/util"
)

const dateLayout = "2006-01-02"

// JourneyPlanQuery plans from the origin to the destination at or after the requested time.
// A nil result with a nil error means the operator has no service between the two stations that day.
func (s Source) JourneyPlanQuery(ctx context.Context, q query.JourneyPlan) (*ctdf.JourneyPlanResults, error) {
	date, clock, err := s.validate(q)
	if err != nil {
		s.Metrics.RecordJourneyPlan("invalid_input", 0)
		return nil, err
	}

	minDeparture, err := util.ClockToSeconds(clock)
	if err != nil {
		s.Metrics.RecordJourneyPlan("invalid_input", 0)
		return nil, fmt.Errorf("%w: time %q", planner.ErrInvalidInput, q.Time)
	}

	originName := s.stationName(ctx, q.OriginID)
	destinationName := s.stationName(ctx, q.DestinationID)

	segments, err := dataaggregator.Lookup[[]ctdf.RouteSegment](ctx, s.Aggregator, query.RouteTimetable{
		OriginID:      q.OriginID,
		DestinationID: q.DestinationID,
		Date:          date,
	})
	if err != nil {
		s.Metrics.RecordJourneyPlan("upstream_error", 0)
		return nil, err
	}

	if len(segments) == 0 {
		s.Metrics.RecordJourneyPlan("no_service", 0)
		return nil, nil
	}

	if len(segments) > 2 {
		log.Warn().
			Int("origin", q.OriginID).
			Int("destination", q.DestinationID).
			Int("segments", len(segments)).
			Msg("Timetable has more than two segments, planning with the first two")
	}

	results := planner.Combine(originName, destinationName, segments, minDeparture, planner.CombineOptions{
		ConnectionWindowSeconds: q.ConnectionWindowMinutes * 60,
		Limit:                   q.Count,
	})

	if results.Skipped > 0 {
		log.Debug().
			Int("origin", q.OriginID).
			Int("destination", q.DestinationID).
			Int("skipped", results.Skipped).
			Msg("Skipped departures with unknown trains")
	}

	s.Metrics.RecordJourneyPlan("found", results.Count)

	return results, nil
}

// validate returns the date and HH:MM:SS time to plan with, applying the defaults
func (s Source) validate(q query.JourneyPlan) (string, string, error) {
	if q.OriginID <= 0 || q.DestinationID <= 0 {
		return "", "", fmt.Errorf("%w: station ids must be positive", planner.ErrInvalidInput)
	}

	if q.Count < 0 {
		return "", "", fmt.Errorf("%w: count must not be negative", planner.ErrInvalidInput)
	}

	if q.ConnectionWindowMinutes < 0 {
		return "", "", fmt.Errorf("%w: connection window must not be negative", planner.ErrInvalidInput)
	}

	date := q.Date
	if date == "" {
		date = s.now().In(s.location()).Format(dateLayout)
	} else if _, err := time.ParseInLocation(dateLayout, date, s.location()); err != nil {
		return "", "", fmt.Errorf("%w: date %q must be YYYY-MM-DD", planner.ErrInvalidInput, q.Date)
	}

	clock := "00:00:00"
	if q.Time != "" {
		normalised, err := util.NormaliseClock(q.Time)
		if err != nil {
			return "", "", fmt.Errorf("%w: time %q must be HH:MM or HH:MM:SS", planner.ErrInvalidInput, q.Time)
		}
		clock = normalised
	}

	return date, clock, nil
}

func (s Source) stationName(ctx context.Context, id int) string {
	station, err := dataaggregator.Lookup[*ctdf.Station](ctx, s.Aggregator, query.Station{ID: id})
	if err != nil || station == nil {
		log.Debug().Err(err).Int("id", id).Msg("Station name not found, using empty label")
		return ""
	}

	return station.Name
}

func (s Source) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s Source) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}
