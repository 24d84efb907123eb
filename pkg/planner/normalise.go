package planner

import (
	"fmt"

	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/util"
)

// RawSegment is a route segment as delivered by a timetable source before validation
type RawSegment struct {
	Departures      []RawDeparture
	Trains          []ctdf.Train
	DurationSeconds int
}

type RawDeparture struct {
	Time    string
	TrainID string
}

// Normalise validates raw segments and turns them into RouteSegments ready for Combine.
// Departures must be well formed and in non-decreasing time order.
func Normalise(rawSegments []RawSegment) ([]ctdf.RouteSegment, error) {
	segments := make([]ctdf.RouteSegment, 0, len(rawSegments))

	for segmentIndex, rawSegment := range rawSegments {
		if rawSegment.DurationSeconds < 0 {
			return nil, fmt.Errorf("%w: segment %d has negative duration %d", ErrUpstreamMalformed, segmentIndex, rawSegment.DurationSeconds)
		}

		segment := ctdf.RouteSegment{
			Departures:      make([]ctdf.Departure, 0, len(rawSegment.Departures)),
			Trains:          make(map[string]ctdf.Train, len(rawSegment.Trains)),
			DurationSeconds: rawSegment.DurationSeconds,
		}

		previousSeconds := -1
		for _, rawDeparture := range rawSegment.Departures {
			seconds, err := util.ClockToSeconds(rawDeparture.Time)
			if err != nil {
				return nil, fmt.Errorf("%w: segment %d: %w", ErrUpstreamMalformed, segmentIndex, err)
			}
			if seconds < previousSeconds {
				return nil, fmt.Errorf("%w: segment %d departure %s is earlier than the one before it", ErrUpstreamMalformed, segmentIndex, rawDeparture.Time)
			}
			previousSeconds = seconds

			segment.Departures = append(segment.Departures, ctdf.Departure{
				Time:    rawDeparture.Time,
				Seconds: seconds,
				TrainID: rawDeparture.TrainID,
			})
		}

		// The first description of a train wins
		for _, train := range rawSegment.Trains {
			if _, exists := segment.Trains[train.ID]; !exists {
				segment.Trains[train.ID] = train
			}
		}

		segments = append(segments, segment)
	}

	return segments, nil
}
