package planner

import (
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/util"
)

type CombineOptions struct {
	// ConnectionWindowSeconds of zero takes only the earliest connection at the interchange.
	// A positive window emits every connection departing within that many seconds of arrival.
	ConnectionWindowSeconds int

	// Limit caps the number of itineraries returned, zero means no cap
	Limit int
}

// Combine builds journey options from one segment (direct) or two segments (single transfer).
// Departures earlier than minDeparture (seconds since midnight) are dropped, the boundary is inclusive.
// A nil result means there was no segment to plan with.
func Combine(originName string, destinationName string, segments []ctdf.RouteSegment, minDeparture int, options CombineOptions) *ctdf.JourneyPlanResults {
	if len(segments) == 0 {
		return nil
	}

	results := &ctdf.JourneyPlanResults{
		OriginName:       originName,
		DestinationName:  destinationName,
		Itineraries:      []ctdf.Itinerary{},
		TransferRequired: len(segments) > 1,
	}

	if results.TransferRequired {
		combineTransfer(results, &segments[0], &segments[1], minDeparture, options)
	} else {
		combineDirect(results, &segments[0], minDeparture, options)
	}

	results.Count = len(results.Itineraries)

	return results
}

func combineDirect(results *ctdf.JourneyPlanResults, segment *ctdf.RouteSegment, minDeparture int, options CombineOptions) {
	for _, departure := range segment.Departures {
		if limitReached(results, options) {
			return
		}

		if departure.Seconds < minDeparture {
			continue
		}

		train, ok := segment.Train(departure.TrainID)
		if !ok {
			results.Skipped++
			continue
		}

		leg := newLeg(departure, train, segment.DurationSeconds, results.OriginName, results.DestinationName)

		results.Itineraries = append(results.Itineraries, ctdf.Itinerary{
			DepartureTime: leg.DepartureTime,
			ArrivalTime:   leg.ArrivalTime,
			Legs:          []ctdf.JourneyLeg{leg},
		})
	}
}

func combineTransfer(results *ctdf.JourneyPlanResults, first *ctdf.RouteSegment, second *ctdf.RouteSegment, minDeparture int, options CombineOptions) {
	for _, firstDeparture := range first.Departures {
		if limitReached(results, options) {
			return
		}

		if firstDeparture.Seconds < minDeparture {
			continue
		}

		firstTrain, ok := first.Train(firstDeparture.TrainID)
		if !ok {
			results.Skipped++
			continue
		}

		firstLeg := newLeg(firstDeparture, firstTrain, first.DurationSeconds, results.OriginName, ctdf.InterchangeLabel)

		// Compared unwrapped so a first leg arriving after midnight never picks up an early morning train
		interchangeArrival := firstDeparture.Seconds + first.DurationSeconds

		for _, secondDeparture := range second.Departures {
			if secondDeparture.Seconds < interchangeArrival {
				continue
			}

			if options.ConnectionWindowSeconds > 0 && secondDeparture.Seconds > interchangeArrival+options.ConnectionWindowSeconds {
				break
			}

			secondTrain, ok := second.Train(secondDeparture.TrainID)
			if !ok {
				results.Skipped++

				if options.ConnectionWindowSeconds > 0 {
					continue
				}
				break
			}

			secondLeg := newLeg(secondDeparture, secondTrain, second.DurationSeconds, ctdf.InterchangeLabel, results.DestinationName)

			results.Itineraries = append(results.Itineraries, ctdf.Itinerary{
				DepartureTime: firstLeg.DepartureTime,
				ArrivalTime:   secondLeg.ArrivalTime,
				Legs:          []ctdf.JourneyLeg{firstLeg, secondLeg},
			})

			if options.ConnectionWindowSeconds == 0 || limitReached(results, options) {
				break
			}
		}
	}
}

// newLeg renders both clock times wrapped into a single day, so a timetable
// departure listed as 24:10:00 is shown as 00:10:00 next to its arrival.
func newLeg(departure ctdf.Departure, train ctdf.Train, durationSeconds int, from string, to string) ctdf.JourneyLeg {
	return ctdf.JourneyLeg{
		TrainID:         train.ID,
		Line:            train.Line,
		Destination:     train.Destination,
		From:            from,
		To:              to,
		DepartureTime:   util.SecondsToClock(departure.Seconds),
		ArrivalTime:     util.SecondsToClock(departure.Seconds + durationSeconds),
		DurationSeconds: durationSeconds,
	}
}

func limitReached(results *ctdf.JourneyPlanResults, options CombineOptions) bool {
	return options.Limit > 0 && len(results.Itineraries) >= options.Limit
}
