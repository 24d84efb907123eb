package metrovalencia

import (
	"context"
	"reflect"

	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source"
)

type Source struct {
	Client *Client
}

func (s Source) GetName() string {
	return "Metrovalencia"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]ctdf.RouteSegment{}),
		reflect.TypeOf([]ctdf.Arrival{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.RouteTimetable:
		return s.Client.FetchRouteTimetable(ctx, q.OriginID, q.DestinationID, q.Date)
	case query.StationArrivals:
		return s.Client.FetchStationArrivals(ctx, q.StationID)
	default:
		return nil, source.UnsupportedSourceError
	}
}
