package journeyplanner

import (
	"context"
	"reflect"
	"time"

	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source"
	"github.com/travigo/metroplanner/pkg/metrics"
)

type Source struct {
	Aggregator *dataaggregator.Aggregator
	Metrics    *metrics.Collector

	// Location decides what "today" means when no date is given
	Location *time.Location
	Now      func() time.Time
}

func (s Source) GetName() string {
	return "Journey Planner"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.JourneyPlanResults{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.JourneyPlan:
		return s.JourneyPlanQuery(ctx, q)
	default:
		return nil, source.UnsupportedSourceError
	}
}
