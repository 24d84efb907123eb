package stationdirectory

import (
	"context"
	"errors"
	"reflect"

	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator/query"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source"
	"github.com/travigo/metroplanner/pkg/stations"
)

var ErrStationNotFound = errors.New("could not find a matching Station")

type Source struct {
	Directory *stations.Directory
}

func (s Source) GetName() string {
	return "Station Directory"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.Station{}),
		reflect.TypeOf([]ctdf.Station{}),
		reflect.TypeOf(map[string][]ctdf.Station{}),
	}
}

func (s Source) Lookup(_ context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.Station:
		return s.StationQuery(q)
	case query.StationsByLine:
		return s.Directory.ByLine(q.Line), nil
	case query.StationsGroupedByLine:
		return s.Directory.GroupedByLine(), nil
	default:
		return nil, source.UnsupportedSourceError
	}
}

// StationQuery matches by id when one is given, otherwise by accent-insensitive name
func (s Source) StationQuery(q query.Station) (*ctdf.Station, error) {
	var station ctdf.Station
	var ok bool

	if q.ID != 0 {
		station, ok = s.Directory.ByID(q.ID)
	} else if q.Name != "" {
		station, ok = s.Directory.FindByName(q.Name)
	}

	if !ok {
		return nil, ErrStationNotFound
	}

	return &station, nil
}
