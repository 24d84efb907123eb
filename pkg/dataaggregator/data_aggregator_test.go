package dataaggregator

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source"
)

type stubSource struct {
	name     string
	supports []reflect.Type
	answer   interface{}
	err      error
	calls    int
}

func (s *stubSource) GetName() string          { return s.name }
func (s *stubSource) Supports() []reflect.Type { return s.supports }

func (s *stubSource) Lookup(_ context.Context, _ any) (interface{}, error) {
	s.calls++
	return s.answer, s.err
}

func TestLookupFirstSupportingSourceAnswers(t *testing.T) {
	unrelated := &stubSource{name: "arrivals", supports: []reflect.Type{reflect.TypeOf([]ctdf.Arrival{})}}
	first := &stubSource{name: "first", supports: []reflect.Type{reflect.TypeOf(ctdf.Station{})}, answer: &ctdf.Station{ID: 1, Name: "Alboraia"}}
	second := &stubSource{name: "second", supports: []reflect.Type{reflect.TypeOf(ctdf.Station{})}, answer: &ctdf.Station{ID: 2}}

	aggregator := &Aggregator{}
	aggregator.RegisterSource(unrelated)
	aggregator.RegisterSource(first)
	aggregator.RegisterSource(second)

	station, err := Lookup[*ctdf.Station](context.Background(), aggregator, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "Alboraia", station.Name)

	assert.Equal(t, 0, unrelated.calls)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestLookupSkipsUnsupportedQueries(t *testing.T) {
	declines := &stubSource{name: "declines", supports: []reflect.Type{reflect.TypeOf([]ctdf.Arrival{})}, err: source.UnsupportedSourceError}
	answers := &stubSource{name: "answers", supports: []reflect.Type{reflect.TypeOf([]ctdf.Arrival{})}, answer: []ctdf.Arrival{{Line: "5"}}}

	aggregator := &Aggregator{}
	aggregator.RegisterSource(declines)
	aggregator.RegisterSource(answers)

	arrivals, err := Lookup[[]ctdf.Arrival](context.Background(), aggregator, struct{}{})
	require.NoError(t, err)
	assert.Len(t, arrivals, 1)
	assert.Equal(t, 1, declines.calls)
}

func TestLookupPropagatesErrors(t *testing.T) {
	failure := errors.New("boom")

	aggregator := &Aggregator{}
	aggregator.RegisterSource(&stubSource{name: "fails", supports: []reflect.Type{reflect.TypeOf(ctdf.Station{})}, err: failure})

	_, err := Lookup[*ctdf.Station](context.Background(), aggregator, struct{}{})
	assert.ErrorIs(t, err, failure)
}

func TestLookupNoMatchingSource(t *testing.T) {
	_, err := Lookup[*ctdf.Station](context.Background(), &Aggregator{}, struct{}{})
	assert.ErrorContains(t, err, "failed to find a matching data source")
}

func TestLookupWrongAnswerType(t *testing.T) {
	aggregator := &Aggregator{}
	aggregator.RegisterSource(&stubSource{name: "confused", supports: []reflect.Type{reflect.TypeOf(ctdf.Station{})}, answer: "not a station"})

	_, err := Lookup[*ctdf.Station](context.Background(), aggregator, struct{}{})
	assert.ErrorContains(t, err, "confused")
}
