package dataaggregator

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog/log"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source"
)

type Aggregator struct {
	Sources []DataSource
}

func (a *Aggregator) RegisterSource(source DataSource) {
	a.Sources = append(a.Sources, source)

	log.Debug().Str("name", source.GetName()).Msg("Registering new Data Source")
}

// Lookup asks every source that supports T in registration order and returns the first answer.
// Sources that reply with UnsupportedSourceError are skipped.
func Lookup[T any](ctx context.Context, a *Aggregator, query any) (T, error) {
	var empty T

	lookupType := reflect.TypeOf(*new(T))
	if lookupType.Kind() == reflect.Pointer {
		lookupType = lookupType.Elem()
	}

	for _, dataSource := range a.Sources {
		matches := false

		for _, supportedType := range dataSource.Supports() {
			if lookupType == supportedType {
				matches = true
				break
			}
		}

		if !matches {
			continue
		}

		returnValue, returnError := dataSource.Lookup(ctx, query)

		if errors.Is(returnError, source.UnsupportedSourceError) {
			continue
		}

		if returnValue == nil {
			return empty, returnError
		}

		typedValue, ok := returnValue.(T)
		if !ok {
			return empty, fmt.Errorf("data source %s returned %T, expected %s", dataSource.GetName(), returnValue, lookupType)
		}

		return typedValue, returnError
	}

	return empty, fmt.Errorf("failed to find a matching data source for type %s", lookupType)
}
