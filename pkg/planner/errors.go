package planner

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid journey plan input")
	ErrUpstreamUnavailable = errors.New("timetable source unavailable")
	ErrUpstreamMalformed   = errors.New("timetable source returned malformed data")
)
