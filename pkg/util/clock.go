package util

import (
	"errors"
	"fmt"
	"strconv"
)

const SecondsPerDay = 24 * 60 * 60

var ErrMalformedClock = errors.New("clock time must be HH:MM:SS")

// ClockToSeconds converts a zero padded HH:MM:SS clock time into seconds since midnight.
// Hours are not capped at 23 so timetables running past midnight still order correctly.
func ClockToSeconds(clock string) (int, error) {
	if len(clock) != 8 || clock[2] != ':' || clock[5] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, clock)
	}

	hours, err := parseClockField(clock[0:2], 100)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, clock)
	}
	minutes, err := parseClockField(clock[3:5], 60)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, clock)
	}
	seconds, err := parseClockField(clock[6:8], 60)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, clock)
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// SecondsToClock renders seconds since midnight as HH:MM:SS, wrapping into a single day.
func SecondsToClock(seconds int) string {
	seconds %= SecondsPerDay
	if seconds < 0 {
		seconds += SecondsPerDay
	}

	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// AddSecondsToClock adds delta seconds to a clock time. Results past 24:00:00 wrap
// back to the start of the day and no day rollover is recorded, so
// AddSecondsToClock("23:59:50", 20) is "00:00:10".
func AddSecondsToClock(clock string, delta int) (string, error) {
	seconds, err := ClockToSeconds(clock)
	if err != nil {
		return "", err
	}

	return SecondsToClock(seconds + delta), nil
}

// NormaliseClock accepts a request time as HH:MM or HH:MM:SS and returns HH:MM:SS.
func NormaliseClock(input string) (string, error) {
	clock := input
	if len(clock) == 5 {
		clock += ":00"
	}

	seconds, err := ClockToSeconds(clock)
	if err != nil {
		return "", err
	}
	if seconds >= SecondsPerDay {
		return "", fmt.Errorf("%w: %q is past the end of the day", ErrMalformedClock, input)
	}

	return clock, nil
}

func parseClockField(field string, limit int) (int, error) {
	if field[0] < '0' || field[0] > '9' || field[1] < '0' || field[1] > '9' {
		return 0, strconv.ErrSyntax
	}

	value, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	if value >= limit {
		return 0, strconv.ErrRange
	}

	return value, nil
}
