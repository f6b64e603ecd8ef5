package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is an inclusive numeric bound for a measurement
type Range struct {
	Min float64
	Max float64
}

// Accepted ranges, matching the limits of the vitals form
var (
	SystolicRange   = Range{Min: 50, Max: 250}
	DiastolicRange  = Range{Min: 30, Max: 150}
	BloodSugarRange = Range{Min: 50, Max: 500}
	SleepHoursRange = Range{Min: 0, Max: 24}
)

// ParseOptionalInt parses a whole-number measurement. An empty input yields
// nil without error.
func ParseOptionalInt(input string, bounds Range) (*int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(input)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", input)
	}
	if float64(value) < bounds.Min || float64(value) > bounds.Max {
		return nil, fmt.Errorf("must be between %g and %g", bounds.Min, bounds.Max)
	}

	return &value, nil
}

// ParseOptionalFloat parses a decimal measurement. An empty input yields nil
// without error.
func ParseOptionalFloat(input string, bounds Range) (*float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%q is not a number", input)
	}
	if value < bounds.Min || value > bounds.Max {
		return nil, fmt.Errorf("must be between %g and %g", bounds.Min, bounds.Max)
	}

	return &value, nil
}
