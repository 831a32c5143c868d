package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// plainDecimal is what a person types into a numeric field: an optional sign
// followed by digits with at most one decimal point. Anything else that
// strconv would accept (exponents, hex floats, NaN) is rejected.
var plainDecimal = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

// Accepted input ranges, inclusive on both ends.
const (
	MinSoilMoisture = 0.0
	MaxSoilMoisture = 100.0
	MinSlope        = 0.0
	MaxSlope        = 90.0
)

// Field names used in validation errors.
const (
	FieldSoilMoisture = "soilMoisture"
	FieldSlope        = "slope"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("invalid reading")

// ValidationKind says which entry rule a reading broke.
type ValidationKind string

const (
	EmptyField ValidationKind = "empty_field"
	NotANumber ValidationKind = "not_a_number"
	OutOfRange ValidationKind = "out_of_range"
)

// ValidationError reports a rejected form submission. Nothing is written when one is returned.
type ValidationError struct {
	Kind  ValidationKind
	Field string
	Min   float64
	Max   float64
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyField:
		if e.Field == "" {
			return "both soil moisture and slope are required"
		}
		return fmt.Sprintf("%s is required", e.Field)
	case NotANumber:
		return fmt.Sprintf("%s must be a number", e.Field)
	case OutOfRange:
		return fmt.Sprintf("%s must be between %g and %g", e.Field, e.Min, e.Max)
	default:
		return fmt.Sprintf("invalid %s", e.Field)
	}
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Reading is a parsed, range-checked pair of inputs.
type Reading struct {
	SoilMoisture float64
	Slope        float64
}

// ParseReading validates raw form input in the order a person fixes it: missing
// fields first, then unparseable numbers, then ranges (moisture before slope).
func ParseReading(rawMoisture, rawSlope string) (Reading, error) {
	rawMoisture = strings.TrimSpace(rawMoisture)
	rawSlope = strings.TrimSpace(rawSlope)

	switch {
	case rawMoisture == "" && rawSlope == "":
		return Reading{}, &ValidationError{Kind: EmptyField}
	case rawMoisture == "":
		return Reading{}, &ValidationError{Kind: EmptyField, Field: FieldSoilMoisture}
	case rawSlope == "":
		return Reading{}, &ValidationError{Kind: EmptyField, Field: FieldSlope}
	}

	moisture, ok := parseDecimal(rawMoisture)
	if !ok {
		return Reading{}, &ValidationError{Kind: NotANumber, Field: FieldSoilMoisture}
	}
	slope, ok := parseDecimal(rawSlope)
	if !ok {
		return Reading{}, &ValidationError{Kind: NotANumber, Field: FieldSlope}
	}

	if moisture < MinSoilMoisture || moisture > MaxSoilMoisture {
		return Reading{}, &ValidationError{Kind: OutOfRange, Field: FieldSoilMoisture, Min: MinSoilMoisture, Max: MaxSoilMoisture}
	}
	if slope < MinSlope || slope > MaxSlope {
		return Reading{}, &ValidationError{Kind: OutOfRange, Field: FieldSlope, Min: MinSlope, Max: MaxSlope}
	}

	return Reading{SoilMoisture: moisture, Slope: slope}, nil
}

// parseDecimal accepts either decimal separator. Only the first comma is
// rewritten, so "1,000,5" stays unparseable rather than becoming 1.0005.
func parseDecimal(s string) (float64, bool) {
	s = strings.Replace(s, ",", ".", 1)
	if !plainDecimal.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}
