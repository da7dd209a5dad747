// Package icesheet provides fixed reference statistics for the Greenland
// and Antarctic ice sheets and projects cumulative mass loss over fixed
// time periods. All quantities come from a compile-time constant table;
// projections use a 365-day year with no leap adjustment so results stay
// numerically reproducible across runs.
package icesheet

import (
	"errors"
	"fmt"
	"strings"
)

// Sheet identifies one of the supported ice sheets.
type Sheet string

const (
	Greenland  Sheet = "GREENLAND"
	Antarctica Sheet = "ANTARCTICA"
)

// Period is a fixed projection window for mass loss calculations.
type Period string

const (
	Annual  Period = "ANNUAL"
	Decade  Period = "DECADE"
	Century Period = "CENTURY"
)

// Seconds per period on a 365-day year basis (365 * 24 * 60 * 60 and
// multiples). Leap years are deliberately ignored.
const (
	SecondsAnnual  = 31_536_000
	SecondsDecade  = 315_360_000
	SecondsCentury = 3_153_600_000
)

// Selector lists quoted in validation error messages.
const (
	SheetValues  = "GREENLAND, ANTARCTICA"
	PeriodValues = "CENTURY, DECADE, ANNUAL"
)

var (
	// ErrInvalidIceSheet indicates an unrecognized or missing ice sheet selector.
	ErrInvalidIceSheet = errors.New("invalid ice sheet")

	// ErrInvalidTimePeriod indicates an unrecognized or missing time period selector.
	ErrInvalidTimePeriod = errors.New("invalid time period")
)

// Constants is the immutable reference record for one ice sheet.
type Constants struct {
	SizeKm2                float64 // surface area in km²
	MeltingRateKgPerSecond float64 // signed; negative means mass loss
	AmbientTemperatureC    float64 // mean ambient temperature in °C
	DisplayName            string  // human-readable name
}

// One record per sheet, fixed at build time. Lookup by a valid sheet
// never fails.
var sheetConstants = map[Sheet]Constants{
	Greenland: {
		SizeKm2:                4_380_000.0,
		MeltingRateKgPerSecond: -4.364067,
		AmbientTemperatureC:    -29.45,
		DisplayName:            "Greenland",
	},
	Antarctica: {
		SizeKm2:                14_000_000.0,
		MeltingRateKgPerSecond: -26.9982036,
		AmbientTemperatureC:    -57.0,
		DisplayName:            "Antarctica",
	},
}

var periodSeconds = map[Period]float64{
	Annual:  SecondsAnnual,
	Decade:  SecondsDecade,
	Century: SecondsCentury,
}

// ParseSheet maps a request selector to a Sheet, accepting any case.
func ParseSheet(s string) (Sheet, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%w: no ice sheet specified (valid values: %s)", ErrInvalidIceSheet, SheetValues)
	}
	sheet := Sheet(strings.ToUpper(trimmed))
	if _, ok := sheetConstants[sheet]; !ok {
		return "", fmt.Errorf("%w: %q (valid values: %s)", ErrInvalidIceSheet, trimmed, SheetValues)
	}
	return sheet, nil
}

// ParsePeriod maps a request selector to a Period, accepting any case.
func ParsePeriod(s string) (Period, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%w: no time period specified (valid values: %s)", ErrInvalidTimePeriod, PeriodValues)
	}
	period := Period(strings.ToUpper(trimmed))
	if _, ok := periodSeconds[period]; !ok {
		return "", fmt.Errorf("%w: %q (valid values: %s)", ErrInvalidTimePeriod, trimmed, PeriodValues)
	}
	return period, nil
}

// LookupConstants returns the constants record for a sheet.
func LookupConstants(sheet Sheet) (Constants, error) {
	c, ok := sheetConstants[sheet]
	if !ok {
		return Constants{}, fmt.Errorf("%w: %q (valid values: %s)", ErrInvalidIceSheet, string(sheet), SheetValues)
	}
	return c, nil
}

// PeriodToSeconds returns the fixed duration of a period in seconds, as a
// float64 ready for multiplication.
func PeriodToSeconds(period Period) (float64, error) {
	s, ok := periodSeconds[period]
	if !ok {
		return 0, fmt.Errorf("%w: %q (valid values: %s)", ErrInvalidTimePeriod, string(period), PeriodValues)
	}
	return s, nil
}
