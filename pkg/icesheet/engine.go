package icesheet

import (
	"math"

	"go.uber.org/zap"
)

// DetailStatistics carries the raw descriptive quantities for one ice sheet.
// A fresh value is built per query and never cached.
type DetailStatistics struct {
	CurrentSizeKm2         float64 `json:"currentSize"`
	AmbientTemperatureC    float64 `json:"ambientTemperature"`
	MeltingRateKgPerSecond float64 `json:"meltingRate"`
}

// VisualizationStatistics carries the derived quantities for one sheet and
// period. FinalSizeKm2 subtracts kilograms from square kilometers; it is a
// display-only figure for the melt animation, not a physical area, and may
// go negative.
type VisualizationStatistics struct {
	MeltingRateKgPerSecond float64 `json:"meltingRate"`
	MassLossKg             float64 `json:"massLoss"`
	InitialSizeKm2         float64 `json:"initialSize"`
	FinalSizeKm2           float64 `json:"finalSize"`
	IceSheetName           string  `json:"iceSheetName"`
	Period                 Period  `json:"period"`
}

// Recorder receives operation counts as a side channel for monitoring.
// Implementations must be safe for concurrent use. Recording never affects
// computed results.
type Recorder interface {
	// DetailLookup is called once per successful detail statistics lookup.
	DetailLookup()
	// CalculationStarted is called when a validated mass loss calculation
	// begins.
	CalculationStarted()
	// CalculationFinished is called when that calculation completes.
	CalculationFinished()
}

// Engine answers statistics queries for the supported ice sheets. All of
// its state is immutable after construction, so a single Engine serves any
// number of concurrent callers.
type Engine struct {
	recorder Recorder
	logger   *zap.SugaredLogger
}

// NewEngine creates an Engine. Both collaborators are optional: a nil
// recorder disables operation counting, a nil logger disables warnings.
func NewEngine(recorder Recorder, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		recorder: recorder,
		logger:   logger,
	}
}

// GetDetailStatistics returns the fixed descriptive statistics for a sheet,
// projected verbatim from its constants record.
func (e *Engine) GetDetailStatistics(sheet Sheet) (DetailStatistics, error) {
	constants, err := LookupConstants(sheet)
	if err != nil {
		return DetailStatistics{}, err
	}

	if e.recorder != nil {
		e.recorder.DetailLookup()
	}

	return DetailStatistics{
		CurrentSizeKm2:         constants.SizeKm2,
		AmbientTemperatureC:    constants.AmbientTemperatureC,
		MeltingRateKgPerSecond: constants.MeltingRateKgPerSecond,
	}, nil
}

// CalculateMassLoss projects cumulative mass loss for a sheet over a period.
// The sheet selector is validated before the period, so a request invalid in
// both dimensions reports the sheet error.
func (e *Engine) CalculateMassLoss(sheet Sheet, period Period) (VisualizationStatistics, error) {
	constants, err := LookupConstants(sheet)
	if err != nil {
		return VisualizationStatistics{}, err
	}

	seconds, err := PeriodToSeconds(period)
	if err != nil {
		return VisualizationStatistics{}, err
	}

	if e.recorder != nil {
		e.recorder.CalculationStarted()
		defer e.recorder.CalculationFinished()
	}

	// Mass loss = duration × |melting rate|, non-negative regardless of the
	// stored sign convention.
	massLoss := seconds * math.Abs(constants.MeltingRateKgPerSecond)

	finalSize := constants.SizeKm2 - massLoss
	if finalSize < 0 && e.logger != nil {
		e.logger.Warnf("implausible final size %.2f for %s over %s; returning as-is",
			finalSize, constants.DisplayName, period)
	}

	return VisualizationStatistics{
		MeltingRateKgPerSecond: constants.MeltingRateKgPerSecond,
		MassLossKg:             massLoss,
		InitialSizeKm2:         constants.SizeKm2,
		FinalSizeKm2:           finalSize,
		IceSheetName:           constants.DisplayName,
		Period:                 period,
	}, nil
}
