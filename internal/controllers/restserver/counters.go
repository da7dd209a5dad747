package restserver

import "sync/atomic"

// Counters tracks request activity for the health endpoint. It implements
// icesheet.Recorder so the engine can record calculations without knowing
// anything about HTTP.
type Counters struct {
	calculations  atomic.Int64
	detailLookups atomic.Int64
	concurrent    atomic.Int64
}

// NewCounters creates a zeroed counter set
func NewCounters() *Counters {
	return &Counters{}
}

// DetailLookup records a served detail statistics lookup
func (c *Counters) DetailLookup() {
	c.detailLookups.Add(1)
}

// CalculationStarted records a mass loss calculation entering the engine
func (c *Counters) CalculationStarted() {
	c.calculations.Add(1)
	c.concurrent.Add(1)
}

// CalculationFinished records a mass loss calculation leaving the engine
func (c *Counters) CalculationFinished() {
	c.concurrent.Add(-1)
}

// CounterSnapshot is a point-in-time view of the counters
type CounterSnapshot struct {
	Calculations  int64
	DetailLookups int64
	Concurrent    int64
}

// Snapshot returns the current counter values. The fields are read
// individually and are not mutually consistent while requests are in
// flight.
func (c *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Calculations:  c.calculations.Load(),
		DetailLookups: c.detailLookups.Load(),
		Concurrent:    c.concurrent.Load(),
	}
}
