// Package lap implements the debounced lap-crossing detector and its
// derived statistics.
package lap

import "time"

const (
	// Trigger radius ladder: 0,5,...,50 m, cyclic.
	radiusStepM = 5.0
	radiusMaxM  = 50.0

	defaultDebounce = 10 * time.Second
)

// Record describes one completed lap. It is emitted exactly once per
// qualifying crossing, starting with the second crossing (the first only
// opens the lap).
type Record struct {
	Lap         int
	Duration    time.Duration
	TopSpeedKmh float64
	CompletedAt time.Time
}

// Input is one tick's worth of lap evaluation inputs. ForceLap is a level
// signal; CycleRadius is a level signal edge-detected inside the counter.
type Input struct {
	Now         time.Time
	DistanceM   float64
	SpeedKmh    float64
	ForceLap    bool
	CycleRadius bool
}

// Stats is a read-only view of the timer state for presentation.
type Stats struct {
	Laps      int
	Armed     bool
	RadiusM   float64
	TopSpeed  float64
	Best      time.Duration
	BestLap   int
	Average   time.Duration
	Sum       time.Duration
	LastStart time.Time
	History   []time.Duration
}

// Counter is the lap-crossing state machine. Armed means the current entry
// into the trigger zone has already been counted; the zone must be left
// (distance >= radius, force released) before the next crossing can count.
//
// All timing flows through Input.Now; the counter never reads the wall
// clock itself.
type Counter struct {
	debounce time.Duration

	radiusM     float64
	radiusLatch bool

	armed     bool
	laps      int
	lastStart time.Time

	topSpeed float64
	sum      time.Duration
	average  time.Duration
	best     time.Duration
	bestLap  int

	history History
}

// NewCounter starts unarmed with zero laps. The debounce window is measured
// from start until the first crossing, so a crossing cannot be counted in
// the first window after power-on.
func NewCounter(start time.Time, radiusM float64, debounce time.Duration) *Counter {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Counter{
		debounce:  debounce,
		radiusM:   radiusM,
		lastStart: start,
	}
}

// Tick evaluates one processing tick and returns a Record when a lap
// completed. At most one lap can be counted per tick.
func (c *Counter) Tick(in Input) (Record, bool) {
	// Top-speed accumulator runs continuously, independent of transitions.
	if in.SpeedKmh > c.topSpeed {
		c.topSpeed = in.SpeedKmh
	}

	c.cycleRadius(in.CycleRadius)

	// Rearm: leaving the trigger zone. Holding force-lap suppresses this,
	// preserved verbatim from the device firmware.
	if c.armed && in.DistanceM >= c.radiusM && !in.ForceLap {
		c.armed = false
	}

	inZone := in.DistanceM != 0 && in.DistanceM <= c.radiusM
	if c.armed || (!inZone && !in.ForceLap) {
		return Record{}, false
	}
	if in.Now.Sub(c.lastStart) <= c.debounce {
		// A single physical crossing straddles several ticks; the window
		// keeps it from registering more than once.
		return Record{}, false
	}

	if c.laps == 0 {
		// First crossing opens lap 1; nothing to record yet.
		c.lastStart = in.Now
		c.laps++
		c.armed = true
		return Record{}, false
	}

	duration := in.Now.Sub(c.lastStart)
	c.history.Push(duration)
	if c.best == 0 || duration < c.best {
		c.best = duration
		c.bestLap = c.laps
	}
	c.sum += duration
	if c.laps > 1 {
		c.average = c.sum / time.Duration(c.laps)
	}

	rec := Record{
		Lap:         c.laps,
		Duration:    duration,
		TopSpeedKmh: c.topSpeed,
		CompletedAt: in.Now,
	}
	c.topSpeed = 0
	c.lastStart = in.Now
	c.laps++
	c.armed = true
	return rec, true
}

// cycleRadius advances the trigger radius one ladder step per discrete
// press: 0,5,...,50 then back to 0. The latch holds while the button stays
// down so a held press only steps once.
func (c *Counter) cycleRadius(pressed bool) {
	if !pressed {
		c.radiusLatch = false
		return
	}
	if c.radiusLatch {
		return
	}
	c.radiusLatch = true
	if c.radiusM >= radiusMaxM {
		c.radiusM = 0
		return
	}
	c.radiusM += radiusStepM
}

// Elapsed is the time since the current lap started. It is only meaningful
// once the first crossing has been counted.
func (c *Counter) Elapsed(now time.Time) time.Duration {
	return now.Sub(c.lastStart)
}

// RadiusM returns the current trigger radius.
func (c *Counter) RadiusM() float64 {
	return c.radiusM
}

// Stats snapshots the timer state for the presentation tuple.
func (c *Counter) Stats() Stats {
	return Stats{
		Laps:      c.laps,
		Armed:     c.armed,
		RadiusM:   c.radiusM,
		TopSpeed:  c.topSpeed,
		Best:      c.best,
		BestLap:   c.bestLap,
		Average:   c.average,
		Sum:       c.sum,
		LastStart: c.lastStart,
		History:   c.history.Recent(),
	}
}
