// Package view assembles the per-refresh presentation tuple. Rendering and
// layout belong entirely to the sinks consuming it (web, UDP, console).
package view

import (
	"fmt"
	"time"

	"laptimer-ng/internal/gps"
	"laptimer-ng/internal/lap"
)

// WallClock is the receiver's UTC date/time shifted into the local zone.
// The shift carries into the day only; month and year never roll over. The
// fields are therefore not guaranteed to form a valid calendar date and are
// kept as plain integers.
type WallClock struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// ShiftClock applies offsetHours to the fix's UTC time of day.
func ShiftClock(fix gps.Fix, offsetHours int) WallClock {
	h := fix.Hour + offsetHours
	d := fix.Day
	if h >= 24 {
		d += h / 24
		h = h % 24
	}
	return WallClock{
		Year:   fix.Year,
		Month:  fix.Month,
		Day:    d,
		Hour:   h,
		Minute: fix.Minute,
		Second: fix.Second,
	}
}

func (c WallClock) String() string {
	return fmt.Sprintf("%04d/%02d/%02d-%02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// Snapshot is the full presentation tuple delivered once per refresh.
type Snapshot struct {
	Clock      WallClock `json:"clock"`
	ClockText  string    `json:"clock_text"`
	Satellites int       `json:"satellites"`

	LapCount   int     `json:"lap_count"`
	CurrentLap int     `json:"current_lap,omitempty"`
	ElapsedSec float64 `json:"elapsed_sec"`

	LastLapSec float64 `json:"last_lap_sec,omitempty"`
	DeltaSec   float64 `json:"delta_sec"`
	HasDelta   bool    `json:"has_delta"`

	BestLap    int     `json:"best_lap,omitempty"`
	BestSec    float64 `json:"best_sec,omitempty"`
	HasBest    bool    `json:"has_best"`
	AverageSec float64 `json:"average_sec,omitempty"`
	HasAverage bool    `json:"has_average"`

	SpeedKmh  float64 `json:"speed_kmh"`
	DistanceM float64 `json:"distance_m"`
	RadiusM   float64 `json:"radius_m"`
}

// Build combines the current fix, distance sample, and timer stats.
func Build(now time.Time, fix gps.Fix, distanceM float64, st lap.Stats, offsetHours int) Snapshot {
	clock := ShiftClock(fix, offsetHours)
	s := Snapshot{
		Clock:      clock,
		ClockText:  clock.String(),
		Satellites: fix.Satellites,
		LapCount:   st.Laps,
		SpeedKmh:   fix.SpeedKmh,
		DistanceM:  distanceM,
		RadiusM:    st.RadiusM,
	}

	if st.Laps > 0 {
		s.CurrentLap = st.Laps
		s.ElapsedSec = now.Sub(st.LastStart).Seconds()
	}
	if len(st.History) > 0 {
		s.LastLapSec = st.History[0].Seconds()
	}
	if len(st.History) > 1 {
		s.DeltaSec = (st.History[0] - st.History[1]).Seconds()
		s.HasDelta = true
	}
	if st.Best > 0 {
		s.BestLap = st.BestLap
		s.BestSec = st.Best.Seconds()
		s.HasBest = true
	}
	if st.Average > 0 {
		s.AverageSec = st.Average.Seconds()
		s.HasAverage = true
	}
	return s
}
