package view

import (
	"testing"
	"time"

	"laptimer-ng/internal/gps"
	"laptimer-ng/internal/lap"
)

func TestShiftClock_DayCarryOnly(t *testing.T) {
	fix := gps.Fix{Year: 2024, Month: 5, Day: 31, Hour: 23, Minute: 59, Second: 58}
	c := ShiftClock(fix, 9)
	if c.Hour != 8 {
		t.Fatalf("hour=%d want 8", c.Hour)
	}
	// The carry is deliberately day-only: no month/year rollover.
	if c.Day != 32 || c.Month != 5 || c.Year != 2024 {
		t.Fatalf("got %s, want day-only carry", c)
	}
}

func TestShiftClock_NoCarry(t *testing.T) {
	fix := gps.Fix{Year: 2024, Month: 3, Day: 10, Hour: 5, Minute: 1, Second: 2}
	c := ShiftClock(fix, 9)
	if c.Hour != 14 || c.Day != 10 {
		t.Fatalf("got %s", c)
	}
	if c.String() != "2024/03/10-14:01:02" {
		t.Fatalf("format %q", c.String())
	}
}

func TestBuild_Fields(t *testing.T) {
	now := time.Date(2024, 5, 3, 12, 2, 0, 0, time.UTC)
	fix := gps.Fix{Satellites: 9, SpeedKmh: 42.5}
	st := lap.Stats{
		Laps:      3,
		RadiusM:   10,
		LastStart: now.Add(-25 * time.Second),
		History:   []time.Duration{80 * time.Second, 85 * time.Second},
		Best:      80 * time.Second,
		BestLap:   2,
		Average:   82500 * time.Millisecond,
	}
	s := Build(now, fix, 3.2, st, 9)

	if s.CurrentLap != 3 || s.ElapsedSec != 25 {
		t.Fatalf("current lap %d elapsed %v", s.CurrentLap, s.ElapsedSec)
	}
	if s.LastLapSec != 80 {
		t.Fatalf("last=%v", s.LastLapSec)
	}
	if !s.HasDelta || s.DeltaSec != -5 {
		t.Fatalf("delta=%v has=%v", s.DeltaSec, s.HasDelta)
	}
	if !s.HasBest || s.BestLap != 2 || s.BestSec != 80 {
		t.Fatalf("best=%v(#%d)", s.BestSec, s.BestLap)
	}
	if !s.HasAverage || s.AverageSec != 82.5 {
		t.Fatalf("avg=%v", s.AverageSec)
	}
	if s.Satellites != 9 || s.SpeedKmh != 42.5 || s.DistanceM != 3.2 || s.RadiusM != 10 {
		t.Fatalf("snapshot %+v", s)
	}
}

func TestBuild_BeforeFirstCrossing(t *testing.T) {
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	s := Build(now, gps.Fix{}, 0, lap.Stats{LastStart: now.Add(-5 * time.Second)}, 9)
	if s.CurrentLap != 0 || s.ElapsedSec != 0 {
		t.Fatalf("no lap in progress expected: %+v", s)
	}
	if s.HasBest || s.HasAverage || s.HasDelta {
		t.Fatalf("derived stats must be hidden before laps complete: %+v", s)
	}
}
