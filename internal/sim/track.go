// Package sim emits a synthetic receiver byte stream for development and
// tests without hardware.
package sim

import (
	"fmt"
	"math"
	"time"
)

// Track drives a simulated vehicle around a circular course that passes
// through the configured start/finish point once per lap period.
type Track struct {
	OriginLatDeg float64
	OriginLonDeg float64
	RadiusM      float64 // course radius
	LapPeriod    time.Duration
	Satellites   int
	AltitudeM    float64

	// Start anchors lap phase zero; the vehicle sits on the start/finish
	// line at Start and every LapPeriod after it.
	Start time.Time
}

const metersPerLatDeg = 111194.9

func (s Track) lapPeriod() time.Duration {
	if s.LapPeriod <= 0 {
		return 60 * time.Second
	}
	return s.LapPeriod
}

func (s Track) radiusM() float64 {
	if s.RadiusM <= 0 {
		return 200
	}
	return s.RadiusM
}

// Position returns the simulated position at now. The course is a circle of
// the configured radius tangent to the start/finish point, so distance from
// the origin sweeps from 0 up to the course diameter and back each lap.
func (s Track) Position(now time.Time) (latDeg, lonDeg float64) {
	period := s.lapPeriod()
	elapsed := now.Sub(s.Start) % period
	if elapsed < 0 {
		elapsed += period
	}
	phase := float64(elapsed) / float64(period)
	w := 2 * math.Pi * phase

	radiusDeg := s.radiusM() / metersPerLatDeg
	latDeg = s.OriginLatDeg + radiusDeg*(1-math.Cos(w))
	lonDeg = s.OriginLonDeg + radiusDeg*math.Sin(w)/math.Cos(s.OriginLatDeg*math.Pi/180)
	return latDeg, lonDeg
}

// SpeedKmh is constant around the course: circumference over lap period.
func (s Track) SpeedKmh() float64 {
	circumference := 2 * math.Pi * s.radiusM()
	return circumference / s.lapPeriod().Seconds() * 3.6
}

// Sentences returns the framed RMC and GGA sentences for the position at
// now, checksummed and CRLF-terminated.
func (s Track) Sentences(now time.Time) []string {
	lat, lon := s.Position(now)
	utc := now.UTC()

	timeField := fmt.Sprintf("%02d%02d%02d", utc.Hour(), utc.Minute(), utc.Second())
	dateField := fmt.Sprintf("%02d%02d%02d", utc.Day(), int(utc.Month()), utc.Year()%100)
	latField, ns := formatCoord(lat, 2)
	lonField, ew := formatCoord(lon, 3)
	knots := s.SpeedKmh() / 1.852

	sats := s.Satellites
	if sats <= 0 {
		sats = 10
	}

	rmc := fmt.Sprintf("GPRMC,%s,A,%s,%s,%s,%s,%05.1f,000.0,%s,,",
		timeField, latField, ns, lonField, ew, knots, dateField)
	gga := fmt.Sprintf("GPGGA,%s,%s,%s,%s,%s,1,%02d,0.9,%.1f,M,,M,,",
		timeField, latField, ns, lonField, ew, sats, s.AltitudeM)
	return []string{Sentence(rmc), Sentence(gga)}
}

// Sentence frames a payload as $<payload>*HH\r\n with its XOR checksum.
func Sentence(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X\r\n", payload, ck)
}

// formatCoord renders decimal degrees as NMEA ddmm.mmmm (degDigits=2 for
// latitude) or dddmm.mmmm (degDigits=3 for longitude) plus hemisphere.
func formatCoord(deg float64, degDigits int) (string, string) {
	hemi := "N"
	if degDigits == 3 {
		hemi = "E"
		if deg < 0 {
			hemi = "W"
		}
	} else if deg < 0 {
		hemi = "S"
	}
	deg = math.Abs(deg)
	d := math.Floor(deg)
	minutes := (deg - d) * 60
	return fmt.Sprintf("%0*d%07.4f", degDigits, int(d), minutes), hemi
}
