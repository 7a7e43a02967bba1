package gps

import (
	"math"
	"strconv"
)

// knotsToKmh converts speed over ground as reported by RMC.
const knotsToKmh = 1.852

// Fix is the most recently decoded position/time/speed snapshot. A parse
// pass updates only the fields its sentence carries; a rejected sentence
// never touches it.
type Fix struct {
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`

	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`

	// Time of day, UTC.
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`

	SpeedKmh   float64 `json:"speed_kmh"`
	AltitudeM  float64 `json:"altitude_m"`
	Satellites int     `json:"satellites"`
}

// Decoder turns a raw receiver byte stream into Fix updates.
type Decoder struct {
	frame frameBuffer
	fix   Fix
}

// Feed consumes one byte and reports whether it terminated a frame
// (accepted or not). Malformed and unsupported frames are dropped silently;
// the only observable outcome of a bad frame is that Fix did not change.
func (d *Decoder) Feed(b byte) bool {
	_, complete := d.FeedFrame(b)
	return complete
}

// FeedFrame is Feed plus access to the raw sentence the byte completed, for
// callers that record the stream. The returned slice aliases the internal
// frame buffer and is only valid until the next byte is fed.
func (d *Decoder) FeedFrame(b byte) ([]byte, bool) {
	line, complete := d.frame.feed(b)
	if !complete {
		return nil, false
	}
	payload, ok := validateSentence(line)
	if !ok {
		return line, true
	}
	fields := splitFields(payload)
	switch classify(fields[0]) {
	case kindRMC:
		d.fix.applyRMC(fields)
	case kindGGA:
		d.fix.applyGGA(fields)
	}
	return line, true
}

// Fix returns the current fix.
func (d *Decoder) Fix() Fix {
	return d.fix
}

// RMC: Recommended Minimum Specific GNSS Data
//
//	0: talker+type
//	1: time (hhmmss.sss)
//	2: status (A=active, V=void)
//	3: latitude (ddmm.mmmm)
//	4: N/S
//	5: longitude (dddmm.mmmm)
//	6: E/W
//	7: speed over ground (knots)
//	8: course over ground (deg)
//	9: date (ddmmyy)
func (x *Fix) applyRMC(f []string) {
	if len(f) < 10 {
		return
	}
	// The receiver's own validity flag gates the whole sentence: a void fix
	// must not disturb a good prior one.
	if len(f[2]) == 0 || f[2][0] != 'A' {
		return
	}
	x.applyTime(f[1])
	x.applyLatLon(f[3], f[4], f[5], f[6])

	knots := 0.0
	if f[7] != "" {
		knots, _ = strconv.ParseFloat(f[7], 64)
	}
	x.SpeedKmh = knots * knotsToKmh

	x.applyDate(f[9])
}

// GGA: Global Positioning System Fix Data
//
//	0: talker+type
//	1: time
//	2: latitude
//	3: N/S
//	4: longitude
//	5: E/W
//	6: fix quality
//	7: number of satellites
//	8: HDOP
//	9: altitude (meters)
//
// Unlike RMC there is no quality gate: position/time/satellites/altitude are
// applied regardless of field 6.
func (x *Fix) applyGGA(f []string) {
	if len(f) < 10 {
		return
	}
	x.applyTime(f[1])
	x.applyLatLon(f[2], f[3], f[4], f[5])

	if f[7] != "" {
		if v, err := strconv.Atoi(f[7]); err == nil {
			x.Satellites = v
		}
	}
	if f[9] != "" {
		if v, err := strconv.ParseFloat(f[9], 64); err == nil {
			x.AltitudeM = v
		}
	}
}

// applyTime reads the first six characters as hhmmss. Fractional seconds are
// ignored and out-of-range values pass through unchanged.
func (x *Fix) applyTime(s string) {
	if len(s) < 6 {
		return
	}
	h, _ := strconv.Atoi(s[0:2])
	m, _ := strconv.Atoi(s[2:4])
	sec, _ := strconv.Atoi(s[4:6])
	x.Hour, x.Minute, x.Second = h, m, sec
}

// applyDate reads ddmmyy with a fixed century pivot: 80..99 map to 19xx,
// everything else to 20xx.
func (x *Fix) applyDate(s string) {
	if len(s) < 6 {
		return
	}
	d, _ := strconv.Atoi(s[0:2])
	m, _ := strconv.Atoi(s[2:4])
	y, _ := strconv.Atoi(s[4:6])
	if y >= 80 {
		y += 1900
	} else {
		y += 2000
	}
	x.Day, x.Month, x.Year = d, m, y
}

// applyLatLon updates position. Both coordinate strings must be present or
// neither axis is touched.
func (x *Fix) applyLatLon(lat, ns, lon, ew string) {
	if lat == "" || lon == "" {
		return
	}
	la := coordToDeg(lat)
	lo := coordToDeg(lon)
	if len(ns) > 0 && ns[0] == 'S' {
		la = -la
	}
	if len(ew) > 0 && ew[0] == 'W' {
		lo = -lo
	}
	x.LatDeg = la
	x.LonDeg = lo
}

// coordToDeg converts ddmm.mmmm / dddmm.mmmm to decimal degrees: everything
// above the last two integer digits is degrees, the remainder is minutes.
func coordToDeg(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	deg := math.Trunc(v / 100)
	return deg + (v-deg*100)/60
}
