// Package gps decodes the NMEA byte stream of a serial GNSS receiver into
// position fixes for the lap timer.
//
// The decoder is deliberately small and lenient:
// - RMC carries position/time/speed/date, gated on the receiver's validity flag
// - GGA carries position/time/satellites/altitude and is applied as-is
// - every other sentence type passes framing and checksum, then is ignored
package gps
