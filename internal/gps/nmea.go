package gps

import (
	"bytes"
	"strings"
)

// maxFields caps how many comma-separated fields a sentence may carry;
// anything beyond is dropped.
const maxFields = 24

// validateSentence verifies the checksum trailer of an accumulated frame and
// returns the payload between '$' and '*'. The checksum and anything after
// it is discarded.
func validateSentence(line []byte) (string, bool) {
	if len(line) == 0 || line[0] != '$' {
		return "", false
	}
	body := line[1:]
	star := bytes.IndexByte(body, '*')
	if star <= 0 {
		// Missing trailer, or nothing before it.
		return "", false
	}
	trailer := body[star+1:]
	if len(trailer) < 2 {
		return "", false
	}

	payload := body[:star]
	sum := byte(0)
	for _, b := range payload {
		sum ^= b
	}
	if sum != hexNibble(trailer[0])<<4|hexNibble(trailer[1]) {
		return "", false
	}
	return string(payload), true
}

// hexNibble decodes one hex digit, case-insensitive. Non-hex input degrades
// to zero rather than failing; a corrupted trailer then simply fails the
// checksum comparison.
func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return 0
}

// splitFields splits a validated payload on commas, keeping at most
// maxFields fields.
func splitFields(payload string) []string {
	fields := strings.SplitN(payload, ",", maxFields+1)
	if len(fields) > maxFields {
		// The overflow piece holds everything past field 24; drop it.
		fields = fields[:maxFields]
	}
	return fields
}

type sentenceKind int

const (
	kindUnsupported sentenceKind = iota
	kindRMC
	kindGGA
)

// classify keys on the last three characters of the type field so any
// talker prefix (GP, GN, BD, ...) is accepted.
func classify(typeField string) sentenceKind {
	if len(typeField) < 3 {
		return kindUnsupported
	}
	switch typeField[len(typeField)-3:] {
	case "RMC":
		return kindRMC
	case "GGA":
		return kindGGA
	}
	return kindUnsupported
}
