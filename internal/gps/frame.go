package gps

// frameCapacity bounds one accumulated sentence. NMEA sentences are
// typically < 82 chars; the headroom absorbs chatty receivers.
const frameCapacity = 160

// frameBuffer accumulates receiver bytes into one candidate sentence.
//
// '$' restarts accumulation, silently superseding an unterminated prior
// frame. CR is dropped. Bytes arriving once the buffer is full are discarded
// while accumulation continues; the eventual LF still hands the truncated
// buffer downstream, where the checksum comparison rejects it.
type frameBuffer struct {
	buf [frameCapacity]byte
	n   int
}

// feed consumes one byte. When b terminates a frame it returns the
// accumulated line and true. The returned slice aliases the internal buffer
// and is only valid until the next call.
func (f *frameBuffer) feed(b byte) ([]byte, bool) {
	if b == '\r' {
		return nil, false
	}
	if b == '$' {
		f.n = 0
	}
	if f.n < len(f.buf) {
		f.buf[f.n] = b
		f.n++
	}
	if b == '\n' {
		line := f.buf[:f.n]
		f.n = 0
		return line, true
	}
	return nil, false
}
