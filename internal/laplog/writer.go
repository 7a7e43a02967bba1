// Package laplog appends completed laps to the session's CSV log.
package laplog

import (
	"fmt"
	"os"

	"laptimer-ng/internal/lap"
	"laptimer-ng/internal/view"
)

// Header is written once per session, before any lap rows.
const Header = "LAPCount,LapTime,TopSpeed,YYYY/MM/DD/Hour:Minute:Second"

// Writer is the append-only lap log sink. One row per completed lap:
// ordinal, duration in seconds, top speed since the prior lap in km/h, and
// the local-time completion stamp.
type Writer struct {
	f *os.File
}

// Open appends to path, creating it if needed, and writes the session
// header.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("laplog open %s: %w", path, err)
	}
	if _, err := fmt.Fprintln(f, Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("laplog header: %w", err)
	}
	return &Writer{f: f}, nil
}

// Append writes one lap row. The clock is the shifted wall clock at
// completion, not the raw UTC fix time.
func (w *Writer) Append(rec lap.Record, clock view.WallClock) error {
	if w == nil || w.f == nil {
		return fmt.Errorf("laplog writer is closed")
	}
	_, err := fmt.Fprintf(w.f, "%d,%.2f,%.2f,%s\n",
		rec.Lap, rec.Duration.Seconds(), rec.TopSpeedKmh, clock)
	if err != nil {
		return fmt.Errorf("laplog append: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	if w == nil || w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}
