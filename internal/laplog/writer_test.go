package laplog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"laptimer-ng/internal/lap"
	"laptimer-ng/internal/view"
)

func TestWriter_HeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LAP_log.csv")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	rec := lap.Record{
		Lap:         3,
		Duration:    83430 * time.Millisecond,
		TopSpeedKmh: 92.5,
	}
	clock := view.WallClock{Year: 2024, Month: 5, Day: 3, Hour: 14, Minute: 22, Second: 9}
	if err := w.Append(rec, clock); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header+1 row, got %d lines", len(lines))
	}
	if lines[0] != Header {
		t.Fatalf("header %q", lines[0])
	}
	if lines[1] != "3,83.43,92.50,2024/05/03-14:22:09" {
		t.Fatalf("row %q", lines[1])
	}
}

func TestWriter_AppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LAP_log.csv")
	for session := 0; session < 2; session++ {
		w, err := Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := w.Append(lap.Record{Lap: 1, Duration: 60 * time.Second}, view.WallClock{Year: 2024, Month: 1, Day: 1}); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	b, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	// Each session writes its own header, like the device firmware did.
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != Header || lines[2] != Header {
		t.Fatalf("missing per-session headers: %q", lines)
	}
}

func TestWriter_ClosedWriterFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LAP_log.csv")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = w.Close()
	if err := w.Append(lap.Record{Lap: 1}, view.WallClock{}); err == nil {
		t.Fatalf("expected error on closed writer")
	}
}
