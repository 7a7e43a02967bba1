package web

import (
	"sync"
	"sync/atomic"
	"time"

	"laptimer-ng/internal/lap"
	"laptimer-ng/internal/view"
)

// Status is the shared state behind /api/status. Writers are the runtime tick
// loop; readers are HTTP handlers. Safe for concurrent use.
type Status struct {
	startUnixNano int64
	ticks         uint64
	live          atomic.Value // view.Snapshot

	mu      sync.Mutex
	records []LapRecord
}

// LapRecord is a completed lap as shown to API clients.
type LapRecord struct {
	Lap         int     `json:"lap"`
	DurationSec float64 `json:"duration_sec"`
	TopSpeedKmh float64 `json:"top_speed_kmh"`
	CompletedAt string  `json:"completed_at"`
}

const maxRecordsKept = 64

func NewStatus() *Status {
	s := &Status{}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	s.live.Store(view.Snapshot{})
	return s
}

// Publish stores the latest display snapshot.
func (s *Status) Publish(snap view.Snapshot) {
	s.live.Store(snap)
	atomic.AddUint64(&s.ticks, 1)
}

// AddLap appends a completed lap to the session record list.
func (s *Status) AddLap(rec lap.Record, clock view.WallClock) {
	lr := LapRecord{
		Lap:         rec.Lap,
		DurationSec: rec.Duration.Seconds(),
		TopSpeedKmh: rec.TopSpeedKmh,
		CompletedAt: clock.String(),
	}
	s.mu.Lock()
	s.records = append(s.records, lr)
	if len(s.records) > maxRecordsKept {
		s.records = s.records[len(s.records)-maxRecordsKept:]
	}
	s.mu.Unlock()
}

type StatusSnapshot struct {
	Service   string        `json:"service"`
	NowUTC    string        `json:"now_utc"`
	UptimeSec int64         `json:"uptime_sec"`
	Ticks     uint64        `json:"ticks"`
	Live      view.Snapshot `json:"live"`
	Laps      []LapRecord   `json:"laps"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()

	s.mu.Lock()
	laps := make([]LapRecord, len(s.records))
	copy(laps, s.records)
	s.mu.Unlock()

	return StatusSnapshot{
		Service:   "laptimer-ng",
		NowUTC:    nowUTC.UTC().Format(time.RFC3339Nano),
		UptimeSec: int64(nowUTC.Sub(start).Seconds()),
		Ticks:     atomic.LoadUint64(&s.ticks),
		Live:      s.live.Load().(view.Snapshot),
		Laps:      laps,
	}
}
