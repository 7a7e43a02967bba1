package sim

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

// Stream emits the simulated track's NMEA sentences once per second,
// interchangeable with the live serial stream.
type Stream struct {
	track    Track
	interval time.Duration

	data   chan []byte
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStream(track Track, interval time.Duration) *Stream {
	if interval <= 0 {
		interval = time.Second
	}
	return &Stream{
		track:    track,
		interval: interval,
		data:     make(chan []byte, 64),
	}
}

func (s *Stream) Bytes() <-chan []byte { return s.data }

func (s *Stream) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	log.Printf("sim enabled lap_period=%s radius_m=%.1f speed_kmh=%.1f",
		s.track.lapPeriod(), s.track.radiusM(), s.track.SpeedKmh())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.data)
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case now := <-t.C:
				chunk := []byte(strings.Join(s.track.Sentences(now), ""))
				select {
				case s.data <- chunk:
				default:
					// Consumer stalled; skip this second.
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *Stream) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}
