package replay

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Stream plays a recorded session back as a raw byte source, interchangeable
// with the live serial stream.
type Stream struct {
	records []Record
	speed   float64
	loop    bool

	data   chan []byte
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	lastErr error
}

func NewStream(path string, speed float64, loop bool) (*Stream, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("replay speed must be > 0, got %g", speed)
	}
	recs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Stream{
		records: recs,
		speed:   speed,
		loop:    loop,
		data:    make(chan []byte, 64),
	}, nil
}

// Bytes returns the channel carrying replayed sentence bytes. The channel is
// closed when playback finishes or the stream is stopped.
func (s *Stream) Bytes() <-chan []byte { return s.data }

func (s *Stream) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	log.Printf("replay enabled records=%d speed=%g loop=%v", len(s.records), s.speed, s.loop)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.data)
		err := Play(s.records, s.speed, s.loop, ctxSleeper{ctx}, func(sentence string) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b := make([]byte, 0, len(sentence)+2)
			b = append(b, sentence...)
			b = append(b, '\r', '\n')
			select {
			case s.data <- b:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			s.mu.Lock()
			s.lastErr = err
			s.mu.Unlock()
			log.Printf("replay error=%v", err)
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

func (s *Stream) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ctxSleeper cuts a pending wait short when the context is cancelled; the
// playback callback then observes the cancellation and stops.
type ctxSleeper struct {
	ctx context.Context
}

func (cs ctxSleeper) Sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-cs.ctx.Done():
	}
}
