package gps

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Config controls the receiver input stream.
//
// Device may be empty to auto-detect (/dev/ttyACM*, /dev/ttyUSB*).
// Baud must be a rate supported by the platform implementation.
type Config struct {
	Device string
	Baud   int
}

// Snapshot reports stream health for the status surface.
type Snapshot struct {
	Device    string `json:"device,omitempty"`
	Baud      int    `json:"baud,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// Stream ships raw receiver bytes to the tick loop. The reader goroutine
// performs no parsing: all fix mutation belongs to the loop that owns the
// decoder, which drains Bytes() without blocking.
type Stream struct {
	cfg Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	data chan []byte

	mu      sync.Mutex
	closer  io.Closer
	device  string
	baud    int
	lastErr string
}

func New(cfg Config) *Stream {
	return &Stream{
		cfg:  cfg,
		data: make(chan []byte, 64),
	}
}

// Bytes is the channel of raw byte chunks read from the receiver.
func (s *Stream) Bytes() <-chan []byte {
	if s == nil {
		return nil
	}
	return s.data
}

func (s *Stream) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps stream is nil")
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	device := strings.TrimSpace(s.cfg.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			s.lastErr = "gps auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found"
			return fmt.Errorf("gps auto-detect failed")
		}
	}

	baud := s.cfg.Baud
	if baud == 0 {
		baud = 9600
	}

	f, err := openSerial(device, baud)
	if err != nil {
		s.lastErr = fmt.Sprintf("gps open failed device=%s baud=%d: %v", device, baud, err)
		return err
	}
	s.closer = f
	s.device = device
	s.baud = baud

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			_ = f.Close()
		}()

		log.Printf("gps enabled device=%s baud=%d", device, baud)

		buf := make([]byte, 512)
		for {
			select {
			case <-childCtx.Done():
				return
			default:
			}

			n, err := f.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case s.data <- chunk:
				case <-childCtx.Done():
					return
				}
			}
			if err != nil {
				if err == io.EOF {
					// Serial read timeout with no data; keep polling.
					time.Sleep(10 * time.Millisecond)
					continue
				}
				s.setError(fmt.Sprintf("gps read stopped: %v", err))
				return
			}
		}
	}()

	return nil
}

func (s *Stream) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

func (s *Stream) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Device: s.device, Baud: s.baud, LastError: s.lastErr}
}

func (s *Stream) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func autoDetectDevice() string {
	// Keep it intentionally tiny and predictable.
	candidates := []string{}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
