package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"laptimer-ng/internal/buttons"
	"laptimer-ng/internal/config"
	"laptimer-ng/internal/geo"
	"laptimer-ng/internal/gps"
	"laptimer-ng/internal/lap"
	"laptimer-ng/internal/laplog"
	"laptimer-ng/internal/replay"
	"laptimer-ng/internal/sim"
	"laptimer-ng/internal/udp"
	"laptimer-ng/internal/view"
	"laptimer-ng/internal/web"
)

// byteSource is the receiver input stream: live serial, session replay, or
// the simulator. All three ship raw NMEA bytes the same way.
type byteSource interface {
	Bytes() <-chan []byte
	Start(ctx context.Context) error
}

const buttonPollInterval = 50 * time.Millisecond

// timerRuntime owns all mutable timer state. Every field below source is
// touched only from the Run loop goroutine.
type timerRuntime struct {
	cfg    config.Config
	source byteSource
	stop   func()

	dec     *gps.Decoder
	counter *lap.Counter

	originLat float64
	originLon float64

	btn    buttons.Provider
	levels buttons.Signals

	recorder  *replay.Writer
	lapWriter *laplog.Writer

	status *web.Status
	bcast  *web.SnapshotBroadcaster
	sender *udp.Broadcaster

	clock func() time.Time
}

func newTimerRuntime(cfg config.Config) (*timerRuntime, error) {
	r := &timerRuntime{
		cfg:       cfg,
		dec:       &gps.Decoder{},
		counter:   lap.NewCounter(time.Now(), cfg.Timer.RadiusM, cfg.Timer.Debounce),
		originLat: cfg.Timer.OriginLatDeg,
		originLon: cfg.Timer.OriginLonDeg,
		btn:       buttons.None,
		status:    web.NewStatus(),
		bcast:     web.NewSnapshotBroadcaster(),
		clock:     time.Now,
	}

	switch cfg.Input.Source {
	case "serial":
		s := gps.New(gps.Config{Device: cfg.Input.Serial.Device, Baud: cfg.Input.Serial.Baud})
		r.source = s
		r.stop = s.Close
	case "replay":
		s, err := replay.NewStream(cfg.Input.Replay.Path, cfg.Input.Replay.Speed, cfg.Input.Replay.Loop)
		if err != nil {
			return nil, fmt.Errorf("replay init failed: %w", err)
		}
		r.source = s
		r.stop = func() { _ = s.Close() }
	case "sim":
		s := sim.NewStream(sim.Track{
			OriginLatDeg: cfg.Timer.OriginLatDeg,
			OriginLonDeg: cfg.Timer.OriginLonDeg,
			RadiusM:      cfg.Input.Sim.RadiusM,
			LapPeriod:    cfg.Input.Sim.LapPeriod,
			Satellites:   cfg.Input.Sim.Satellites,
			AltitudeM:    cfg.Input.Sim.AltitudeM,
			Start:        time.Now(),
		}, time.Second)
		r.source = s
		r.stop = func() { _ = s.Close() }
	default:
		return nil, fmt.Errorf("unknown input source %q", cfg.Input.Source)
	}

	if cfg.Buttons.Enable {
		p, err := buttons.OpenGPIO(buttons.Config{
			Chip:            cfg.Buttons.Chip,
			SetOriginLine:   cfg.Buttons.SetOriginLine,
			CycleRadiusLine: cfg.Buttons.CycleRadiusLine,
			ForceLapLine:    cfg.Buttons.ForceLapLine,
			ActiveLow:       cfg.Buttons.ActiveLow,
		})
		if err != nil {
			// Keep the timer running even without buttons.
			log.Printf("buttons init failed: %v", err)
		} else {
			r.btn = p
			log.Printf("buttons enabled chip=%s", cfg.Buttons.Chip)
		}
	}

	if cfg.Record.Enable {
		w, err := replay.CreateWriter(cfg.Record.Path)
		if err != nil {
			r.closePartial()
			return nil, fmt.Errorf("record init failed: %w", err)
		}
		r.recorder = w
		log.Printf("record enabled path=%s", cfg.Record.Path)
	}

	if cfg.LapLog.Enable {
		w, err := laplog.Open(cfg.LapLog.Path)
		if err != nil {
			r.closePartial()
			return nil, fmt.Errorf("laplog init failed: %w", err)
		}
		r.lapWriter = w
		log.Printf("laplog enabled path=%s", cfg.LapLog.Path)
	}

	if cfg.UDP.Enable {
		b, err := udp.NewBroadcaster(cfg.UDP.Dest)
		if err != nil {
			r.closePartial()
			return nil, fmt.Errorf("udp broadcaster init failed: %w", err)
		}
		r.sender = b
		log.Printf("udp enabled dest=%s", cfg.UDP.Dest)
	}

	return r, nil
}

// Run drives the timer until the context is cancelled or a finite replay
// runs out of records.
func (r *timerRuntime) Run(ctx context.Context) error {
	if err := r.source.Start(ctx); err != nil {
		return err
	}

	display := time.NewTicker(r.cfg.Display.Refresh)
	defer display.Stop()
	btnTick := time.NewTicker(buttonPollInterval)
	defer btnTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok := <-r.source.Bytes():
			if !ok {
				// Replay exhausted; publish the final state and stop.
				r.publish(r.clock())
				return nil
			}
			r.consume(r.clock(), chunk)
		case <-btnTick.C:
			r.pollButtons(r.clock())
		case now := <-display.C:
			r.publish(now)
		}
	}
}

// consume feeds one raw chunk through the decoder, records completed
// sentences, and evaluates lap logic after every fix update.
func (r *timerRuntime) consume(now time.Time, chunk []byte) {
	for _, b := range chunk {
		frame, complete := r.dec.FeedFrame(b)
		if !complete {
			continue
		}
		if r.recorder != nil && len(frame) > 0 && frame[0] == '$' {
			if err := r.recorder.WriteSentence(now, string(frame)); err != nil {
				log.Printf("record write failed: %v", err)
			}
		}
		r.evaluate(now)
	}
}

// pollButtons samples the current button levels. All three are level
// signals: set-origin keeps pinning the origin to the fix while held, the
// other two flow into the counter.
func (r *timerRuntime) pollButtons(now time.Time) {
	sig := r.btn.Read()
	if sig.SetOrigin {
		fix := r.dec.Fix()
		if fix.LatDeg != r.originLat || fix.LonDeg != r.originLon {
			r.originLat = fix.LatDeg
			r.originLon = fix.LonDeg
			log.Printf("origin set lat=%.7f lon=%.7f", r.originLat, r.originLon)
		}
	}
	changed := sig != r.levels
	r.levels = sig
	if changed {
		r.evaluate(now)
	}
}

func (r *timerRuntime) evaluate(now time.Time) {
	fix := r.dec.Fix()
	dist := geo.Distance(r.originLat, r.originLon, fix.LatDeg, fix.LonDeg)
	rec, ok := r.counter.Tick(lap.Input{
		Now:         now,
		DistanceM:   dist,
		SpeedKmh:    fix.SpeedKmh,
		ForceLap:    r.levels.ForceLap,
		CycleRadius: r.levels.CycleRadius,
	})
	if ok {
		r.onLap(rec, fix)
	}
}

func (r *timerRuntime) onLap(rec lap.Record, fix gps.Fix) {
	clock := view.ShiftClock(fix, r.cfg.Timer.ClockOffsetHours)
	log.Printf("lap recorded lap=%d duration=%.2fs top_speed_kmh=%.2f", rec.Lap, rec.Duration.Seconds(), rec.TopSpeedKmh)
	if r.lapWriter != nil {
		if err := r.lapWriter.Append(rec, clock); err != nil {
			log.Printf("laplog append failed: %v", err)
		}
	}
	r.status.AddLap(rec, clock)
}

// publish pushes the presentation tuple to every enabled sink.
func (r *timerRuntime) publish(now time.Time) {
	fix := r.dec.Fix()
	dist := geo.Distance(r.originLat, r.originLon, fix.LatDeg, fix.LonDeg)
	snap := view.Build(now, fix, dist, r.counter.Stats(), r.cfg.Timer.ClockOffsetHours)
	r.status.Publish(snap)
	r.bcast.Publish(snap)
	if r.sender != nil {
		if err := r.sender.SendJSON(snap); err != nil {
			log.Printf("udp send failed: %v", err)
		}
	}
}

func (r *timerRuntime) closePartial() {
	if r.recorder != nil {
		_ = r.recorder.Close()
		r.recorder = nil
	}
	if r.lapWriter != nil {
		_ = r.lapWriter.Close()
		r.lapWriter = nil
	}
	if r.btn != nil {
		_ = r.btn.Close()
	}
}

func (r *timerRuntime) Close() {
	if r == nil {
		return
	}
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
	if r.sender != nil {
		_ = r.sender.Close()
		r.sender = nil
	}
	r.closePartial()
}
