//go:build linux && (arm || arm64)

package buttons

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// OpenGPIO requests the three button lines as inputs on the Linux GPIO
// character device.
func OpenGPIO(cfg Config) (Provider, error) {
	chipPath := cfg.Chip
	if chipPath == "" {
		chipPath = "/dev/gpiochip0"
	}

	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("buttons: open %s: %w", chipPath, err)
	}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithConsumer("laptimer-ng-buttons"),
	}
	if cfg.ActiveLow {
		opts = append(opts, gpiocdev.WithPullUp)
	}

	p := &gpioProvider{chip: chip, activeLow: cfg.ActiveLow}
	for _, req := range []struct {
		offset int
		dst    **gpiocdev.Line
	}{
		{cfg.SetOriginLine, &p.setOrigin},
		{cfg.CycleRadiusLine, &p.cycleRadius},
		{cfg.ForceLapLine, &p.forceLap},
	} {
		line, err := chip.RequestLine(req.offset, opts...)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("buttons: request line %d: %w", req.offset, err)
		}
		*req.dst = line
	}
	return p, nil
}

type gpioProvider struct {
	chip      *gpiocdev.Chip
	activeLow bool

	setOrigin   *gpiocdev.Line
	cycleRadius *gpiocdev.Line
	forceLap    *gpiocdev.Line
}

func (p *gpioProvider) Read() Signals {
	return Signals{
		SetOrigin:   p.pressed(p.setOrigin),
		CycleRadius: p.pressed(p.cycleRadius),
		ForceLap:    p.pressed(p.forceLap),
	}
}

// pressed reads one line; a read error counts as released.
func (p *gpioProvider) pressed(line *gpiocdev.Line) bool {
	if line == nil {
		return false
	}
	v, err := line.Value()
	if err != nil {
		return false
	}
	if p.activeLow {
		return v == 0
	}
	return v != 0
}

func (p *gpioProvider) Close() error {
	var first error
	for _, line := range []*gpiocdev.Line{p.setOrigin, p.cycleRadius, p.forceLap} {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.setOrigin, p.cycleRadius, p.forceLap = nil, nil, nil
	if p.chip != nil {
		_ = p.chip.Close()
		p.chip = nil
	}
	return first
}
