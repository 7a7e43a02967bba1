// Package buttons samples the three manual input signals of the timer.
package buttons

// Signals are the "currently pressed" states sampled once per tick.
// Set-origin and force-lap are consumed as level signals; cycle-radius edge
// detection happens inside the lap counter.
type Signals struct {
	SetOrigin   bool
	CycleRadius bool
	ForceLap    bool
}

// Provider reads the current button state. Read is called every tick and
// must not block.
type Provider interface {
	Read() Signals
	Close() error
}

// Config selects the GPIO lines backing the buttons.
type Config struct {
	Chip            string
	SetOriginLine   int
	CycleRadiusLine int
	ForceLapLine    int

	// ActiveLow treats a low line as pressed (buttons to ground with
	// pull-ups), the common wiring.
	ActiveLow bool
}

// Func adapts a function to a Provider, for simulators and tests.
type Func func() Signals

func (f Func) Read() Signals {
	if f == nil {
		return Signals{}
	}
	return f()
}

func (f Func) Close() error { return nil }

// None is a Provider with no buttons attached.
var None Provider = Func(nil)
