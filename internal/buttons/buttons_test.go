package buttons

import "testing"

func TestFuncProvider(t *testing.T) {
	p := Func(func() Signals { return Signals{ForceLap: true} })
	if s := p.Read(); !s.ForceLap || s.SetOrigin || s.CycleRadius {
		t.Fatalf("unexpected signals %+v", s)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNoneProvider(t *testing.T) {
	if s := None.Read(); s != (Signals{}) {
		t.Fatalf("None must read released: %+v", s)
	}
}
