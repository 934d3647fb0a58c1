package param

import (
	"testing"
)

func TestParameterNormalization(t *testing.T) {
	p := New(1, "Cutoff").Range(20, 20000).Default(1000).Build()

	if got := p.Plain(); got < 999 || got > 1001 {
		t.Errorf("default plain value: got %f", got)
	}

	p.SetPlain(20000)
	if p.Value() != 1.0 {
		t.Errorf("max should normalize to 1, got %f", p.Value())
	}

	p.SetPlain(-5)
	if p.Value() != 0 {
		t.Errorf("below-range clamps to 0, got %f", p.Value())
	}
}

func TestDiscreteSteps(t *testing.T) {
	p := New(2, "Wave").Options("SAW", "SQUARE", "PULSE", "TRIANGLE").Build()

	p.SetStep(2)
	if p.Step() != 2 {
		t.Errorf("step: got %d", p.Step())
	}
	if p.DisplayString() != "PULSE" {
		t.Errorf("display: got %q", p.DisplayString())
	}

	p.SetStep(99)
	if p.Step() != 3 {
		t.Errorf("step should clamp to last option, got %d", p.Step())
	}
}

func TestParseOptionName(t *testing.T) {
	p := New(3, "Mode").Options("MONO", "POLY", "UNISON").Build()
	v, err := p.Parse("POLY")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p.SetValue(v)
	if p.Step() != 1 {
		t.Errorf("parsed step: got %d", p.Step())
	}
}

func TestFormatter(t *testing.T) {
	p := New(4, "Rate").Range(0.01, 20).Default(5).
		Formatter(FrequencyFormatter, FrequencyParser).Build()
	if got := p.DisplayString(); got != "5.0 Hz" {
		t.Errorf("display: got %q", got)
	}
	v, err := p.Parse("2 kHz")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v != 1.0 {
		t.Errorf("2 kHz exceeds range, should clamp to 1, got %f", v)
	}
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	a := New(10, "A").Build()
	b := New(11, "B").Build()
	r.Add(a, b)
	r.Add(a) // duplicate ignored

	if r.Count() != 2 {
		t.Errorf("count: got %d", r.Count())
	}
	if r.ByIndex(0) != a || r.ByIndex(1) != b {
		t.Error("panel order not preserved")
	}
	if r.Get(11) != b {
		t.Error("lookup by ID failed")
	}
	if r.ByIndex(5) != nil {
		t.Error("out-of-range index should return nil")
	}
}

func TestSmootherLinear(t *testing.T) {
	s := NewSmoother(LinearSmoothing, 10)
	s.Reset(0)
	s.SetTarget(1.0)

	var last float64
	for i := 0; i < 10; i++ {
		last = s.Next()
	}
	if last != 1.0 {
		t.Errorf("linear smoother should reach target in rate samples, got %f", last)
	}
	if s.IsSmoothing() {
		t.Error("smoother should settle at target")
	}
}

func TestSmootherExponentialConverges(t *testing.T) {
	s := NewSmoother(ExponentialSmoothing, 0.99)
	s.Reset(0)
	s.SetTarget(1.0)
	var v float64
	for i := 0; i < 2000; i++ {
		v = s.Next()
	}
	if v != 1.0 {
		t.Errorf("exponential smoother should converge, got %f", v)
	}
}

func TestHubAmountsIndependent(t *testing.T) {
	h := NewHub()

	h.Select(HubLFOToVCF)
	h.SetAmount(0.8)
	h.Select(HubEnvToPWM)
	h.SetAmount(0.3)

	// Switching the selection must not clobber other amounts.
	if got := h.Amount(HubLFOToVCF); got != 0.8 {
		t.Errorf("LFO>VCF amount changed: got %f", got)
	}
	if got := h.Amount(HubEnvToPWM); got != 0.3 {
		t.Errorf("ENV>PWM amount: got %f", got)
	}
	for d := HubDestination(0); d < HubDestinationCount; d++ {
		if d == HubLFOToVCF || d == HubEnvToPWM {
			continue
		}
		if h.Amount(d) != 0 {
			t.Errorf("untouched destination %v has amount %f", d, h.Amount(d))
		}
	}
}

func TestHubDisplayStable(t *testing.T) {
	h := NewHub()
	h.Select(HubHPF)
	h.SetAmount(0.5)

	first := h.DisplayString(HubHPF)
	second := h.DisplayString(HubHPF)
	if first != second {
		t.Errorf("display string unstable: %q vs %q", first, second)
	}
	if first != "HPF 50%" {
		t.Errorf("display: got %q", first)
	}

	h.SetAmount(0.75)
	if got := h.DisplayString(HubHPF); got != "HPF 75%" {
		t.Errorf("display after change: got %q", got)
	}
}

func TestDefaultBeforeRange(t *testing.T) {
	// The default is resolved against the final range, not the builder's
	// initial [0,1].
	p := New(5, "Mix").Default(50).Range(0, 100).Build()
	if got := p.Plain(); got < 49.5 || got > 50.5 {
		t.Errorf("default plain value: got %f, want 50", got)
	}

	q := New(6, "Mix").Range(0, 100).Default(50).Build()
	if p.Value() != q.Value() {
		t.Errorf("builder call order changed the default: %f vs %f", p.Value(), q.Value())
	}
}
