package filter

import (
	"math"
	"testing"

	"github.com/jovian-synth/jovian/pkg/dsp/analysis"
)

const testSampleRate = 48000.0

// noiseSource is a deterministic white noise generator for response tests.
type noiseSource struct{ seed uint32 }

func (n *noiseSource) next() float32 {
	n.seed = n.seed*1664525 + 1013904223
	return float32((n.seed>>9)&0x7fffff)/float32(0x7fffff)*2.0 - 1.0
}

func TestLowpassAttenuatesHighs(t *testing.T) {
	s := New(testSampleRate)
	s.SetMode(ModeLP12)
	s.SetCutoff(500.0)
	s.SetResonance(0.0)

	// A 8 kHz sine should come out much quieter than a 100 Hz sine.
	level := func(freq float64) float64 {
		s.Reset()
		var out []float32
		phase := 0.0
		for i := 0; i < 9600; i++ {
			in := float32(math.Sin(2 * math.Pi * phase))
			phase += freq / testSampleRate
			y := s.Process(in)
			if i >= 4800 {
				out = append(out, y)
			}
		}
		return analysis.RMS(out)
	}

	low := level(100.0)
	high := level(8000.0)
	if high > low*0.1 {
		t.Errorf("8 kHz not attenuated enough: low=%f high=%f", low, high)
	}
}

func TestHighpassAttenuatesLows(t *testing.T) {
	s := New(testSampleRate)
	s.SetMode(ModeHP12)
	s.SetCutoff(2000.0)
	s.SetResonance(0.0)

	var lowOut, highOut []float32
	phase := 0.0
	for i := 0; i < 9600; i++ {
		in := float32(math.Sin(2 * math.Pi * phase))
		phase += 100.0 / testSampleRate
		y := s.Process(in)
		if i >= 4800 {
			lowOut = append(lowOut, y)
		}
	}
	s.Reset()
	phase = 0.0
	for i := 0; i < 9600; i++ {
		in := float32(math.Sin(2 * math.Pi * phase))
		phase += 8000.0 / testSampleRate
		y := s.Process(in)
		if i >= 4800 {
			highOut = append(highOut, y)
		}
	}
	if analysis.RMS(lowOut) > analysis.RMS(highOut)*0.1 {
		t.Errorf("100 Hz not attenuated: low=%f high=%f",
			analysis.RMS(lowOut), analysis.RMS(highOut))
	}
}

func TestLP24SteeperThanLP12(t *testing.T) {
	measure := func(mode Mode) float64 {
		s := New(testSampleRate)
		s.SetMode(mode)
		s.SetCutoff(500.0)
		s.SetResonance(0.0)
		var out []float32
		phase := 0.0
		for i := 0; i < 9600; i++ {
			in := float32(math.Sin(2 * math.Pi * phase))
			phase += 4000.0 / testSampleRate
			y := s.Process(in)
			if i >= 4800 {
				out = append(out, y)
			}
		}
		return analysis.RMS(out)
	}
	lp12 := measure(ModeLP12)
	lp24 := measure(ModeLP24)
	if lp24 >= lp12 {
		t.Errorf("LP24 should attenuate more than LP12: lp12=%f lp24=%f", lp12, lp24)
	}
}

func TestStableAtMaxResonance(t *testing.T) {
	s := New(testSampleRate)
	s.SetMode(ModeLP12)
	s.SetResonance(1.0)

	src := &noiseSource{seed: 12345}
	for i := 0; i < 96000; i++ {
		// Sweep cutoff across the full range while driving with noise.
		hz := 20.0 + (testSampleRate*0.45-20.0)*float64(i)/96000.0
		s.SetCutoff(hz)
		y := float64(s.Process(src.next()))
		if math.IsNaN(y) || math.IsInf(y, 0) {
			t.Fatalf("filter blew up at sample %d", i)
		}
		if math.Abs(y) > stateClamp*2 {
			t.Fatalf("output %f beyond clamp at sample %d", y, i)
		}
	}
}

func TestCutoffClamping(t *testing.T) {
	s := New(testSampleRate)
	s.SetCutoff(5.0)
	if s.Cutoff() != minCutoff {
		t.Errorf("cutoff floor: got %f", s.Cutoff())
	}
	s.SetCutoff(100000.0)
	if s.Cutoff() != testSampleRate*0.45 {
		t.Errorf("cutoff ceiling: got %f", s.Cutoff())
	}
}

func TestCutoffEpsilonSkipsRecompute(t *testing.T) {
	s := New(testSampleRate)
	s.SetCutoff(1000.0)
	f := s.f
	s.SetCutoff(1000.5)
	if s.f != f {
		t.Error("sub-epsilon cutoff change should not recompute coefficient")
	}
	s.SetCutoff(1002.0)
	if s.f == f {
		t.Error("cutoff change beyond epsilon should recompute coefficient")
	}
}

func TestHPFRemovesDC(t *testing.T) {
	h := NewHPF(testSampleRate)
	h.SetAmount(0)
	var out float32
	for i := 0; i < 48000; i++ {
		out = h.Process(1.0)
	}
	if math.Abs(float64(out)) > 0.01 {
		t.Errorf("DC should decay to zero, got %f", out)
	}
}

func BenchmarkSVFLP24(b *testing.B) {
	s := New(testSampleRate)
	s.SetMode(ModeLP24)
	s.SetCutoff(1200.0)
	s.SetResonance(0.7)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Process(0.5)
	}
}
