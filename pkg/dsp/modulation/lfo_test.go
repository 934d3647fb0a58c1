package modulation

import (
	"math"
	"testing"
)

const testSampleRate = 48000.0

func TestTriangleShape(t *testing.T) {
	l := NewLFO(testSampleRate)
	l.SetWaveform(LFOTriangle)
	l.SetRate(1.0)
	l.Trigger()

	// Phase 0 is the triangle minimum; a quarter cycle later it crosses zero.
	first := float64(l.Process())
	if math.Abs(first-(-1.0)) > 0.001 {
		t.Errorf("triangle should start at -1, got %f", first)
	}
	for i := 1; i < 12000; i++ {
		l.Process()
	}
	quarter := float64(l.Value())
	if math.Abs(quarter) > 0.01 {
		t.Errorf("triangle should cross zero at quarter cycle, got %f", quarter)
	}
}

func TestOutputRange(t *testing.T) {
	for _, w := range []LFOWaveform{LFOTriangle, LFORamp, LFOSquare, LFOSampleHold} {
		l := NewLFO(testSampleRate)
		l.SetWaveform(w)
		l.SetRate(13.7)
		l.Trigger()
		for i := 0; i < 48000; i++ {
			v := float64(l.Process())
			if v < -1.0 || v > 1.0 {
				t.Fatalf("waveform %d out of range at %d: %f", w, i, v)
			}
		}
	}
}

func TestRateClamping(t *testing.T) {
	l := NewLFO(testSampleRate)
	l.SetRate(0)
	if l.phaseInc != minLFORate/testSampleRate {
		t.Errorf("rate floor: got %g", l.phaseInc)
	}
	l.SetRate(100)
	if l.phaseInc != maxLFORate/testSampleRate {
		t.Errorf("rate ceiling: got %g", l.phaseInc)
	}
}

func TestDelayRampsIn(t *testing.T) {
	l := NewLFO(testSampleRate)
	l.SetWaveform(LFOSquare)
	l.SetRate(0.01) // stay in the +1 half cycle for the whole test
	l.SetDelay(1.0)
	l.Trigger()

	early := math.Abs(float64(l.Process()))
	for i := 1; i < 24000; i++ {
		l.Process()
	}
	mid := math.Abs(float64(l.Value()))
	for i := 0; i < 48000; i++ {
		l.Process()
	}
	late := math.Abs(float64(l.Value()))

	if early > 0.01 {
		t.Errorf("output should be near zero right after trigger, got %f", early)
	}
	if mid < 0.3 || mid > 0.7 {
		t.Errorf("expected ~0.5 halfway through delay, got %f", mid)
	}
	if late < 0.99 {
		t.Errorf("output should reach full depth after delay, got %f", late)
	}
}

func TestSampleHoldChangesPerCycle(t *testing.T) {
	l := NewLFO(testSampleRate)
	l.SetWaveform(LFOSampleHold)
	l.SetRate(20.0)
	l.Trigger()

	values := map[float32]bool{}
	for i := 0; i < 48000; i++ {
		values[l.Process()] = true
	}
	// 20 Hz over one second gives 20 held values.
	if len(values) < 10 {
		t.Errorf("expected many distinct held values, got %d", len(values))
	}
}

func TestZeroDelayStartsAtFullDepth(t *testing.T) {
	l := NewLFO(testSampleRate)
	l.SetWaveform(LFOSquare)
	l.SetDelay(0)
	l.Trigger()
	if v := float64(l.Process()); math.Abs(v) < 0.99 {
		t.Errorf("zero delay should start at full depth, got %f", v)
	}
}
