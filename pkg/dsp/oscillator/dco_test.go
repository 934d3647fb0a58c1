package oscillator

import (
	"math"
	"testing"

	"github.com/jovian-synth/jovian/pkg/dsp/analysis"
)

const testSampleRate = 48000.0

func TestOutputBounded(t *testing.T) {
	waveforms := []Waveform{
		WaveformSaw, WaveformSquare, WaveformPulse,
		WaveformTriangle, WaveformSawPWM, WaveformSine, WaveformNoise,
	}
	for _, w := range waveforms {
		d := New(testSampleRate)
		d.SetWaveform(w)
		d.SetFrequency(1234.5)
		d.SetPulseWidth(0.25)
		for i := 0; i < 48000; i++ {
			s := float64(d.Process())
			if s < -1.5 || s > 1.5 || math.IsNaN(s) {
				t.Fatalf("waveform %d sample %d out of range: %f", w, i, s)
			}
		}
	}
}

func TestFrequencyAccuracy(t *testing.T) {
	d := New(testSampleRate)
	d.SetWaveform(WaveformSine)
	d.SetFrequency(480.0)

	// Count zero crossings over one second of output.
	crossings := 0
	prev := float32(0)
	for i := 0; i < 48000; i++ {
		s := d.Process()
		if prev < 0 && s >= 0 {
			crossings++
		}
		prev = s
	}
	// Drift modulation allows a small deviation.
	if crossings < 478 || crossings > 482 {
		t.Errorf("expected ~480 cycles, counted %d", crossings)
	}
}

func TestNyquistClamp(t *testing.T) {
	d := New(testSampleRate)
	d.SetFrequency(100000.0)
	if d.phaseInc > maxPhaseIncrement {
		t.Errorf("phase increment %f exceeds ceiling", d.phaseInc)
	}
	d.SetFrequency(-50.0)
	if d.phaseInc != 0 {
		t.Errorf("negative frequency should clamp to zero, got %f", d.phaseInc)
	}
}

func TestSawAliasing(t *testing.T) {
	// A high fundamental stresses the band limiting. PolyBLEP should keep
	// non-harmonic energy to a small fraction of the total.
	d := New(testSampleRate)
	d.SetWaveform(WaveformSaw)
	d.SetFrequency(2093.0) // C7

	const size = 8192
	buf := make([]float32, size)
	// Skip the first block so drift state settles.
	for i := 0; i < 512; i++ {
		d.Process()
	}
	for i := range buf {
		buf[i] = d.Process()
	}

	fft := analysis.NewFFT(size, analysis.BlackmanHarrisWindow)
	mag := fft.Forward(buf)
	ratio := analysis.AliasRatio(mag, fft, 2093.0, testSampleRate)
	if ratio > 0.05 {
		t.Errorf("alias energy ratio %f too high for band-limited saw", ratio)
	}
}

func TestPulseWidthClamp(t *testing.T) {
	d := New(testSampleRate)
	d.SetPulseWidth(0.0)
	if d.pulseWidth != 0.01 {
		t.Errorf("pulse width floor: got %f", d.pulseWidth)
	}
	d.SetPulseWidth(1.0)
	if d.pulseWidth != 0.99 {
		t.Errorf("pulse width ceiling: got %f", d.pulseWidth)
	}
}

func TestDidWrap(t *testing.T) {
	d := New(testSampleRate)
	d.SetWaveform(WaveformSaw)
	d.SetFrequency(1000.0)

	wraps := 0
	for i := 0; i < 48000; i++ {
		d.Process()
		if d.DidWrap() {
			wraps++
		}
	}
	if wraps < 995 || wraps > 1005 {
		t.Errorf("expected ~1000 wraps, got %d", wraps)
	}
}

func TestApplyFMShiftsPitch(t *testing.T) {
	d := New(testSampleRate)
	d.SetWaveform(WaveformSaw)
	d.SetFrequency(500.0)
	d.ApplyFM(0.5) // +1 octave

	wraps := 0
	for i := 0; i < 48000; i++ {
		d.Process()
		if d.DidWrap() {
			wraps++
		}
	}
	if wraps < 990 || wraps > 1010 {
		t.Errorf("FM of +1 octave should double wrap rate, got %d", wraps)
	}
}

func TestPow2Approximation(t *testing.T) {
	for _, x := range []float64{-4, -1.5, -0.3, 0, 0.25, 1, 2.7, 4} {
		want := math.Pow(2, x)
		got := Pow2(x)
		if math.Abs(got-want)/want > 0.001 {
			t.Errorf("Pow2(%f) = %f, want %f", x, got, want)
		}
	}
}

func TestUnisonSpread(t *testing.T) {
	u := NewUnison(testSampleRate)
	u.SetCount(7)
	u.SetDetune(20.0)
	u.SetFrequency(220.0)

	// All detune ratios must be distinct and near unity.
	seen := map[float64]bool{}
	for i := 0; i < u.Count(); i++ {
		r := u.detuneRatio[i]
		if r < 0.98 || r > 1.02 {
			t.Errorf("detune ratio %d = %f outside ±2%%", i, r)
		}
		if seen[r] {
			t.Errorf("duplicate detune ratio %f", r)
		}
		seen[r] = true
	}
}

func TestUnisonCountClamp(t *testing.T) {
	u := NewUnison(testSampleRate)
	u.SetCount(1)
	if u.Count() != MinUnisonOscillators {
		t.Errorf("count floor: got %d", u.Count())
	}
	u.SetCount(99)
	if u.Count() != MaxUnisonOscillators {
		t.Errorf("count ceiling: got %d", u.Count())
	}
}

func TestUnisonStereoBounded(t *testing.T) {
	u := NewUnison(testSampleRate)
	u.SetCount(7)
	u.SetDetune(30.0)
	u.SetFrequency(110.0)
	u.Trigger()
	for i := 0; i < 48000; i++ {
		l, r := u.ProcessStereo()
		if math.Abs(float64(l)) > 3.0 || math.Abs(float64(r)) > 3.0 {
			t.Fatalf("sample %d out of range: l=%f r=%f", i, l, r)
		}
	}
}

func BenchmarkDCOSaw(b *testing.B) {
	d := New(testSampleRate)
	d.SetWaveform(WaveformSaw)
	d.SetFrequency(440.0)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Process()
	}
}

func BenchmarkUnison7(b *testing.B) {
	u := NewUnison(testSampleRate)
	u.SetCount(7)
	u.SetFrequency(220.0)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		u.ProcessStereo()
	}
}
