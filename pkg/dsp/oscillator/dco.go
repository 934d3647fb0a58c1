// Package oscillator provides the band-limited digitally-controlled
// oscillators used by the Jovian voice engine.
package oscillator

import "math"

// Waveform selects the DCO output shape. DCO1 and DCO2 expose different
// subsets at the UI level but share the full implementation.
type Waveform int

const (
	WaveformSaw Waveform = iota
	WaveformSquare
	WaveformPulse
	WaveformTriangle
	// WaveformSawPWM mixes two phase-shifted saws; sweeping the pulse width
	// moves the comb notch for the classic hoover timbre.
	WaveformSawPWM
	WaveformSine
	WaveformNoise
)

// Phase increment ceiling keeps FM excursions below Nyquist/2.
const maxPhaseIncrement = 0.45

// FM input of ±1.0 spans ±2 octaves.
const fmModRange = 2.0

// DCO is a phase-accumulator oscillator with polyBLEP discontinuity
// correction on saw/square/pulse edges. Frequency and pulse-width setters are
// cheap; polyphonic rendering calls them once per sample per voice.
type DCO struct {
	sampleRate float64
	phase      float64
	phaseInc   float64
	lastPhase  float64
	maxFreq    float64

	waveform   Waveform
	pulseWidth float64
	fmAmount   float64

	// Slow analog-style pitch drift, updated every ~10 ms.
	driftPhase   float64
	driftCounter int
	currentDrift float64
	driftSeed    uint32
	noiseSeed    uint32
}

// New creates an oscillator for the given sample rate.
func New(sampleRate float64) *DCO {
	d := &DCO{
		sampleRate: sampleRate,
		maxFreq:    sampleRate * maxPhaseIncrement,
		pulseWidth: 0.5,
		driftSeed:  0x41594e31,
		noiseSeed:  0x4a503842,
	}
	d.SetFrequency(440.0)
	return d
}

// SetFrequency sets the oscillator pitch in Hz. Values above the Nyquist
// guard are clamped.
func (d *DCO) SetFrequency(hz float64) {
	if hz < 0 {
		hz = 0
	} else if hz > d.maxFreq {
		hz = d.maxFreq
	}
	d.phaseInc = hz / d.sampleRate
}

// SetWaveform selects the output shape.
func (d *DCO) SetWaveform(w Waveform) {
	d.waveform = w
}

// SetPulseWidth sets the pulse duty cycle, clamped to 1%-99%.
func (d *DCO) SetPulseWidth(pw float64) {
	if pw < 0.01 {
		pw = 0.01
	} else if pw > 0.99 {
		pw = 0.99
	}
	d.pulseWidth = pw
}

// ApplyFM sets the exponential FM input for the next Process call. An input
// of ±1 shifts pitch by ±2 octaves.
func (d *DCO) ApplyFM(amount float64) {
	d.fmAmount = amount
}

// ResetPhase rewinds the phase accumulator, used by hard sync.
func (d *DCO) ResetPhase() {
	d.phase = 0
}

// Phase returns the current accumulator position in [0,1).
func (d *DCO) Phase() float64 {
	return d.phase
}

// DidWrap reports whether the phase wrapped on the last Process call, for
// syncing a slave oscillator.
func (d *DCO) DidWrap() bool {
	return d.phase < d.lastPhase
}

// Reset clears phase and modulation state.
func (d *DCO) Reset() {
	d.phase = 0
	d.lastPhase = 0
	d.fmAmount = 0
	d.currentDrift = 0
	d.driftCounter = 0
	d.driftPhase = 0
}

// Process generates one sample in approximately [-1,1] and advances phase.
func (d *DCO) Process() float32 {
	inc := d.phaseInc
	if d.fmAmount != 0 {
		inc *= Pow2(d.fmAmount * fmModRange)
	}

	// Drift amount is refreshed at ~100 Hz so the pitch wander stays slow.
	d.driftCounter++
	if d.driftCounter >= 480 {
		d.driftCounter = 0
		d.driftPhase += 0.01
		if d.driftPhase >= 1.0 {
			d.driftPhase -= 1.0
		}
		d.driftSeed = d.driftSeed*1664525 + 1013904223
		noise := float64((d.driftSeed>>9)&0x7fffff)/float64(0x7fffff) - 0.5
		d.currentDrift = 0.00003*math.Sin(d.driftPhase*2*math.Pi) + 0.00002*noise
	}
	inc *= 1.0 + d.currentDrift

	if inc < 0 {
		inc = 0
	} else if inc > maxPhaseIncrement {
		inc = maxPhaseIncrement
	}

	d.lastPhase = d.phase
	sample := d.generate(d.phase, inc)

	d.phase += inc
	d.phase -= math.Floor(d.phase)

	return float32(sample)
}

func (d *DCO) generate(phase, inc float64) float64 {
	switch d.waveform {
	case WaveformSaw:
		return 1.0 - 2.0*phase - polyBlep(phase, inc)

	case WaveformSquare:
		v := -1.0
		if phase < 0.5 {
			v = 1.0
		}
		v += polyBlep(phase, inc)                // rising edge at 0
		v -= polyBlep(wrapPhase(phase+0.5), inc) // falling edge at 0.5
		return v

	case WaveformPulse:
		v := -1.0
		if phase < d.pulseWidth {
			v = 1.0
		}
		v += polyBlep(phase, inc)
		v -= polyBlep(wrapPhase(phase+1.0-d.pulseWidth), inc)
		return v

	case WaveformTriangle:
		if phase < 0.5 {
			return 4.0*phase - 1.0
		}
		return 3.0 - 4.0*phase

	case WaveformSawPWM:
		// Two phase-shifted saws crossfaded by pulse width.
		saw1 := 1.0 - 2.0*phase
		phase2 := wrapPhase(phase + d.pulseWidth)
		saw2 := 1.0 - 2.0*phase2
		mix := d.pulseWidth
		v := saw1*(1.0-mix) + saw2*mix
		v -= polyBlep(phase, inc) * (1.0 - mix)
		v -= polyBlep(phase2, inc) * mix
		return v

	case WaveformSine:
		return math.Sin(2.0 * math.Pi * phase)

	case WaveformNoise:
		d.noiseSeed = d.noiseSeed*1664525 + 1013904223
		return float64((d.noiseSeed>>9)&0x7fffff)/float64(0x7fffff)*2.0 - 1.0

	default:
		return 0
	}
}

// polyBlep returns the polynomial band-limited step correction for a
// discontinuity at phase 0. t is the phase in [0,1), dt the phase increment.
func polyBlep(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if dt > 1 {
		dt = 1
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1.0
	}
	if t > 1.0-dt {
		t = (t - 1.0) / dt
		return t*t + t + t + 1.0
	}
	return 0
}

func wrapPhase(phase float64) float64 {
	return phase - math.Floor(phase)
}

// Pow2 approximates 2^x by splitting into integer exponent and a
// 4th-order polynomial over the fractional part. Used on per-sample pitch
// paths where math.Pow is too slow.
func Pow2(x float64) float64 {
	if x < -16 {
		x = -16
	} else if x > 16 {
		x = 16
	}
	n := math.Floor(x)
	f := x - n
	const (
		c1 = 0.6931471805
		c2 = 0.2402265069
		c3 = 0.0555041087
		c4 = 0.0096181291
	)
	p := 1.0 + f*(c1+f*(c2+f*(c3+f*c4)))
	return math.Ldexp(p, int(n))
}
