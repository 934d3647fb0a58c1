package oscillator

import "math"

const (
	// MaxUnisonOscillators bounds the pre-allocated sub-oscillator pool.
	MaxUnisonOscillators = 7
	MinUnisonOscillators = 3

	goldenRatio = 1.6180339887
)

// Unison stacks several detuned DCOs playing the same note. Detune offsets
// and pan positions follow a golden-ratio spiral so no two sub-oscillators
// phase-lock or occupy the same stereo position.
type Unison struct {
	oscillators [MaxUnisonOscillators]*DCO
	detuneRatio [MaxUnisonOscillators]float64
	panLeft     [MaxUnisonOscillators]float64
	panRight    [MaxUnisonOscillators]float64

	count       int
	frequency   float64
	detuneCents float64
	gain        float64
}

// NewUnison creates a unison stack at the given sample rate with the
// maximum sub-oscillator count available.
func NewUnison(sampleRate float64) *Unison {
	u := &Unison{frequency: 440.0, detuneCents: 12.0}
	for i := range u.oscillators {
		u.oscillators[i] = New(sampleRate)
		u.oscillators[i].SetWaveform(WaveformSaw)
	}
	u.SetCount(MaxUnisonOscillators)
	return u
}

// SetCount sets the number of active sub-oscillators, clamped to [3,7].
func (u *Unison) SetCount(n int) {
	if n < MinUnisonOscillators {
		n = MinUnisonOscillators
	} else if n > MaxUnisonOscillators {
		n = MaxUnisonOscillators
	}
	if n == u.count {
		return
	}
	u.count = n
	u.gain = 1.0 / math.Sqrt(float64(n))
	u.recomputeSpread()
}

// Count returns the active sub-oscillator count.
func (u *Unison) Count() int {
	return u.count
}

// SetWaveform sets the shape on every sub-oscillator.
func (u *Unison) SetWaveform(w Waveform) {
	for i := 0; i < u.count; i++ {
		u.oscillators[i].SetWaveform(w)
	}
}

// SetPulseWidth sets the duty cycle on every sub-oscillator.
func (u *Unison) SetPulseWidth(pw float64) {
	for i := 0; i < u.count; i++ {
		u.oscillators[i].SetPulseWidth(pw)
	}
}

// SetFrequency sets the center pitch in Hz.
func (u *Unison) SetFrequency(hz float64) {
	if hz == u.frequency {
		return
	}
	u.frequency = hz
	u.applyFrequencies()
}

// SetDetune sets the detune spread in cents.
func (u *Unison) SetDetune(cents float64) {
	if cents < 0 {
		cents = 0
	} else if cents > 100 {
		cents = 100
	}
	if cents == u.detuneCents {
		return
	}
	u.detuneCents = cents
	u.recomputeSpread()
}

// Trigger resets all sub-oscillator phases with a small stagger so the
// attack transient is not a perfectly aligned click.
func (u *Unison) Trigger() {
	for i := 0; i < u.count; i++ {
		u.oscillators[i].Reset()
		u.oscillators[i].phase = wrapPhase(float64(i) * goldenRatio)
	}
}

// ProcessStereo generates one left/right sample pair.
func (u *Unison) ProcessStereo() (left, right float32) {
	var l, r float64
	for i := 0; i < u.count; i++ {
		s := float64(u.oscillators[i].Process())
		l += s * u.panLeft[i]
		r += s * u.panRight[i]
	}
	return float32(l * u.gain), float32(r * u.gain)
}

// Process generates one mono sample by averaging the stereo pair.
func (u *Unison) Process() float32 {
	l, r := u.ProcessStereo()
	return (l + r) * 0.5
}

func (u *Unison) recomputeSpread() {
	// Golden-ratio spiral: offsets fill [-1,1] without clustering and pan
	// positions interleave across the stereo field.
	for i := 0; i < u.count; i++ {
		t := wrapPhase(float64(i) * goldenRatio)
		offset := t*2.0 - 1.0
		u.detuneRatio[i] = math.Pow(2.0, offset*u.detuneCents/1200.0)

		pan := wrapPhase(float64(i)*goldenRatio + 0.5)
		angle := pan * math.Pi * 0.5
		u.panLeft[i] = math.Cos(angle)
		u.panRight[i] = math.Sin(angle)
	}
	u.applyFrequencies()
}

func (u *Unison) applyFrequencies() {
	for i := 0; i < u.count; i++ {
		u.oscillators[i].SetFrequency(u.frequency * u.detuneRatio[i])
	}
}
