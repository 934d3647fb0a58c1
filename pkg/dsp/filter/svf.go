// Package filter implements the voice filter: a Chamberlin state-variable
// design run at 2x oversampling with selectable response modes.
package filter

import "math"

// Mode selects which filter response is taken from the state-variable core.
type Mode int

const (
	ModeLP12 Mode = iota
	ModeLP24
	ModeHP12
	ModeBP12
)

const (
	oversample = 2
	minCutoff  = 20.0
	// Internal state clamp keeps the integrators from running away at high
	// resonance.
	stateClamp = 10.0
	// Coefficients are only recomputed when cutoff moves by more than this.
	cutoffEpsilon = 1.0
)

// SVF is a Chamberlin state-variable filter. The second stage is only
// engaged in LP24 mode. Cutoff setters are cheap enough to call per sample.
type SVF struct {
	sampleRate float64
	maxCutoff  float64

	mode      Mode
	cutoff    float64
	resonance float64

	f float64 // frequency coefficient
	q float64 // damping

	low1, band1 float64
	low2, band2 float64
}

// New creates a filter for the given sample rate with a fully open cutoff.
func New(sampleRate float64) *SVF {
	s := &SVF{
		sampleRate: sampleRate,
		maxCutoff:  sampleRate * 0.45,
		cutoff:     -1,
		q:          2.0,
	}
	s.SetCutoff(sampleRate * 0.45)
	return s
}

// SetMode selects the filter response.
func (s *SVF) SetMode(m Mode) {
	s.mode = m
}

// Mode returns the active filter response.
func (s *SVF) Mode() Mode {
	return s.mode
}

// SetCutoff sets the cutoff frequency in Hz, clamped to [20, 0.45*fs].
// Coefficients are recomputed only when the change exceeds 1 Hz.
func (s *SVF) SetCutoff(hz float64) {
	if hz < minCutoff {
		hz = minCutoff
	} else if hz > s.maxCutoff {
		hz = s.maxCutoff
	}
	if math.Abs(hz-s.cutoff) <= cutoffEpsilon {
		return
	}
	s.cutoff = hz
	// The core runs oversampled, so the effective rate is fs*oversample.
	s.f = 2.0 * math.Sin(math.Pi*hz/(s.sampleRate*float64(oversample)))
}

// Cutoff returns the current cutoff in Hz.
func (s *SVF) Cutoff() float64 {
	return s.cutoff
}

// SetResonance sets resonance 0..1, mapped to damping 2.0 down to 0.05.
func (s *SVF) SetResonance(r float64) {
	if r < 0 {
		r = 0
	} else if r > 1 {
		r = 1
	}
	s.resonance = r
	s.q = 2.0 - r*1.95
}

// Reset clears the integrator state.
func (s *SVF) Reset() {
	s.low1, s.band1 = 0, 0
	s.low2, s.band2 = 0, 0
}

// Process filters one sample.
func (s *SVF) Process(input float32) float32 {
	in := float64(input)
	var out float64
	for i := 0; i < oversample; i++ {
		out = s.tick(in)
	}
	return float32(out)
}

func (s *SVF) tick(in float64) float64 {
	s.low1 += s.f * s.band1
	high := in - s.low1 - s.q*s.band1
	s.band1 += s.f * high
	s.low1 = clampState(s.low1)
	s.band1 = clampState(s.band1)

	switch s.mode {
	case ModeLP24:
		s.low2 += s.f * s.band2
		high2 := s.low1 - s.low2 - s.q*s.band2
		s.band2 += s.f * high2
		s.low2 = clampState(s.low2)
		s.band2 = clampState(s.band2)
		return s.low2
	case ModeHP12:
		return high
	case ModeBP12:
		return s.band1
	default:
		return s.low1
	}
}

func clampState(v float64) float64 {
	if v > stateClamp {
		return stateClamp
	}
	if v < -stateClamp {
		return -stateClamp
	}
	return v
}
