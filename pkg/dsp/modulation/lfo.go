// Package modulation provides the low-frequency oscillator shared by all
// voices.
package modulation

import "math"

// LFOWaveform selects the modulation shape.
type LFOWaveform int

const (
	LFOTriangle LFOWaveform = iota
	LFORamp
	LFOSquare
	LFOSampleHold
)

const (
	minLFORate  = 0.01
	maxLFORate  = 20.0
	maxLFODelay = 5.0
)

// LFO is a bipolar low-frequency oscillator with an onset delay ramp. After
// Trigger the output fades in over the delay time, the classic delayed
// vibrato behavior.
type LFO struct {
	sampleRate float64
	phase      float64
	phaseInc   float64

	waveform LFOWaveform

	delayTime    float64
	delayLevel   float64
	delayRate    float64
	holdValue    float64
	noiseSeed    uint32
	currentValue float64
}

// NewLFO creates an LFO at 1 Hz with no onset delay.
func NewLFO(sampleRate float64) *LFO {
	l := &LFO{sampleRate: sampleRate, noiseSeed: 0x4c464f31, delayLevel: 1.0}
	l.SetRate(1.0)
	l.SetDelay(0)
	return l
}

// SetRate sets the oscillation rate in Hz, clamped to [0.01, 20].
func (l *LFO) SetRate(hz float64) {
	if hz < minLFORate {
		hz = minLFORate
	} else if hz > maxLFORate {
		hz = maxLFORate
	}
	l.phaseInc = hz / l.sampleRate
}

// SetWaveform selects the modulation shape.
func (l *LFO) SetWaveform(w LFOWaveform) {
	l.waveform = w
}

// Waveform returns the active shape.
func (l *LFO) Waveform() LFOWaveform {
	return l.waveform
}

// SetDelay sets the onset fade-in time in seconds, clamped to [0, 5].
func (l *LFO) SetDelay(seconds float64) {
	if seconds < 0 {
		seconds = 0
	} else if seconds > maxLFODelay {
		seconds = maxLFODelay
	}
	l.delayTime = seconds
	if seconds == 0 {
		l.delayRate = 1.0
	} else {
		l.delayRate = 1.0 / (seconds * l.sampleRate)
	}
}

// Trigger restarts the phase and the onset delay ramp. Called on the first
// note-on after all notes were released, so held chords share one sweep.
func (l *LFO) Trigger() {
	l.phase = 0
	if l.delayTime > 0 {
		l.delayLevel = 0
	} else {
		l.delayLevel = 1.0
	}
}

// Process advances the LFO one sample and returns a value in [-1, 1] scaled
// by the onset ramp.
func (l *LFO) Process() float32 {
	var v float64
	switch l.waveform {
	case LFOTriangle:
		if l.phase < 0.5 {
			v = 4.0*l.phase - 1.0
		} else {
			v = 3.0 - 4.0*l.phase
		}
	case LFORamp:
		v = 2.0*l.phase - 1.0
	case LFOSquare:
		if l.phase < 0.5 {
			v = 1.0
		} else {
			v = -1.0
		}
	case LFOSampleHold:
		v = l.holdValue
	}

	l.phase += l.phaseInc
	if l.phase >= 1.0 {
		l.phase -= math.Floor(l.phase)
		l.noiseSeed = l.noiseSeed*1664525 + 1013904223
		l.holdValue = float64((l.noiseSeed>>9)&0x7fffff)/float64(0x7fffff)*2.0 - 1.0
	}

	if l.delayLevel < 1.0 {
		l.delayLevel += l.delayRate
		if l.delayLevel > 1.0 {
			l.delayLevel = 1.0
		}
	}

	l.currentValue = v * l.delayLevel
	return float32(l.currentValue)
}

// Value returns the most recent Process output without advancing phase.
// The shared LFO is processed once per sample and read by every voice.
func (l *LFO) Value() float64 {
	return l.currentValue
}
