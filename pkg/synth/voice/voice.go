// Package voice holds the per-note render unit and the allocator that
// assigns incoming notes to it.
package voice

import (
	"math"

	"github.com/jovian-synth/jovian/pkg/dsp/envelope"
	"github.com/jovian-synth/jovian/pkg/dsp/filter"
	"github.com/jovian-synth/jovian/pkg/dsp/oscillator"
	"github.com/jovian-synth/jovian/pkg/midi"
)

// Voice is one playable unit: two oscillators, the multimode filter, a
// post high-pass and three envelopes. All components are allocated once at
// startup; note events only reconfigure them.
type Voice struct {
	DCO1 *oscillator.DCO
	DCO2 *oscillator.DCO
	VCF  *filter.SVF
	HPF  *filter.HPF

	EnvAmp    *envelope.ADSR
	EnvFilter *envelope.ADSR
	EnvPitch  *envelope.ADSR

	Note     uint8
	Velocity float64
	Active   bool

	// Monotonic allocation stamp, used for oldest-first stealing.
	timestamp uint64

	// Pitch glide state in log-frequency domain.
	logPitch  float64
	logTarget float64
	glideInc  float64

	sampleRate float64
}

func newVoice(sampleRate float64) *Voice {
	v := &Voice{
		DCO1:       oscillator.New(sampleRate),
		DCO2:       oscillator.New(sampleRate),
		VCF:        filter.New(sampleRate),
		HPF:        filter.NewHPF(sampleRate),
		EnvAmp:     envelope.New(sampleRate),
		EnvFilter:  envelope.New(sampleRate),
		EnvPitch:   envelope.New(sampleRate),
		sampleRate: sampleRate,
	}
	v.logPitch = math.Log(440.0)
	v.logTarget = v.logPitch
	return v
}

// Start configures the voice for a note. With glideTime zero the pitch
// jumps immediately; otherwise it slides from the current pitch over that
// many seconds. When legato is set the envelopes are left running instead
// of retriggered.
func (v *Voice) Start(note, velocity uint8, timestamp uint64, glideTime float64, legato bool) {
	v.Note = note
	v.Velocity = midi.VelocityToFloat(velocity)
	v.Active = true
	v.timestamp = timestamp

	target := math.Log(midi.NoteToFrequency(note))
	if glideTime <= 0 || !v.EnvAmp.IsActive() {
		v.logPitch = target
		v.logTarget = target
		v.glideInc = 0
	} else {
		v.logTarget = target
		v.glideInc = (target - v.logPitch) / (glideTime * v.sampleRate)
	}

	if !legato {
		// Soft notes stay audible: velocity maps onto a 0.2..1.0 gain curve.
		v.EnvAmp.Trigger(0.2 + 0.8*v.Velocity)
		v.EnvFilter.Trigger(1.0)
		v.EnvPitch.Trigger(1.0)
	}
}

// Release moves all envelopes into their release stage. The voice stays
// Active until the renderer observes the amplitude envelope finishing.
func (v *Voice) Release() {
	v.EnvAmp.Release()
	v.EnvFilter.Release()
	v.EnvPitch.Release()
}

// Steal silences the voice immediately so it can be restarted.
func (v *Voice) Steal() {
	v.EnvAmp.Reset()
	v.EnvFilter.Reset()
	v.EnvPitch.Reset()
	v.VCF.Reset()
	v.HPF.Reset()
	v.Active = false
}

// NextPitch advances the glide one sample and returns the current pitch in
// Hz.
func (v *Voice) NextPitch() float64 {
	if v.glideInc != 0 {
		v.logPitch += v.glideInc
		if (v.glideInc > 0 && v.logPitch >= v.logTarget) ||
			(v.glideInc < 0 && v.logPitch <= v.logTarget) {
			v.logPitch = v.logTarget
			v.glideInc = 0
		}
	}
	return math.Exp(v.logPitch)
}

// Pitch returns the current glide pitch without advancing it.
func (v *Voice) Pitch() float64 {
	return math.Exp(v.logPitch)
}

// Gliding reports whether a pitch slide is still in progress.
func (v *Voice) Gliding() bool {
	return v.glideInc != 0
}

// Sounding reports whether the voice still produces audio. A released
// voice keeps sounding until its amplitude envelope goes idle.
func (v *Voice) Sounding() bool {
	return v.Active || v.EnvAmp.IsActive()
}

// Timestamp returns the allocation stamp.
func (v *Voice) Timestamp() uint64 {
	return v.timestamp
}

// InRelease reports whether the amplitude envelope is in its release
// stage.
func (v *Voice) InRelease() bool {
	return v.EnvAmp.CurrentStage() == envelope.StageRelease
}
