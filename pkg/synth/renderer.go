package synth

import (
	"math"

	"github.com/jovian-synth/jovian/pkg/dsp/oscillator"
)

// renderMono renders voice zero with the full oscillator feature set:
// cross modulation from DCO2 into DCO1 and hard or soft sync of DCO2 to
// DCO1.
func (e *Engine) renderMono(out []float32) {
	m := &e.mod
	v := e.alloc.Voice(0)
	if !v.Sounding() {
		zeroBuffer(out)
		return
	}

	keyRatio := keyTrackRatio(v.Note, m.keyTrack)
	for i := range out {
		pitch := v.NextPitch() * m.bendRatio
		fenv := float64(v.EnvFilter.Process())
		penv := float64(v.EnvPitch.Process())
		pitchMod := m.lfo*m.vibDepth + penv*m.pitchEnvDepth
		pitchRatio := oscillator.Pow2(pitchMod / 12.0)

		v.DCO1.SetFrequency(pitch * m.oct1 * pitchRatio)
		v.DCO2.SetFrequency(pitch * m.oct2 * m.detuneRatio * pitchRatio)
		v.DCO1.SetPulseWidth(clamp(m.pw+m.lfo*m.pwLFO*0.4+fenv*m.pwEnv*0.4, 0.01, 0.99))

		o2 := float64(v.DCO2.Process())
		v.DCO1.ApplyFM(o2 * m.xmod)
		o1 := float64(v.DCO1.Process())
		if v.DCO1.DidWrap() {
			switch m.sync {
			case SyncHard:
				v.DCO2.ResetPhase()
			case SyncSoft:
				// Soft sync only snaps the slave when it is past half
				// cycle, which thins instead of fully locking the timbre.
				if v.DCO2.Phase() >= 0.5 {
					v.DCO2.ResetPhase()
				}
			}
		}

		mixed := o1*m.mix1 + o2*m.mix2
		fmod := clamp(fenv*m.envVCF+m.lfo*m.lfoVCF+v.Velocity*m.velVCF+m.pressure, -3, 3)
		v.VCF.SetCutoff(m.baseCutoff * keyRatio * oscillator.Pow2(fmod))

		// HPF feeds the VCF, same as the hardware signal path.
		y := v.VCF.Process(v.HPF.Process(float32(mixed)))
		out[i] = y * v.EnvAmp.Process()
	}
	if !v.EnvAmp.IsActive() {
		v.Active = false
	}
}

// renderPoly iterates every allocator slot, skipping silent voices so the
// per-buffer cost follows the number of sounding notes, then applies
// equal-power normalization over the mix.
func (e *Engine) renderPoly(out []float32) {
	m := &e.mod
	zeroBuffer(out)

	active := 0
	for s := 0; s < e.alloc.Polyphony(); s++ {
		v := e.alloc.Voice(s)
		if !v.Sounding() {
			continue
		}
		active++
		keyRatio := keyTrackRatio(v.Note, m.keyTrack)

		for i := range out {
			pitch := v.NextPitch() * m.bendRatio
			fenv := float64(v.EnvFilter.Process())
			penv := float64(v.EnvPitch.Process())
			pitchRatio := oscillator.Pow2((m.lfo*m.vibDepth + penv*m.pitchEnvDepth) / 12.0)

			v.DCO1.SetFrequency(pitch * m.oct1 * pitchRatio)
			v.DCO2.SetFrequency(pitch * m.oct2 * m.detuneRatio * pitchRatio)
			v.DCO1.SetPulseWidth(clamp(m.pw+m.lfo*m.pwLFO*0.4+fenv*m.pwEnv*0.4, 0.01, 0.99))

			mixed := float64(v.DCO1.Process())*m.mix1 + float64(v.DCO2.Process())*m.mix2
			fmod := clamp(fenv*m.envVCF+m.lfo*m.lfoVCF+v.Velocity*m.velVCF+m.pressure, -3, 3)
			v.VCF.SetCutoff(m.baseCutoff * keyRatio * oscillator.Pow2(fmod))

			y := v.VCF.Process(v.HPF.Process(float32(mixed)))
			out[i] += y * v.EnvAmp.Process()
		}
		if !v.EnvAmp.IsActive() {
			v.Active = false
		}
	}

	if active != e.normCount {
		e.normCount = active
		if active > 1 {
			e.normGain = 1.0 / math.Sqrt(float64(active))
		} else {
			e.normGain = 1.0
		}
	}
	if e.normGain != 1.0 {
		g := float32(e.normGain)
		for i := range out {
			out[i] *= g
		}
	}
}

// renderUnison drives the shared detuned stack from voice zero's pitch and
// envelopes, with DCO2 layered conventionally underneath.
func (e *Engine) renderUnison(out []float32) {
	m := &e.mod
	v := e.alloc.Voice(0)
	if !v.Sounding() {
		zeroBuffer(out)
		return
	}

	keyRatio := keyTrackRatio(v.Note, m.keyTrack)
	for i := range out {
		pitch := v.NextPitch() * m.bendRatio
		fenv := float64(v.EnvFilter.Process())
		penv := float64(v.EnvPitch.Process())
		pitchRatio := oscillator.Pow2((m.lfo*m.vibDepth + penv*m.pitchEnvDepth) / 12.0)

		e.unison.SetFrequency(pitch * m.oct1 * pitchRatio)
		v.DCO2.SetFrequency(pitch * m.oct2 * m.detuneRatio * pitchRatio)

		stack := float64(e.unison.Process())
		o2 := float64(v.DCO2.Process())
		mixed := stack*m.mix1 + o2*m.mix2

		fmod := clamp(fenv*m.envVCF+m.lfo*m.lfoVCF+v.Velocity*m.velVCF+m.pressure, -3, 3)
		v.VCF.SetCutoff(m.baseCutoff * keyRatio * oscillator.Pow2(fmod))

		y := v.VCF.Process(v.HPF.Process(float32(mixed)))
		out[i] = y * v.EnvAmp.Process()
	}
	if !v.EnvAmp.IsActive() {
		v.Active = false
	}
}

// keyTrackRatio shifts cutoff with note distance from middle C, clamped to
// ±4 octaves.
func keyTrackRatio(note uint8, amount float64) float64 {
	if amount == 0 {
		return 1.0
	}
	shift := clamp((float64(note)-60.0)/12.0*amount, -4, 4)
	return oscillator.Pow2(shift)
}

func zeroBuffer(out []float32) {
	for i := range out {
		out[i] = 0
	}
}
