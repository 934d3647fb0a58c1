// Package synth is the engine root: it owns the voice allocator, the
// shared modulation sources, parameter state and the three mode renderers,
// and exposes the render/note/parameter interface the front ends drive.
package synth

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/jovian-synth/jovian/pkg/dsp/filter"
	"github.com/jovian-synth/jovian/pkg/dsp/modulation"
	"github.com/jovian-synth/jovian/pkg/dsp/oscillator"
	"github.com/jovian-synth/jovian/pkg/framework/param"
	"github.com/jovian-synth/jovian/pkg/synth/voice"
)

// MaxBlockFrames is the largest render block the engine accepts.
const MaxBlockFrames = 64

// Engine is the synthesizer. All state is allocated in Init; Render and the
// note operations never touch the heap. The engine assumes the host calls
// render and note events sequentially on one goroutine.
type Engine struct {
	sampleRate  float64
	maxBlock    int
	initialized bool
	suspended   bool

	registry *param.Registry
	hub      *param.Hub
	alloc    *voice.Allocator
	lfo      *modulation.LFO
	unison   *oscillator.Unison

	cutoffSmoother *param.Smoother
	mixSmoother    *param.Smoother

	pitchBend float64 // semitones
	pressure  float64 // 0..1

	mod      modPack
	lastMode Mode

	// Equal-power normalization cache, recomputed when the count changes.
	normCount int
	normGain  float64

	// Published for display threads; the allocator itself is only touched
	// on the render goroutine.
	activeSnapshot atomic.Int64

	presets []Preset
}

// modPack holds the per-buffer scalar modulation state. It is rebuilt in
// the prelude so the per-sample loops only do arithmetic.
type modPack struct {
	lfo  float64
	mode Mode

	oct1, oct2  float64
	pw          float64
	xmod        float64
	sync        int
	detuneRatio float64
	mix1, mix2  float64

	baseCutoff float64
	resonance  float64
	filterMode filter.Mode
	envVCF     float64 // octaves at full filter envelope
	lfoVCF     float64
	velVCF     float64
	keyTrack   float64

	pwLFO float64
	pwEnv float64

	vibDepth      float64 // semitones at full LFO
	pitchEnvDepth float64 // semitones at full pitch envelope

	glideTime float64
	bendRatio float64
	pressure  float64
}

// NewEngine creates an uninitialized engine. Call Init before rendering.
func NewEngine() *Engine {
	return &Engine{}
}

// Init allocates all voices and modulation sources for the given sample
// rate. maxBlock is clamped to MaxBlockFrames.
func (e *Engine) Init(sampleRate float64, maxBlock int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("synth: invalid sample rate %f", sampleRate)
	}
	if maxBlock <= 0 {
		return fmt.Errorf("synth: invalid block size %d", maxBlock)
	}
	if maxBlock > MaxBlockFrames {
		maxBlock = MaxBlockFrames
	}

	e.sampleRate = sampleRate
	e.maxBlock = maxBlock
	e.registry = newRegistry()
	e.hub = param.NewHub()
	e.alloc = voice.NewAllocator(sampleRate)
	e.lfo = modulation.NewLFO(sampleRate)
	e.unison = oscillator.NewUnison(sampleRate)
	e.cutoffSmoother = param.NewSmoother(param.ExponentialSmoothing, 0.75)
	e.mixSmoother = param.NewSmoother(param.ExponentialSmoothing, 0.75)
	e.cutoffSmoother.Reset(paramToCutoff(e.registry.Get(ParamVCFCutoff).Plain()))
	e.mixSmoother.Reset(e.registry.Get(ParamOscMix).Plain() / 100.0)
	e.normGain = 1.0
	e.presets = factoryPresets()
	e.lastMode = Mode(e.registry.Get(ParamVoiceMode).Step())
	e.activeSnapshot.Store(0)
	e.initialized = true
	e.suspended = false
	return nil
}

// Reset silences every voice and clears filter and smoother state, keeping
// parameter values.
func (e *Engine) Reset() {
	if !e.initialized {
		return
	}
	e.alloc.Reset()
	e.cutoffSmoother.Reset(paramToCutoff(e.registry.Get(ParamVCFCutoff).Plain()))
	e.mixSmoother.Reset(e.registry.Get(ParamOscMix).Plain() / 100.0)
	e.normCount = 0
	e.normGain = 1.0
	e.pressure = 0
	e.pitchBend = 0
	e.publishActive()
}

// Resume re-enables rendering after Suspend.
func (e *Engine) Resume() {
	e.suspended = false
}

// Suspend silences the engine; Render emits zeros until Resume.
func (e *Engine) Suspend() {
	e.suspended = true
	if e.initialized {
		e.alloc.Reset()
		e.publishActive()
	}
}

// Teardown releases the engine. Init must be called again before use.
func (e *Engine) Teardown() {
	e.initialized = false
	e.activeSnapshot.Store(0)
	e.alloc = nil
	e.lfo = nil
	e.unison = nil
	e.registry = nil
}

// SampleRate returns the rate the engine was initialized at.
func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// ActiveVoices returns how many voices were sounding as of the last note
// event or rendered buffer. Unlike the other engine methods it is safe to
// call from a display goroutine.
func (e *Engine) ActiveVoices() int {
	return int(e.activeSnapshot.Load())
}

func (e *Engine) publishActive() {
	e.activeSnapshot.Store(int64(e.alloc.ActiveCount()))
}

// NoteOn routes a note to the allocator according to the current mode.
// Notes outside 0..127 are ignored.
func (e *Engine) NoteOn(note, velocity uint8) {
	if !e.initialized || note > 127 {
		return
	}
	if e.alloc.ActiveCount() == 0 {
		e.lfo.Trigger()
	}
	mode := Mode(e.registry.Get(ParamVoiceMode).Step())
	glide := paramToGlideTime(e.registry.Get(ParamPortamento).Plain())
	switch mode {
	case ModePoly:
		e.alloc.NoteOn(note, velocity, glide)
	case ModeUnison:
		fresh := e.alloc.HeldCount() == 0
		e.alloc.MonoNoteOn(note, velocity, glide)
		if fresh {
			e.unison.Trigger()
		}
	default:
		e.alloc.MonoNoteOn(note, velocity, glide)
	}
	e.publishActive()
}

// NoteOff releases the note per the current mode. In single-voice modes a
// remaining held note takes over.
func (e *Engine) NoteOff(note uint8) {
	if !e.initialized || note > 127 {
		return
	}
	mode := Mode(e.registry.Get(ParamVoiceMode).Step())
	glide := paramToGlideTime(e.registry.Get(ParamPortamento).Plain())
	if mode == ModePoly {
		e.alloc.NoteOff(note)
	} else {
		e.alloc.MonoNoteOff(note, glide)
	}
}

// AllNotesOff releases every sounding voice; release tails still play out.
func (e *Engine) AllNotesOff() {
	if e.initialized {
		e.alloc.AllNotesOff()
		e.publishActive()
	}
}

// AllSoundOff cuts every voice immediately. Envelopes are forced to idle
// and the next buffer renders silence.
func (e *Engine) AllSoundOff() {
	if e.initialized {
		e.alloc.Reset()
		e.publishActive()
	}
}

// PitchBend sets the global bend in semitones, clamped to ±12.
func (e *Engine) PitchBend(semitones float64) {
	if semitones > 12 {
		semitones = 12
	} else if semitones < -12 {
		semitones = -12
	}
	e.pitchBend = semitones
}

// ChannelPressure sets the aftertouch amount 0..1, routed to filter
// cutoff.
func (e *Engine) ChannelPressure(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	e.pressure = v
}

// SetParameter stores a panel value for a parameter. Continuous
// parameters take 0..100; enumerated ones their option index. Unknown IDs
// are no-ops.
func (e *Engine) SetParameter(id uint32, value int) {
	if !e.initialized {
		return
	}
	p := e.registry.Get(id)
	if p == nil {
		return
	}
	p.SetPlain(float64(value))

	switch id {
	case ParamModHubDest:
		e.hub.Select(param.HubDestination(p.Step()))
		// Mirror the selected destination's stored amount back into the
		// shared amount knob.
		amt := e.hub.Amount(e.hub.Selected())
		e.registry.Get(ParamModHubAmount).SetPlain(amt * 100)
	case ParamModHubAmount:
		e.hub.SetAmount(p.Plain() / 100.0)
	case ParamVCFCutoff:
		e.cutoffSmoother.SetTarget(paramToCutoff(p.Plain()))
	case ParamOscMix:
		e.mixSmoother.SetTarget(p.Plain() / 100.0)
	}
}

// GetParameter returns the current panel value for a parameter.
func (e *Engine) GetParameter(id uint32) int {
	if !e.initialized {
		return 0
	}
	p := e.registry.Get(id)
	if p == nil {
		return 0
	}
	return int(math.Round(p.Plain()))
}

// ParameterString returns the display text for a parameter. The hub
// amount shows the selected destination and its stored value.
func (e *Engine) ParameterString(id uint32) string {
	if !e.initialized {
		return ""
	}
	if id == ParamModHubAmount {
		return e.hub.DisplayString(e.hub.Selected())
	}
	p := e.registry.Get(id)
	if p == nil {
		return ""
	}
	return p.DisplayString()
}

// Registry exposes parameter metadata for front ends.
func (e *Engine) Registry() *param.Registry {
	return e.registry
}

// Hub exposes the modulation hub.
func (e *Engine) Hub() *param.Hub {
	return e.hub
}

// Render fills out with mono samples. Blocks longer than the configured
// maximum are truncated. The output is soft-clamped and NaN-sanitized.
func (e *Engine) Render(out []float32) {
	if !e.initialized || e.suspended {
		for i := range out {
			out[i] = 0
		}
		return
	}
	if len(out) > e.maxBlock {
		// Never leave stale samples past the rendered region.
		for i := e.maxBlock; i < len(out); i++ {
			out[i] = 0
		}
		out = out[:e.maxBlock]
	}
	if len(out) == 0 {
		return
	}

	e.prelude(len(out))

	switch e.mod.mode {
	case ModePoly:
		e.renderPoly(out)
	case ModeUnison:
		e.renderUnison(out)
	default:
		e.renderMono(out)
	}

	for i, s := range out {
		out[i] = sanitize(s)
	}
	e.publishActive()
}

// prelude rebuilds the per-buffer scalar state: advances the shared LFO,
// applies parameter changes to voice components, and precomputes the
// modulation pack the sample loops read.
func (e *Engine) prelude(frames int) {
	m := &e.mod

	for i := 0; i < frames; i++ {
		e.lfo.Process()
	}
	m.lfo = e.lfo.Value()

	m.mode = Mode(e.registry.Get(ParamVoiceMode).Step())
	if m.mode != e.lastMode {
		e.alloc.AllNotesOff()
		e.lastMode = m.mode
	}

	m.oct1 = octaveMultipliers[e.registry.Get(ParamDCO1Octave).Step()]
	m.oct2 = octaveMultipliers[e.registry.Get(ParamDCO2Octave).Step()]
	m.pw = e.registry.Get(ParamDCO1PW).Plain() / 100.0
	m.xmod = e.registry.Get(ParamXMod).Plain() / 100.0
	m.sync = e.registry.Get(ParamOscSync).Step()
	tune := e.registry.Get(ParamDCO2Tune).Plain() - 50.0
	m.detuneRatio = math.Pow(2.0, tune/1200.0)

	mix := e.mixSmoother.Next()
	m.mix1 = 1.0 - mix
	m.mix2 = mix

	m.baseCutoff = e.cutoffSmoother.Next()
	m.resonance = e.registry.Get(ParamVCFResonance).Plain() / 100.0
	m.envVCF = e.registry.Get(ParamVCFEnvAmount).Plain()/100.0*2.0 +
		e.hub.Amount(param.HubEnvToVCF)*2.0
	m.lfoVCF = e.hub.Amount(param.HubLFOToVCF) * 2.0
	m.velVCF = e.registry.Get(ParamVCFVelocity).Plain() / 100.0 * 2.0
	m.keyTrack = e.registry.Get(ParamVCFKeyTrack).Plain() / 100.0
	m.filterMode = hubFilterMode(e.hub.Amount(param.HubVCFType))

	m.pwLFO = e.hub.Amount(param.HubLFOToPWM)
	m.pwEnv = e.hub.Amount(param.HubEnvToPWM)
	m.vibDepth = e.hub.Amount(param.HubLFOToVCO) * 2.0
	m.pitchEnvDepth = e.hub.Amount(param.HubEnvToVCO) * 12.0

	m.glideTime = paramToGlideTime(e.registry.Get(ParamPortamento).Plain())
	m.bendRatio = math.Pow(2.0, e.pitchBend/12.0)
	m.pressure = e.pressure

	e.lfo.SetRate(paramToLFORate(e.registry.Get(ParamLFORate).Plain()))
	e.lfo.SetWaveform(hubLFOWaveform(e.hub.Amount(param.HubLFOWave)))
	e.lfo.SetDelay(e.hub.Amount(param.HubLFODelay) * 5.0)

	wave1 := dco1Waveform(e.registry.Get(ParamDCO1Wave).Step())
	wave2 := dco2Waveform(e.registry.Get(ParamDCO2Wave).Step())
	hpfAmount := e.hub.Amount(param.HubHPF)

	attF := paramToEnvelopeTime(e.registry.Get(ParamVCFAttack).Plain())
	decF := paramToEnvelopeTime(e.registry.Get(ParamVCFDecay).Plain())
	susF := e.registry.Get(ParamVCFSustain).Plain() / 100.0
	relF := paramToEnvelopeTime(e.registry.Get(ParamVCFRelease).Plain())
	attA := paramToEnvelopeTime(e.registry.Get(ParamVCAAttack).Plain())
	decA := paramToEnvelopeTime(e.registry.Get(ParamVCADecay).Plain())
	susA := e.registry.Get(ParamVCASustain).Plain() / 100.0
	relA := paramToEnvelopeTime(e.registry.Get(ParamVCARelease).Plain())

	for i := 0; i < voice.MaxVoices; i++ {
		v := e.alloc.Voice(i)
		v.DCO1.SetWaveform(wave1)
		v.DCO2.SetWaveform(wave2)
		v.VCF.SetMode(m.filterMode)
		v.VCF.SetResonance(m.resonance)
		v.HPF.SetAmount(hpfAmount)
		v.EnvFilter.SetAttack(attF)
		v.EnvFilter.SetDecay(decF)
		v.EnvFilter.SetSustain(susF)
		v.EnvFilter.SetRelease(relF)
		v.EnvAmp.SetAttack(attA)
		v.EnvAmp.SetDecay(decA)
		v.EnvAmp.SetSustain(susA)
		v.EnvAmp.SetRelease(relA)
		// Pitch envelope follows the filter envelope times, decaying to
		// zero so the sweep always settles on pitch.
		v.EnvPitch.SetAttack(0.001)
		v.EnvPitch.SetDecay(decF)
		v.EnvPitch.SetSustain(0)
		v.EnvPitch.SetRelease(relF)
	}

	if m.mode == ModeUnison {
		e.unison.SetWaveform(wave1)
		e.unison.SetPulseWidth(clamp(m.pw, 0.01, 0.99))
		e.unison.SetDetune(e.registry.Get(ParamUnisonDetune).Plain() * 0.5)
	}
}

func dco1Waveform(step int) oscillator.Waveform {
	switch step {
	case 1:
		return oscillator.WaveformSquare
	case 2:
		return oscillator.WaveformPulse
	case 3:
		return oscillator.WaveformTriangle
	case 4:
		return oscillator.WaveformSawPWM
	default:
		return oscillator.WaveformSaw
	}
}

func dco2Waveform(step int) oscillator.Waveform {
	switch step {
	case 1:
		return oscillator.WaveformSquare
	case 2:
		return oscillator.WaveformPulse
	case 3:
		return oscillator.WaveformSine
	case 4:
		return oscillator.WaveformNoise
	default:
		return oscillator.WaveformSaw
	}
}

// hubFilterMode quantizes the VCF TYPE hub amount onto the four responses.
func hubFilterMode(amount float64) filter.Mode {
	switch {
	case amount < 0.25:
		return filter.ModeLP12
	case amount < 0.5:
		return filter.ModeLP24
	case amount < 0.75:
		return filter.ModeHP12
	default:
		return filter.ModeBP12
	}
}

// hubLFOWaveform quantizes the LFO WAVE hub amount onto the four shapes.
func hubLFOWaveform(amount float64) modulation.LFOWaveform {
	switch {
	case amount < 0.25:
		return modulation.LFOTriangle
	case amount < 0.5:
		return modulation.LFORamp
	case amount < 0.75:
		return modulation.LFOSquare
	default:
		return modulation.LFOSampleHold
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sanitize replaces NaN/Inf with silence and soft-clamps the sample into
// [-1, 1].
func sanitize(s float32) float32 {
	v := float64(s)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	// Soft knee above 0.8, saturating at unity. Unity gain below the knee.
	const knee = 0.8
	a := math.Abs(v)
	if a > knee {
		y := knee + (1.0-knee)*math.Tanh((a-knee)/(1.0-knee))
		if v < 0 {
			y = -y
		}
		v = y
	}
	return float32(v)
}
