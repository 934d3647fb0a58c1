package synth

import (
	"math"

	"github.com/jovian-synth/jovian/pkg/framework/param"
)

// Parameter IDs, stable across presets. Continuous parameters take panel
// values 0..100; enumerated parameters take their option index.
const (
	ParamDCO1Octave uint32 = iota
	ParamDCO1Wave
	ParamDCO1PW
	ParamXMod
	ParamDCO2Octave
	ParamDCO2Wave
	ParamDCO2Tune
	ParamOscSync
	ParamOscMix
	ParamVCFCutoff
	ParamVCFResonance
	ParamVCFEnvAmount
	ParamVCFKeyTrack
	ParamVCFVelocity
	ParamVCFAttack
	ParamVCFDecay
	ParamVCFSustain
	ParamVCFRelease
	ParamVCAAttack
	ParamVCADecay
	ParamVCASustain
	ParamVCARelease
	ParamLFORate
	ParamVoiceMode
	ParamPortamento
	ParamUnisonDetune
	ParamModHubDest
	ParamModHubAmount

	ParamCount
)

// Mode selects which renderer consumes the voice pool.
type Mode int

const (
	ModeMono Mode = iota
	ModePoly
	ModeUnison
)

// Sync settings for the DCO2 slave oscillator.
const (
	SyncOff = iota
	SyncHard
	SyncSoft
)

// Octave multipliers for the three footage settings 16', 8', 4'.
var octaveMultipliers = [3]float64{0.5, 1.0, 2.0}

// newRegistry builds the parameter set with panel metadata and display
// formatting.
func newRegistry() *param.Registry {
	r := param.NewRegistry()
	pct := func(b *param.Builder) *param.Parameter {
		return b.Range(0, 100).Formatter(param.PercentFormatter, param.PercentParser).Build()
	}

	r.Add(
		param.New(ParamDCO1Octave, "DCO1 Octave").Options("16'", "8'", "4'").Default(1).Build(),
		param.New(ParamDCO1Wave, "DCO1 Wave").
			Options("SAW", "SQUARE", "PULSE", "TRIANGLE", "SAW PWM").Build(),
		pct(param.New(ParamDCO1PW, "DCO1 PW").Default(50)),
		pct(param.New(ParamXMod, "XMOD")),
		param.New(ParamDCO2Octave, "DCO2 Octave").Options("16'", "8'", "4'").Default(1).Build(),
		param.New(ParamDCO2Wave, "DCO2 Wave").
			Options("SAW", "SQUARE", "PULSE", "SINE", "NOISE").Build(),
		param.New(ParamDCO2Tune, "DCO2 Tune").Range(0, 100).Default(50).
			Formatter(func(v float64) string {
				return param.CentsFormatter(v - 50)
			}, func(s string) (float64, error) {
				c, err := param.CentsParser(s)
				return c + 50, err
			}).Build(),
		param.New(ParamOscSync, "Sync").Options("OFF", "HARD", "SOFT").Build(),
		pct(param.New(ParamOscMix, "Osc Mix").Default(50)),
		pct(param.New(ParamVCFCutoff, "VCF Cutoff").Default(100)),
		pct(param.New(ParamVCFResonance, "VCF Res")),
		pct(param.New(ParamVCFEnvAmount, "VCF Env")),
		pct(param.New(ParamVCFKeyTrack, "VCF KeyFlw")),
		pct(param.New(ParamVCFVelocity, "VCF Vel")),
		envTimeParam(ParamVCFAttack, "VCF Attack", 0),
		envTimeParam(ParamVCFDecay, "VCF Decay", 30),
		pct(param.New(ParamVCFSustain, "VCF Sustain").Default(100)),
		envTimeParam(ParamVCFRelease, "VCF Release", 20),
		envTimeParam(ParamVCAAttack, "VCA Attack", 0),
		envTimeParam(ParamVCADecay, "VCA Decay", 30),
		pct(param.New(ParamVCASustain, "VCA Sustain").Default(100)),
		envTimeParam(ParamVCARelease, "VCA Release", 20),
		param.New(ParamLFORate, "LFO Rate").Range(0, 100).Default(30).
			Formatter(func(v float64) string {
				return param.FrequencyFormatter(paramToLFORate(v))
			}, func(s string) (float64, error) {
				hz, err := param.FrequencyParser(s)
				return lfoRateToParam(hz), err
			}).Build(),
		param.New(ParamVoiceMode, "Mode").Options("MONO", "POLY", "UNISON").Default(1).Build(),
		param.New(ParamPortamento, "Portamento").Range(0, 100).
			Formatter(func(v float64) string {
				return param.TimeFormatter(paramToGlideTime(v))
			}, func(s string) (float64, error) {
				sec, err := param.TimeParser(s)
				return glideTimeToParam(sec), err
			}).Build(),
		param.New(ParamUnisonDetune, "Uni Detune").Range(0, 100).Default(25).
			Formatter(func(v float64) string {
				return param.CentsFormatter(v * 0.5)
			}, func(s string) (float64, error) {
				c, err := param.CentsParser(s)
				return c * 2, err
			}).Build(),
		param.New(ParamModHubDest, "Mod Select").
			Options("LFO>PWM", "LFO>VCF", "LFO>VCO", "ENV>PWM", "ENV>VCF",
				"ENV>VCO", "HPF", "VCF TYPE", "LFO DELAY", "LFO WAVE").Build(),
		pct(param.New(ParamModHubAmount, "Mod Amount")),
	)
	return r
}

func envTimeParam(id uint32, name string, def float64) *param.Parameter {
	return param.New(id, name).Range(0, 100).Default(def).
		Formatter(func(v float64) string {
			return param.TimeFormatter(paramToEnvelopeTime(v))
		}, func(s string) (float64, error) {
			sec, err := param.TimeParser(s)
			return envelopeTimeToParam(sec), err
		}).Build()
}

// paramToEnvelopeTime maps a 0..100 panel value onto 1 ms..5 s with a
// quadratic curve so short times remain dialable.
func paramToEnvelopeTime(v float64) float64 {
	n := v / 100.0
	return 0.001 + n*n*4.999
}

// envelopeTimeToParam inverts paramToEnvelopeTime for text entry.
func envelopeTimeToParam(t float64) float64 {
	if t <= 0.001 {
		return 0
	}
	return 100 * math.Sqrt((t-0.001)/4.999)
}

// paramToGlideTime maps 0..100 onto 0..2 s, quadratic.
func paramToGlideTime(v float64) float64 {
	n := v / 100.0
	return n * n * 2.0
}

func glideTimeToParam(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return 100 * math.Sqrt(t/2.0)
}

// paramToLFORate maps 0..100 onto 0.01..20 Hz, exponential.
func paramToLFORate(v float64) float64 {
	n := v / 100.0
	return 0.01 * math.Pow(2000.0, n)
}

func lfoRateToParam(hz float64) float64 {
	if hz <= 0.01 {
		return 0
	}
	return 100 * math.Log(hz/0.01) / math.Log(2000.0)
}

// paramToCutoff maps 0..100 onto 20 Hz..16 kHz, exponential.
func paramToCutoff(v float64) float64 {
	n := v / 100.0
	return 20.0 * math.Pow(800.0, n)
}
