package synth

import (
	"fmt"

	"github.com/jovian-synth/jovian/pkg/framework/param"
)

// Preset is a full parameter snapshot plus the hub's per-destination
// amounts.
type Preset struct {
	Name   string
	Values [ParamCount]int
	Hub    [param.HubDestinationCount]float64
}

// factoryPresets returns the built-in programs. Values index by parameter
// ID.
func factoryPresets() []Preset {
	mk := func(name string, set map[uint32]int, hub map[param.HubDestination]float64) Preset {
		p := Preset{Name: name}
		// Non-zero panel defaults.
		p.Values[ParamDCO1Octave] = 1
		p.Values[ParamDCO2Octave] = 1
		p.Values[ParamDCO1PW] = 50
		p.Values[ParamDCO2Tune] = 50
		p.Values[ParamOscMix] = 50
		p.Values[ParamVCFCutoff] = 100
		p.Values[ParamVCFSustain] = 100
		p.Values[ParamVCASustain] = 100
		p.Values[ParamVCFDecay] = 30
		p.Values[ParamVCADecay] = 30
		p.Values[ParamVCFRelease] = 20
		p.Values[ParamVCARelease] = 20
		p.Values[ParamLFORate] = 30
		p.Values[ParamVoiceMode] = int(ModePoly)
		p.Values[ParamUnisonDetune] = 25
		for id, v := range set {
			p.Values[id] = v
		}
		for d, v := range hub {
			p.Hub[d] = v
		}
		return p
	}

	return []Preset{
		mk("INIT", nil, nil),

		mk("JOVIAN BASS", map[uint32]int{
			ParamDCO1Octave:   0,
			ParamDCO1Wave:     0, // saw
			ParamDCO2Octave:   0,
			ParamDCO2Wave:     1, // square
			ParamDCO2Tune:     53,
			ParamOscMix:       40,
			ParamVCFCutoff:    35,
			ParamVCFResonance: 25,
			ParamVCFEnvAmount: 55,
			ParamVCFKeyTrack:  40,
			ParamVCFDecay:     35,
			ParamVCFSustain:   20,
			ParamVCAAttack:    0,
			ParamVCADecay:     40,
			ParamVCASustain:   70,
			ParamVCARelease:   15,
			ParamVoiceMode:    int(ModeMono),
		}, nil),

		mk("SYNC LEAD", map[uint32]int{
			ParamDCO1Wave:     0,
			ParamDCO2Wave:     0,
			ParamDCO2Tune:     62,
			ParamOscSync:      SyncHard,
			ParamOscMix:       65,
			ParamXMod:         15,
			ParamVCFCutoff:    70,
			ParamVCFResonance: 15,
			ParamVCFEnvAmount: 30,
			ParamVCFVelocity:  50,
			ParamVoiceMode:    int(ModeMono),
			ParamPortamento:   20,
			ParamLFORate:      45,
		}, map[param.HubDestination]float64{
			param.HubLFOToVCO: 0.15,
			param.HubLFODelay: 0.3,
		}),

		mk("GALILEAN PAD", map[uint32]int{
			ParamDCO1Wave:     4, // saw pwm
			ParamDCO1PW:       35,
			ParamDCO2Wave:     0,
			ParamDCO2Tune:     47,
			ParamVCFCutoff:    55,
			ParamVCFResonance: 10,
			ParamVCFEnvAmount: 25,
			ParamVCFAttack:    55,
			ParamVCFSustain:   60,
			ParamVCFRelease:   60,
			ParamVCAAttack:    50,
			ParamVCASustain:   85,
			ParamVCARelease:   65,
			ParamLFORate:      25,
		}, map[param.HubDestination]float64{
			param.HubLFOToPWM: 0.35,
			param.HubLFODelay: 0.5,
			param.HubHPF:      0.15,
		}),

		mk("JUNO BRASS", map[uint32]int{
			ParamDCO1Wave:     0,
			ParamDCO2Wave:     0,
			ParamDCO2Tune:     54,
			ParamOscMix:       50,
			ParamVCFCutoff:    45,
			ParamVCFResonance: 12,
			ParamVCFEnvAmount: 60,
			ParamVCFKeyTrack:  30,
			ParamVCFAttack:    12,
			ParamVCFDecay:     45,
			ParamVCFSustain:   45,
			ParamVCAAttack:    8,
			ParamVCASustain:   90,
			ParamVCARelease:   25,
			ParamVCFVelocity:  40,
		}, nil),

		mk("GRAND STACK", map[uint32]int{
			ParamDCO1Wave:   0,
			ParamDCO2Wave:   0,
			ParamDCO2Tune:   48,
			ParamOscMix:     30,
			ParamVCFCutoff:  60,
			ParamVCFAttack:  40,
			ParamVCAAttack:  35,
			ParamVCARelease: 55,
			ParamVCFRelease: 55,
			ParamVoiceMode:  int(ModeUnison),
			ParamUnisonDetune: 40,
		}, map[param.HubDestination]float64{
			param.HubHPF: 0.1,
		}),
	}
}

// PresetCount returns how many preset slots exist.
func (e *Engine) PresetCount() int {
	return len(e.presets)
}

// PresetName returns the name of a preset slot.
func (e *Engine) PresetName(idx int) string {
	if idx < 0 || idx >= len(e.presets) {
		return ""
	}
	return e.presets[idx].Name
}

// LoadPreset applies a full parameter snapshot. Smoothed parameters jump
// to their targets immediately so the new program does not fade in.
func (e *Engine) LoadPreset(idx int) error {
	if !e.initialized {
		return fmt.Errorf("synth: engine not initialized")
	}
	if idx < 0 || idx >= len(e.presets) {
		return fmt.Errorf("synth: preset index %d out of range", idx)
	}
	p := &e.presets[idx]

	for id := uint32(0); id < ParamCount; id++ {
		e.SetParameter(id, p.Values[id])
	}
	for d := param.HubDestination(0); d < param.HubDestinationCount; d++ {
		e.hub.SetAmountFor(d, p.Hub[d])
	}
	// The amount knob mirrors whatever destination the preset selected.
	e.registry.Get(ParamModHubAmount).SetPlain(e.hub.Amount(e.hub.Selected()) * 100)

	e.cutoffSmoother.Reset(paramToCutoff(e.registry.Get(ParamVCFCutoff).Plain()))
	e.mixSmoother.Reset(e.registry.Get(ParamOscMix).Plain() / 100.0)
	return nil
}

// SavePreset snapshots the current parameter and hub state into a preset
// slot, replacing its contents.
func (e *Engine) SavePreset(idx int, name string) error {
	if !e.initialized {
		return fmt.Errorf("synth: engine not initialized")
	}
	if idx < 0 || idx >= len(e.presets) {
		return fmt.Errorf("synth: preset index %d out of range", idx)
	}
	p := Preset{Name: name}
	for id := uint32(0); id < ParamCount; id++ {
		p.Values[id] = e.GetParameter(id)
	}
	for d := param.HubDestination(0); d < param.HubDestinationCount; d++ {
		p.Hub[d] = e.hub.Amount(d)
	}
	e.presets[idx] = p
	return nil
}
