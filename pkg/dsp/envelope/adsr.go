// Package envelope implements the linear ADSR generators used for
// amplitude, filter and pitch modulation.
package envelope

// Stage identifies where an envelope is in its lifecycle.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

const (
	minTime = 0.001
	maxTime = 10.0
)

// ADSR is a linear attack-decay-sustain-release generator. Rates are
// per-sample increments computed when a time parameter changes, so Process
// is a handful of arithmetic operations.
type ADSR struct {
	sampleRate float64

	attackTime  float64
	decayTime   float64
	sustain     float64
	releaseTime float64

	attackRate  float64
	decayRate   float64
	releaseRate float64

	stage    Stage
	level    float64
	velocity float64
}

// New creates an envelope with a 10 ms attack, 100 ms decay, 0.7 sustain
// and 200 ms release.
func New(sampleRate float64) *ADSR {
	e := &ADSR{sampleRate: sampleRate, sustain: 0.7, velocity: 1.0}
	e.SetAttack(0.01)
	e.SetDecay(0.1)
	e.SetRelease(0.2)
	return e
}

// SetAttack sets the attack time in seconds, clamped to [1ms, 10s].
func (e *ADSR) SetAttack(seconds float64) {
	e.attackTime = clampTime(seconds)
	e.attackRate = 1.0 / (e.attackTime * e.sampleRate)
}

// SetDecay sets the decay time in seconds, clamped to [1ms, 10s].
func (e *ADSR) SetDecay(seconds float64) {
	e.decayTime = clampTime(seconds)
	e.decayRate = 1.0 / (e.decayTime * e.sampleRate)
}

// SetSustain sets the sustain level 0..1.
func (e *ADSR) SetSustain(level float64) {
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	e.sustain = level
}

// SetRelease sets the release time in seconds, clamped to [1ms, 10s].
func (e *ADSR) SetRelease(seconds float64) {
	e.releaseTime = clampTime(seconds)
	e.releaseRate = 1.0 / (e.releaseTime * e.sampleRate)
}

// Trigger starts the attack. The envelope ramps from its current level, so
// retriggering an active voice does not click. Velocity 0..1 scales the
// output amplitude.
func (e *ADSR) Trigger(velocity float64) {
	if velocity < 0 {
		velocity = 0
	} else if velocity > 1 {
		velocity = 1
	}
	e.velocity = velocity
	e.stage = StageAttack
}

// Release moves the envelope into its release stage from wherever it is.
func (e *ADSR) Release() {
	if e.stage != StageIdle {
		e.stage = StageRelease
	}
}

// Reset silences the envelope immediately.
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.level = 0
}

// IsActive reports whether the envelope is producing output. A voice slot
// is only reclaimable once its amplitude envelope goes inactive.
func (e *ADSR) IsActive() bool {
	return e.stage != StageIdle
}

// Stage returns the current lifecycle stage.
func (e *ADSR) CurrentStage() Stage {
	return e.stage
}

// Process advances the envelope one sample and returns the velocity-scaled
// level.
func (e *ADSR) Process() float32 {
	switch e.stage {
	case StageAttack:
		e.level += e.attackRate
		if e.level >= 1.0 {
			e.level = 1.0
			e.stage = StageDecay
		}
	case StageDecay:
		e.level -= e.decayRate
		if e.level <= e.sustain {
			e.level = e.sustain
			e.stage = StageSustain
		}
	case StageSustain:
		e.level = e.sustain
	case StageRelease:
		e.level -= e.releaseRate
		if e.level <= 0 {
			e.level = 0
			e.stage = StageIdle
		}
	}
	return float32(e.level * e.velocity)
}

func clampTime(seconds float64) float64 {
	if seconds < minTime {
		return minTime
	}
	if seconds > maxTime {
		return maxTime
	}
	return seconds
}
