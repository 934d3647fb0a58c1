package param

import "math"

// SmoothingType selects the interpolation curve used by a Smoother.
type SmoothingType int

const (
	// LinearSmoothing steps in equal increments over the rate in samples.
	LinearSmoothing SmoothingType = iota
	// ExponentialSmoothing is a one-pole filter; rate is the pole 0.9-0.999.
	ExponentialSmoothing
	// LogarithmicSmoothing interpolates in log space, for frequency sweeps.
	LogarithmicSmoothing
)

// Smoother removes zipper noise from per-block parameter changes by
// interpolating toward the target once per sample.
type Smoother struct {
	smoothingType SmoothingType
	current       float64
	target        float64
	rate          float64
	isSmoothing   bool

	step       float64
	logCurrent float64
	logTarget  float64
	logStep    float64
}

const smootherThreshold = 0.0001

// NewSmoother creates a smoother. For linear and logarithmic types the rate
// is a sample count; for exponential it is the filter pole.
func NewSmoother(smoothingType SmoothingType, rate float64) *Smoother {
	return &Smoother{smoothingType: smoothingType, rate: rate}
}

// SetTarget begins smoothing toward a new value. Tiny changes are ignored.
func (s *Smoother) SetTarget(target float64) {
	if math.Abs(target-s.target) < smootherThreshold && s.isSmoothing {
		return
	}
	if math.Abs(target-s.current) < smootherThreshold {
		s.current = target
		s.target = target
		s.isSmoothing = false
		return
	}
	s.target = target
	s.isSmoothing = true

	switch s.smoothingType {
	case LinearSmoothing:
		if s.rate > 0 {
			s.step = (target - s.current) / s.rate
		}
	case LogarithmicSmoothing:
		const minVal = 0.001
		cur := math.Max(s.current, minVal)
		tgt := math.Max(target, minVal)
		s.logCurrent = math.Log(cur)
		s.logTarget = math.Log(tgt)
		if s.rate > 0 {
			s.logStep = (s.logTarget - s.logCurrent) / s.rate
		}
	}
}

// Next advances one sample and returns the smoothed value.
func (s *Smoother) Next() float64 {
	if !s.isSmoothing {
		return s.current
	}
	switch s.smoothingType {
	case ExponentialSmoothing:
		s.current += (s.target - s.current) * (1.0 - s.rate)
		if math.Abs(s.current-s.target) < smootherThreshold {
			s.current = s.target
			s.isSmoothing = false
		}
	case LinearSmoothing:
		s.current += s.step
		if (s.step > 0 && s.current >= s.target) || (s.step < 0 && s.current <= s.target) {
			s.current = s.target
			s.isSmoothing = false
		}
	case LogarithmicSmoothing:
		s.logCurrent += s.logStep
		if (s.logStep > 0 && s.logCurrent >= s.logTarget) || (s.logStep < 0 && s.logCurrent <= s.logTarget) {
			s.current = s.target
			s.isSmoothing = false
		} else {
			s.current = math.Exp(s.logCurrent)
		}
	}
	return s.current
}

// Value returns the current value without advancing.
func (s *Smoother) Value() float64 {
	return s.current
}

// IsSmoothing reports whether the smoother has reached its target.
func (s *Smoother) IsSmoothing() bool {
	return s.isSmoothing
}

// Reset jumps directly to a value with no interpolation.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.isSmoothing = false
}

// SetRate updates the smoothing rate.
func (s *Smoother) SetRate(rate float64) {
	s.rate = rate
}
