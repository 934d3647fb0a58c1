// Package param provides lock-free parameter storage shared between the
// control surface and the audio callback.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter is a single engine parameter. The normalized value is stored
// atomically so the UI goroutine can write while the audio callback reads.
type Parameter struct {
	ID           uint32
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // normalized
	StepCount    int

	value uint64

	// Display names for discrete parameters, indexed by step.
	options []string

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Value returns the current normalized value in [0,1].
func (p *Parameter) Value() float64 {
	return math.Float64frombits(atomic.LoadUint64(&p.value))
}

// SetValue stores a normalized value, clamped to [0,1].
func (p *Parameter) SetValue(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	atomic.StoreUint64(&p.value, math.Float64bits(v))
}

// Plain returns the current value mapped to the [Min,Max] range. Discrete
// parameters are rounded to the nearest step.
func (p *Parameter) Plain() float64 {
	return p.Denormalize(p.Value())
}

// SetPlain stores a value given in the [Min,Max] range.
func (p *Parameter) SetPlain(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// Step returns the current value as a discrete step index.
func (p *Parameter) Step() int {
	if p.StepCount <= 0 {
		return 0
	}
	step := int(math.Round(p.Value() * float64(p.StepCount)))
	if step > p.StepCount {
		step = p.StepCount
	}
	return step
}

// SetStep stores a discrete step index.
func (p *Parameter) SetStep(step int) {
	if p.StepCount <= 0 {
		return
	}
	if step < 0 {
		step = 0
	} else if step > p.StepCount {
		step = p.StepCount
	}
	p.SetValue(float64(step) / float64(p.StepCount))
}

// Normalize maps a plain value onto [0,1].
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	n := (plain - p.Min) / (p.Max - p.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// Denormalize maps a normalized value onto [Min,Max].
func (p *Parameter) Denormalize(normalized float64) float64 {
	plain := p.Min + normalized*(p.Max-p.Min)
	if p.StepCount > 0 {
		span := (p.Max - p.Min) / float64(p.StepCount)
		plain = p.Min + math.Round((plain-p.Min)/span)*span
	}
	return plain
}

// DisplayString formats the current value for the panel. Discrete
// parameters with option names return the option; otherwise the formatter
// or a plain number is used.
func (p *Parameter) DisplayString() string {
	if len(p.options) > 0 {
		step := p.Step()
		if step < len(p.options) {
			return p.options[step]
		}
	}
	plain := p.Plain()
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}
	if p.StepCount > 0 {
		return fmt.Sprintf("%.0f", plain)
	}
	if p.Unit != "" {
		return fmt.Sprintf("%.2f %s", plain, p.Unit)
	}
	return fmt.Sprintf("%.2f", plain)
}

// Parse converts a display string back to a normalized value.
func (p *Parameter) Parse(str string) (float64, error) {
	for i, opt := range p.options {
		if opt == str {
			return float64(i) / float64(p.StepCount), nil
		}
	}
	if p.parseFunc != nil {
		plain, err := p.parseFunc(str)
		if err != nil {
			return 0, err
		}
		return p.Normalize(plain), nil
	}
	plain, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	return p.Normalize(plain), nil
}

// ResetToDefault restores the default value.
func (p *Parameter) ResetToDefault() {
	p.SetValue(p.DefaultValue)
}
