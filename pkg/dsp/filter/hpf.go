package filter

import "math"

// HPF is the non-resonant one-pole high-pass placed after the voice filter.
// Amount 0 bypasses it; 1 puts the corner near 2 kHz for thinning pads.
type HPF struct {
	sampleRate float64
	amount     float64
	coeff      float64
	prevIn     float64
	prevOut    float64
}

// NewHPF creates a bypassed high-pass filter.
func NewHPF(sampleRate float64) *HPF {
	h := &HPF{sampleRate: sampleRate}
	h.SetAmount(0)
	return h
}

// SetAmount maps 0..1 onto a 20 Hz to 2 kHz corner, exponential.
func (h *HPF) SetAmount(amount float64) {
	if amount < 0 {
		amount = 0
	} else if amount > 1 {
		amount = 1
	}
	h.amount = amount
	corner := 20.0 * math.Pow(100.0, amount)
	x := math.Exp(-2.0 * math.Pi * corner / h.sampleRate)
	h.coeff = x
}

// Reset clears the filter state.
func (h *HPF) Reset() {
	h.prevIn, h.prevOut = 0, 0
}

// Process filters one sample. With amount 0 the 20 Hz corner only removes
// DC offset.
func (h *HPF) Process(input float32) float32 {
	in := float64(input)
	out := h.coeff * (h.prevOut + in - h.prevIn)
	h.prevIn = in
	h.prevOut = out
	return float32(out)
}
