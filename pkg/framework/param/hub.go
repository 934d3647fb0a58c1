package param

import (
	"fmt"
	"sync"
)

// HubDestination identifies a routing target of the modulation hub, the
// shared select-then-set control pair that fans one amount knob out over
// many destinations.
type HubDestination int

const (
	HubLFOToPWM HubDestination = iota
	HubLFOToVCF
	HubLFOToVCO
	HubEnvToPWM
	HubEnvToVCF
	HubEnvToVCO
	HubHPF
	HubVCFType
	HubLFODelay
	HubLFOWave
	HubDestinationCount
)

var hubNames = [HubDestinationCount]string{
	"LFO>PWM", "LFO>VCF", "LFO>VCO",
	"ENV>PWM", "ENV>VCF", "ENV>VCO",
	"HPF", "VCF TYPE", "LFO DELAY", "LFO WAVE",
}

// String returns the panel label for the destination.
func (d HubDestination) String() string {
	if d < 0 || d >= HubDestinationCount {
		return "?"
	}
	return hubNames[d]
}

// Hub stores one amount per destination. Selecting a destination only
// changes which amount the shared knob edits; the other destinations keep
// their stored values.
type Hub struct {
	mu       sync.RWMutex
	selected HubDestination
	amounts  [HubDestinationCount]float64

	// Display strings are cached so repeated reads return stable values.
	displayCache [HubDestinationCount]string
	displayDirty [HubDestinationCount]bool
}

// NewHub creates a hub with every amount at zero and the first destination
// selected.
func NewHub() *Hub {
	h := &Hub{}
	for i := range h.displayDirty {
		h.displayDirty[i] = true
	}
	return h
}

// Select changes which destination the amount knob edits.
func (h *Hub) Select(d HubDestination) {
	if d < 0 {
		d = 0
	} else if d >= HubDestinationCount {
		d = HubDestinationCount - 1
	}
	h.mu.Lock()
	h.selected = d
	h.mu.Unlock()
}

// Selected returns the destination the amount knob currently edits.
func (h *Hub) Selected() HubDestination {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.selected
}

// SetAmount stores a 0..1 amount for the selected destination.
func (h *Hub) SetAmount(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	h.mu.Lock()
	h.amounts[h.selected] = v
	h.displayDirty[h.selected] = true
	h.mu.Unlock()
}

// Amount returns the stored amount for a destination.
func (h *Hub) Amount(d HubDestination) float64 {
	if d < 0 || d >= HubDestinationCount {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.amounts[d]
}

// SetAmountFor stores an amount for a specific destination regardless of
// selection, used by preset loading.
func (h *Hub) SetAmountFor(d HubDestination, v float64) {
	if d < 0 || d >= HubDestinationCount {
		return
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	h.mu.Lock()
	h.amounts[d] = v
	h.displayDirty[d] = true
	h.mu.Unlock()
}

// DisplayString returns "DEST amount%" for a destination. The string is
// rebuilt only when the amount changes.
func (h *Hub) DisplayString(d HubDestination) string {
	if d < 0 || d >= HubDestinationCount {
		return "?"
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.displayDirty[d] {
		h.displayCache[d] = fmt.Sprintf("%s %.0f%%", hubNames[d], h.amounts[d]*100)
		h.displayDirty[d] = false
	}
	return h.displayCache[d]
}
