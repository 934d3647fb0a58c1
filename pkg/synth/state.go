package synth

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jovian-synth/jovian/pkg/framework/param"
	"github.com/jovian-synth/jovian/pkg/framework/state"
)

// SaveState writes the current panel as a patch: every parameter plus the
// per-destination hub amounts, which live outside the registry.
func (e *Engine) SaveState(w io.Writer) error {
	if !e.initialized {
		return fmt.Errorf("synth: engine not initialized")
	}
	m := state.NewManager(e.registry)
	m.SetExtraFuncs(e.saveHub, e.loadHub)
	return m.Save(w)
}

// LoadState restores a patch written by SaveState. Smoothed parameters
// jump to their restored targets so the patch does not fade in.
func (e *Engine) LoadState(r io.Reader) error {
	if !e.initialized {
		return fmt.Errorf("synth: engine not initialized")
	}
	m := state.NewManager(e.registry)
	m.SetExtraFuncs(e.saveHub, e.loadHub)
	if err := m.Load(r); err != nil {
		return err
	}

	e.hub.Select(param.HubDestination(e.registry.Get(ParamModHubDest).Step()))
	e.registry.Get(ParamModHubAmount).SetPlain(e.hub.Amount(e.hub.Selected()) * 100)
	e.cutoffSmoother.Reset(paramToCutoff(e.registry.Get(ParamVCFCutoff).Plain()))
	e.mixSmoother.Reset(e.registry.Get(ParamOscMix).Plain() / 100.0)
	return nil
}

func (e *Engine) saveHub(w io.Writer) error {
	for d := param.HubDestination(0); d < param.HubDestinationCount; d++ {
		if err := binary.Write(w, binary.LittleEndian, e.hub.Amount(d)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) loadHub(r io.Reader) error {
	for d := param.HubDestination(0); d < param.HubDestinationCount; d++ {
		var amt float64
		if err := binary.Read(r, binary.LittleEndian, &amt); err != nil {
			return err
		}
		e.hub.SetAmountFor(d, amt)
	}
	return nil
}
