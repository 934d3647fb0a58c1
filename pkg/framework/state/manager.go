// Package state serializes parameter snapshots to a compact binary patch
// format, so front ends can persist and recall edits between runs.
package state

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jovian-synth/jovian/pkg/framework/param"
)

const magic = "JVNPATCH"

// ExtraSaveFunc writes state that lives outside the registry.
type ExtraSaveFunc func(w io.Writer) error

// ExtraLoadFunc reads back what ExtraSaveFunc wrote.
type ExtraLoadFunc func(r io.Reader) error

// Manager snapshots a parameter registry. Values travel normalized so a
// patch stays valid if a parameter's plain range is retuned later.
type Manager struct {
	version  uint32
	registry *param.Registry
	save     ExtraSaveFunc
	load     ExtraLoadFunc
}

func NewManager(registry *param.Registry) *Manager {
	return &Manager{version: 1, registry: registry}
}

// SetExtraFuncs registers hooks for state outside the registry. Both must
// be set together; the load hook consumes exactly what the save hook
// wrote.
func (m *Manager) SetExtraFuncs(save ExtraSaveFunc, load ExtraLoadFunc) {
	m.save = save
	m.load = load
}

// Save writes the full snapshot: header, id/value pairs, extra section.
func (m *Manager) Save(w io.Writer) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.version); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(m.registry.Count())); err != nil {
		return err
	}
	for _, p := range m.registry.All() {
		if err := binary.Write(w, binary.LittleEndian, p.ID); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, p.Value()); err != nil {
			return err
		}
	}

	hasExtra := uint32(0)
	if m.save != nil {
		hasExtra = 1
	}
	if err := binary.Write(w, binary.LittleEndian, hasExtra); err != nil {
		return err
	}
	if m.save != nil {
		return m.save(w)
	}
	return nil
}

// Load reads a snapshot back into the registry. Unknown parameter IDs are
// skipped so older patches keep loading after new parameters are added.
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return err
	}
	if string(header) != magic {
		return fmt.Errorf("state: not a patch file")
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version > m.version {
		return fmt.Errorf("state: patch version %d is newer than supported %d", version, m.version)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		var id uint32
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return err
		}
		if p := m.registry.Get(id); p != nil {
			p.SetValue(value)
		}
	}

	var hasExtra uint32
	if err := binary.Read(r, binary.LittleEndian, &hasExtra); err != nil {
		return err
	}
	if hasExtra != 0 {
		if m.load == nil {
			return fmt.Errorf("state: patch has an extra section but no load hook is set")
		}
		return m.load(r)
	}
	return nil
}
