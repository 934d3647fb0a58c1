package voice

// MaxVoices is the fixed polyphony ceiling. All voice state is allocated
// up front; nothing on the note-on path touches the heap.
const MaxVoices = 8

// Allocator assigns incoming notes to voices. In polyphonic operation it
// hands out free slots and steals the oldest voice when full, preferring
// voices already in release. Single-voice modes funnel everything through
// voice zero with last-note priority.
type Allocator struct {
	voices    [MaxVoices]*Voice
	polyphony int
	timestamp uint64

	// Held-note stack for single-voice modes, most recent last.
	held      [128]uint8
	heldCount int
}

// NewAllocator creates an allocator with all voices constructed at the
// given sample rate.
func NewAllocator(sampleRate float64) *Allocator {
	a := &Allocator{polyphony: MaxVoices}
	for i := range a.voices {
		a.voices[i] = newVoice(sampleRate)
	}
	return a
}

// SetPolyphony limits how many voices notes are spread across, 1..MaxVoices.
func (a *Allocator) SetPolyphony(n int) {
	if n < 1 {
		n = 1
	} else if n > MaxVoices {
		n = MaxVoices
	}
	if n < a.polyphony {
		for i := n; i < a.polyphony; i++ {
			a.voices[i].Steal()
		}
	}
	a.polyphony = n
}

// Polyphony returns the active voice limit.
func (a *Allocator) Polyphony() int {
	return a.polyphony
}

// Voice returns the voice at the given slot.
func (a *Allocator) Voice(i int) *Voice {
	return a.voices[i]
}

// NoteOn assigns a note to a voice and starts it. A free slot is one whose
// amplitude envelope has fully died out; when none exists the oldest voice
// is stolen, preferring voices already in release.
func (a *Allocator) NoteOn(note, velocity uint8, glideTime float64) *Voice {
	a.timestamp++

	v := a.findFree()
	if v == nil {
		v = a.findSteal()
		v.Steal()
	}
	v.Start(note, velocity, a.timestamp, glideTime, false)
	return v
}

func (a *Allocator) findFree() *Voice {
	for i := 0; i < a.polyphony; i++ {
		if !a.voices[i].Sounding() {
			return a.voices[i]
		}
	}
	return nil
}

func (a *Allocator) findSteal() *Voice {
	var oldest *Voice
	var oldestReleasing *Voice
	for i := 0; i < a.polyphony; i++ {
		v := a.voices[i]
		if oldest == nil || v.Timestamp() < oldest.Timestamp() {
			oldest = v
		}
		if v.InRelease() {
			if oldestReleasing == nil || v.Timestamp() < oldestReleasing.Timestamp() {
				oldestReleasing = v
			}
		}
	}
	if oldestReleasing != nil {
		return oldestReleasing
	}
	return oldest
}

// NoteOff releases every voice holding the note.
func (a *Allocator) NoteOff(note uint8) {
	for i := 0; i < a.polyphony; i++ {
		v := a.voices[i]
		if v.Active && v.Note == note {
			v.Active = false
			v.Release()
		}
	}
}

// AllNotesOff releases every sounding voice and clears the held-note
// stack.
func (a *Allocator) AllNotesOff() {
	for _, v := range a.voices {
		if v.Active {
			v.Active = false
		}
		v.Release()
	}
	a.heldCount = 0
}

// Reset silences everything immediately.
func (a *Allocator) Reset() {
	for _, v := range a.voices {
		v.Steal()
	}
	a.heldCount = 0
}

// ActiveCount returns how many voices are currently sounding, including
// voices in release.
func (a *Allocator) ActiveCount() int {
	n := 0
	for i := 0; i < a.polyphony; i++ {
		if a.voices[i].Sounding() {
			n++
		}
	}
	return n
}

// MonoNoteOn routes a note to voice zero with last-note priority. A note
// arriving while another is held glides and plays legato.
func (a *Allocator) MonoNoteOn(note, velocity uint8, glideTime float64) *Voice {
	a.timestamp++
	legato := a.heldCount > 0
	a.pushHeld(note)

	v := a.voices[0]
	if !legato {
		glideTime = 0
	}
	v.Start(note, velocity, a.timestamp, glideTime, legato && v.EnvAmp.IsActive())
	return v
}

// MonoNoteOff removes the note from the held stack. If other notes remain
// held the voice returns to the most recent of them; otherwise it
// releases. Returns the voice when it changed pitch, nil otherwise.
func (a *Allocator) MonoNoteOff(note uint8, glideTime float64) *Voice {
	a.removeHeld(note)
	v := a.voices[0]

	if a.heldCount > 0 {
		prev := a.held[a.heldCount-1]
		if v.Active && v.Note != prev {
			a.timestamp++
			v.Start(prev, uint8(v.Velocity*127), a.timestamp, glideTime, true)
			return v
		}
		return nil
	}

	if v.Active && v.Note == note {
		v.Active = false
		v.Release()
	}
	return nil
}

// HeldCount returns how many notes the single-voice stack is holding.
func (a *Allocator) HeldCount() int {
	return a.heldCount
}

func (a *Allocator) pushHeld(note uint8) {
	a.removeHeld(note)
	if a.heldCount < len(a.held) {
		a.held[a.heldCount] = note
		a.heldCount++
	}
}

func (a *Allocator) removeHeld(note uint8) {
	for i := 0; i < a.heldCount; i++ {
		if a.held[i] == note {
			copy(a.held[i:], a.held[i+1:a.heldCount])
			a.heldCount--
			return
		}
	}
}
