package voice

import (
	"math"
	"testing"
)

const testSampleRate = 48000.0

func TestNoteOnAssignsFreeVoices(t *testing.T) {
	a := NewAllocator(testSampleRate)

	v1 := a.NoteOn(60, 100, 0)
	v2 := a.NoteOn(64, 100, 0)
	if v1 == v2 {
		t.Fatal("two notes should get distinct voices")
	}
	if v1.Note != 60 || v2.Note != 64 {
		t.Errorf("notes: got %d, %d", v1.Note, v2.Note)
	}
	if a.ActiveCount() != 2 {
		t.Errorf("active count: got %d", a.ActiveCount())
	}
}

func TestReleasedVoiceNotReclaimedUntilSilent(t *testing.T) {
	a := NewAllocator(testSampleRate)
	a.SetPolyphony(2)

	v1 := a.NoteOn(60, 100, 0)
	a.NoteOn(64, 100, 0)
	// Run the envelope a little so it has level to release from.
	for i := 0; i < 100; i++ {
		v1.EnvAmp.Process()
	}
	a.NoteOff(60)

	if !v1.Sounding() {
		t.Fatal("released voice with active envelope should still sound")
	}

	// A third note must steal rather than land in the releasing slot as a
	// free voice, because the tail is still audible. The releasing voice is
	// the preferred steal target.
	v3 := a.NoteOn(67, 100, 0)
	if v3 != v1 {
		t.Error("steal should prefer the releasing voice")
	}
}

func TestStealOldestWhenFull(t *testing.T) {
	a := NewAllocator(testSampleRate)

	for i := 0; i < MaxVoices; i++ {
		a.NoteOn(uint8(40+i), 100, 0)
	}
	stolen := a.NoteOn(80, 100, 0)
	if stolen.Note != 80 {
		t.Errorf("stolen voice note: got %d", stolen.Note)
	}
	// First note is gone.
	for i := 0; i < MaxVoices; i++ {
		if a.Voice(i).Active && a.Voice(i).Note == 40 {
			t.Error("oldest note should have been stolen")
		}
	}
}

func TestPolyphonyLimit(t *testing.T) {
	a := NewAllocator(testSampleRate)
	a.SetPolyphony(3)

	seen := map[*Voice]bool{}
	for i := 0; i < 6; i++ {
		seen[a.NoteOn(uint8(50+i), 100, 0)] = true
	}
	if len(seen) != 3 {
		t.Errorf("notes should cycle through 3 voices, used %d", len(seen))
	}
}

func TestNoteOffReleasesAllMatching(t *testing.T) {
	a := NewAllocator(testSampleRate)
	a.NoteOn(60, 100, 0)
	a.NoteOn(60, 100, 0)
	a.NoteOff(60)
	for i := 0; i < MaxVoices; i++ {
		if a.Voice(i).Active {
			t.Error("all voices for the note should be released")
		}
	}
}

func TestAllNotesOff(t *testing.T) {
	a := NewAllocator(testSampleRate)
	a.NoteOn(60, 100, 0)
	a.NoteOn(64, 100, 0)
	a.MonoNoteOn(67, 100, 0)
	a.AllNotesOff()
	for i := 0; i < MaxVoices; i++ {
		if a.Voice(i).Active {
			t.Error("voice still active after all notes off")
		}
	}
	if a.HeldCount() != 0 {
		t.Error("held stack should be cleared")
	}
}

func TestMonoLastNotePriority(t *testing.T) {
	a := NewAllocator(testSampleRate)

	v := a.MonoNoteOn(60, 100, 0)
	a.MonoNoteOn(64, 100, 0)
	if v.Note != 64 {
		t.Errorf("second note should take over, got %d", v.Note)
	}

	// Releasing the new note while the first is held returns to it.
	a.MonoNoteOff(64, 0)
	if v.Note != 60 {
		t.Errorf("should return to held note, got %d", v.Note)
	}
	if !v.Active {
		t.Error("voice should stay active while a note is held")
	}

	a.MonoNoteOff(60, 0)
	if v.Active {
		t.Error("voice should release when the last note lifts")
	}
}

func TestGlideMonotonic(t *testing.T) {
	a := NewAllocator(testSampleRate)

	v := a.MonoNoteOn(48, 100, 0.1)
	a.MonoNoteOn(60, 100, 0.1)

	// Pitch must rise monotonically toward the new note and land on it.
	target := 440.0 * math.Pow(2, (60.0-69.0)/12.0)
	prev := v.Pitch()
	for i := 0; i < 4800; i++ {
		p := v.NextPitch()
		if p < prev-1e-9 {
			t.Fatalf("glide went backwards at sample %d: %f < %f", i, p, prev)
		}
		prev = p
	}
	if math.Abs(prev-target) > 0.01 {
		t.Errorf("glide should land on target %f, got %f", target, prev)
	}
	if v.Gliding() {
		t.Error("glide should be finished")
	}
}

func TestNoGlideOnFreshNote(t *testing.T) {
	a := NewAllocator(testSampleRate)
	v := a.NoteOn(69, 100, 0.5)
	if math.Abs(v.Pitch()-440.0) > 0.001 {
		t.Errorf("fresh note should start on pitch, got %f", v.Pitch())
	}
}
