package state

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/jovian-synth/jovian/pkg/framework/param"
)

func testRegistry() *param.Registry {
	r := param.NewRegistry()
	r.Add(
		param.New(0, "Cutoff").Range(20, 16000).Default(1000).Build(),
		param.New(1, "Resonance").Range(0, 100).Default(0).Build(),
		param.New(7, "Wave").Options("SAW", "SQR", "TRI").Build(),
	)
	return r
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := testRegistry()
	src.Get(0).SetPlain(4200)
	src.Get(1).SetPlain(63)
	src.Get(7).SetStep(2)

	var buf bytes.Buffer
	if err := NewManager(src).Save(&buf); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	dst := testRegistry()
	if err := NewManager(dst).Load(&buf); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got := dst.Get(0).Plain(); math.Abs(got-4200) > 0.5 {
		t.Errorf("cutoff: want 4200, got %f", got)
	}
	if got := dst.Get(1).Plain(); math.Abs(got-63) > 0.5 {
		t.Errorf("resonance: want 63, got %f", got)
	}
	if got := dst.Get(7).Step(); got != 2 {
		t.Errorf("wave step: want 2, got %d", got)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("NOTAPATCHFILE AT ALL")
	if err := NewManager(testRegistry()).Load(buf); err == nil {
		t.Error("expected error for bad magic")
	}
}

func TestLoadSkipsUnknownParameters(t *testing.T) {
	src := param.NewRegistry()
	src.Add(
		param.New(0, "Cutoff").Range(20, 16000).Default(1000).Build(),
		param.New(99, "Removed").Range(0, 1).Default(0).Build(),
	)
	src.Get(0).SetPlain(5000)

	var buf bytes.Buffer
	if err := NewManager(src).Save(&buf); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	dst := param.NewRegistry()
	dst.Add(param.New(0, "Cutoff").Range(20, 16000).Default(1000).Build())
	if err := NewManager(dst).Load(&buf); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := dst.Get(0).Plain(); math.Abs(got-5000) > 0.5 {
		t.Errorf("cutoff: want 5000, got %f", got)
	}
}

func TestExtraSection(t *testing.T) {
	var saved float64 = 0.75
	var loaded float64

	src := testRegistry()
	m := NewManager(src)
	m.SetExtraFuncs(
		func(w io.Writer) error { return binary.Write(w, binary.LittleEndian, saved) },
		nil,
	)
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	dst := NewManager(testRegistry())
	dst.SetExtraFuncs(
		nil,
		func(r io.Reader) error { return binary.Read(r, binary.LittleEndian, &loaded) },
	)
	if err := dst.Load(&buf); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded != saved {
		t.Errorf("extra section: want %f, got %f", saved, loaded)
	}
}

func TestExtraSectionWithoutLoadHook(t *testing.T) {
	m := NewManager(testRegistry())
	m.SetExtraFuncs(
		func(w io.Writer) error { return binary.Write(w, binary.LittleEndian, 1.0) },
		nil,
	)
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := NewManager(testRegistry()).Load(&buf); err == nil {
		t.Error("expected error when patch has an extra section but no load hook")
	}
}

func TestNewerVersionRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	if err := NewManager(testRegistry()).Load(&buf); err == nil {
		t.Error("expected error for newer patch version")
	}
}
