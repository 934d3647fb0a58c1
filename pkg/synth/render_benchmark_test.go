package synth

import "testing"

// The central performance property: per-buffer cost must follow the number
// of sounding voices, not the configured polyphony. Compare the 1-voice
// and 8-voice timings.

func benchEngine(b *testing.B, mode Mode, notes int) {
	b.Helper()
	e := NewEngine()
	if err := e.Init(testSampleRate, MaxBlockFrames); err != nil {
		b.Fatalf("init: %v", err)
	}
	e.SetParameter(ParamVoiceMode, int(mode))
	for i := 0; i < notes; i++ {
		e.NoteOn(uint8(40+i*5), 100)
	}
	buf := make([]float32, MaxBlockFrames)
	e.Render(buf) // settle allocation and caches

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Render(buf)
	}
}

func BenchmarkRenderMono(b *testing.B) {
	benchEngine(b, ModeMono, 1)
}

func BenchmarkRenderPoly1Voice(b *testing.B) {
	benchEngine(b, ModePoly, 1)
}

func BenchmarkRenderPoly4Voices(b *testing.B) {
	benchEngine(b, ModePoly, 4)
}

func BenchmarkRenderPoly8Voices(b *testing.B) {
	benchEngine(b, ModePoly, 8)
}

func BenchmarkRenderUnison(b *testing.B) {
	benchEngine(b, ModeUnison, 1)
}

func BenchmarkRenderIdle(b *testing.B) {
	benchEngine(b, ModePoly, 0)
}
