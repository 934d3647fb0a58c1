// Command jovian-render renders the engine offline to a WAV file. Without
// a note list it plays a short demo arpeggio, which is handy for
// auditioning presets without a terminal that can do audio.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/jovian-synth/jovian/pkg/framework/debug"
	"github.com/jovian-synth/jovian/pkg/midi"
	"github.com/jovian-synth/jovian/pkg/synth"
)

const (
	sampleRate = 48000
	blockSize  = synth.MaxBlockFrames
)

// timedEvent fires at an absolute frame position in the render.
type timedEvent struct {
	frame int
	event midi.Event
}

// engineStreamer drives the engine one block at a time and duplicates the
// mono output into both channels of a beep stream.
type engineStreamer struct {
	eng    *synth.Engine
	prof   *debug.RenderProfiler
	events []timedEvent
	next   int
	frame  int
	total  int
	block  [blockSize]float32
}

func (s *engineStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.frame >= s.total {
		return 0, false
	}
	n := 0
	for n < len(samples) && s.frame < s.total {
		want := min(blockSize, len(samples)-n, s.total-s.frame)
		for s.next < len(s.events) && s.events[s.next].frame <= s.frame {
			s.dispatch(s.events[s.next].event)
			s.next++
		}
		done := s.prof.Measure()
		s.eng.Render(s.block[:want])
		done()
		for i := 0; i < want; i++ {
			v := float64(s.block[i])
			samples[n+i][0] = v
			samples[n+i][1] = v
		}
		n += want
		s.frame += want
	}
	return n, true
}

func (s *engineStreamer) Err() error { return nil }

func (s *engineStreamer) dispatch(ev midi.Event) {
	switch e := ev.(type) {
	case midi.NoteOnEvent:
		s.eng.NoteOn(e.NoteNumber, e.Velocity)
	case midi.NoteOffEvent:
		s.eng.NoteOff(e.NoteNumber)
	case midi.PitchBendEvent:
		s.eng.PitchBend(midi.PitchBendToSemitones(e.Value, 2.0))
	}
}

// demoPhrase arpeggiates a minor seventh chord, then holds the chord so
// the release tails are audible.
func demoPhrase(dur time.Duration) []timedEvent {
	var evs []timedEvent
	step := sampleRate / 4
	total := int(dur.Seconds() * sampleRate)
	if total < 3*sampleRate {
		total = 3 * sampleRate
	}

	notes := []uint8{48, 55, 60, 63, 67, 70, 72, 70, 67, 63, 60, 55}
	at := 0
	for i := 0; at+step < total-2*sampleRate; i++ {
		n := notes[i%len(notes)]
		evs = append(evs,
			timedEvent{at, midi.NoteOnEvent{NoteNumber: n, Velocity: 100}},
			timedEvent{at + step*3/4, midi.NoteOffEvent{NoteNumber: n}},
		)
		at += step
	}
	for _, n := range []uint8{48, 60, 63, 67} {
		evs = append(evs,
			timedEvent{at, midi.NoteOnEvent{NoteNumber: n, Velocity: 90}},
			timedEvent{total - sampleRate, midi.NoteOffEvent{NoteNumber: n}},
		)
	}
	return evs
}

// parseNotes reads "note@sec:len" entries, e.g. "60@0:0.5,64@0.5:0.5".
func parseNotes(spec string) ([]timedEvent, int, error) {
	var evs []timedEvent
	end := 0
	for _, part := range strings.Split(spec, ",") {
		var note int
		var start, length float64
		at := strings.IndexByte(part, '@')
		colon := strings.IndexByte(part, ':')
		if at < 0 || colon < at {
			return nil, 0, fmt.Errorf("bad note entry %q", part)
		}
		note, err := strconv.Atoi(part[:at])
		if err != nil || note < 0 || note > 127 {
			return nil, 0, fmt.Errorf("bad note entry %q", part)
		}
		if start, err = strconv.ParseFloat(part[at+1:colon], 64); err != nil {
			return nil, 0, fmt.Errorf("bad note entry %q", part)
		}
		if length, err = strconv.ParseFloat(part[colon+1:], 64); err != nil {
			return nil, 0, fmt.Errorf("bad note entry %q", part)
		}
		on := int(start * sampleRate)
		off := on + int(length*sampleRate)
		evs = append(evs,
			timedEvent{on, midi.NoteOnEvent{NoteNumber: uint8(note), Velocity: 100}},
			timedEvent{off, midi.NoteOffEvent{NoteNumber: uint8(note)}},
		)
		if off > end {
			end = off
		}
	}
	return evs, end, nil
}

func main() {
	out := flag.String("o", "jovian.wav", "output WAV file")
	presetFlag := flag.Int("preset", 0, "preset to render")
	patchPath := flag.String("patch", "", "patch file to render (overrides -preset)")
	dur := flag.Duration("dur", 8*time.Second, "render length (demo phrase)")
	notes := flag.String("notes", "", "note list, e.g. 60@0:0.5,64@0.5:0.5 (overrides demo)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *verbose {
		debug.SetLevel(debug.LogLevelDebug)
	}

	eng := synth.NewEngine()
	if err := eng.Init(sampleRate, blockSize); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	eng.Resume()
	if err := eng.LoadPreset(*presetFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *patchPath != "" {
		f, err := os.Open(*patchPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		err = eng.LoadState(f)
		f.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	var evs []timedEvent
	total := int(dur.Seconds() * sampleRate)
	if *notes != "" {
		parsed, end, err := parseNotes(*notes)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		evs = parsed
		// One extra second for release tails.
		total = end + sampleRate
	} else {
		evs = demoPhrase(*dur)
		total = max(total, 3*sampleRate)
	}
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].frame < evs[j].frame })

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	prof := debug.NewRenderProfiler(sampleRate, blockSize)
	src := &engineStreamer{eng: eng, prof: prof, events: evs, total: total}
	if err := wav.Encode(f, src, format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	debug.Info("render profile: %s", prof.Report())
	fmt.Printf("wrote %s (%d frames, preset %q)\n", *out, total, eng.PresetName(*presetFlag))
	if *verbose {
		fmt.Println(prof.Report())
	}
}
