// Command jovian-play runs the engine live: a terminal keyboard on stdin,
// audio out through the system mixer. The terminal owns the main
// goroutine; the audio callback owns the engine, fed through the event
// queue.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gdamore/tcell/v2"

	"github.com/jovian-synth/jovian/pkg/framework/debug"
	"github.com/jovian-synth/jovian/pkg/midi"
	"github.com/jovian-synth/jovian/pkg/synth"
)

const (
	sampleRate = 48000
	blockSize  = synth.MaxBlockFrames

	// Terminal keyboards have no release events; a held key repeats, so a
	// note lifts when its repeats stop arriving.
	noteHold = 250 * time.Millisecond
)

// Two manual rows, tracker style. The bottom row starts at C of the
// current octave, the top row one octave up.
var noteKeys = map[rune]int{
	'z': 0, 's': 1, 'x': 2, 'd': 3, 'c': 4, 'v': 5, 'g': 6,
	'b': 7, 'h': 8, 'n': 9, 'j': 10, 'm': 11, ',': 12,
	'q': 12, '2': 13, 'w': 14, '3': 15, 'e': 16, 'r': 17, '5': 18,
	't': 19, '6': 20, 'y': 21, '7': 22, 'u': 23, 'i': 24,
}

// engineSource adapts the engine to oto's pull model. Read runs on the
// audio goroutine; it drains queued events between blocks and renders
// float32 little-endian frames.
type engineSource struct {
	eng   *synth.Engine
	queue *midi.EventQueue
	// jobs carries non-MIDI work onto the audio goroutine, like patch
	// saves, so nothing touches the engine concurrently.
	jobs     chan func(*synth.Engine)
	block    [blockSize]float32
	leftover []float32
}

func (s *engineSource) Read(p []byte) (int, error) {
	n := 0
	for n+4 <= len(p) {
		if len(s.leftover) == 0 {
			for _, ev := range s.queue.Drain() {
				s.apply(ev)
			}
			for {
				select {
				case job := <-s.jobs:
					job(s.eng)
					continue
				default:
				}
				break
			}
			s.eng.Render(s.block[:])
			s.leftover = s.block[:]
		}
		for len(s.leftover) > 0 && n+4 <= len(p) {
			binary.LittleEndian.PutUint32(p[n:], math.Float32bits(s.leftover[0]))
			s.leftover = s.leftover[1:]
			n += 4
		}
	}
	return n, nil
}

func (s *engineSource) apply(ev midi.Event) {
	switch e := ev.(type) {
	case midi.NoteOnEvent:
		s.eng.NoteOn(e.NoteNumber, e.Velocity)
	case midi.NoteOffEvent:
		s.eng.NoteOff(e.NoteNumber)
	case midi.ControlChangeEvent:
		switch e.Controller {
		case midi.CCAllNotesOff:
			s.eng.AllNotesOff()
		case midi.CCAllSoundOff:
			s.eng.AllSoundOff()
		default:
			s.eng.SetParameter(uint32(e.Controller), int(e.Value))
		}
	case midi.ProgramChangeEvent:
		if err := s.eng.LoadPreset(int(e.Program)); err != nil {
			debug.Warn("load preset %d: %v", e.Program, err)
		}
	case midi.PitchBendEvent:
		s.eng.PitchBend(midi.PitchBendToSemitones(e.Value, 2.0))
	case midi.ChannelPressureEvent:
		s.eng.ChannelPressure(float64(e.Pressure) / 127.0)
	}
}

type ui struct {
	screen tcell.Screen
	eng    *synth.Engine
	queue  *midi.EventQueue

	octave     int
	selected   int
	preset     int
	presetName string

	mu     sync.Mutex
	timers map[uint8]*time.Timer
}

func (u *ui) noteFor(r rune) (uint8, bool) {
	offset, ok := noteKeys[r]
	if !ok {
		return 0, false
	}
	n := (u.octave+1)*12 + offset
	if n < 0 || n > 127 {
		return 0, false
	}
	return uint8(n), true
}

// play sends a note-on and (re)arms the auto-release timer.
func (u *ui) play(note uint8) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if t, ok := u.timers[note]; ok {
		t.Reset(noteHold)
		return
	}
	u.queue.Add(midi.NoteOnEvent{NoteNumber: note, Velocity: 100})
	u.timers[note] = time.AfterFunc(noteHold, func() {
		u.queue.Add(midi.NoteOffEvent{NoteNumber: note})
		u.mu.Lock()
		delete(u.timers, note)
		u.mu.Unlock()
	})
}

func (u *ui) adjust(delta int) {
	p := u.eng.Registry().ByIndex(u.selected)
	if p == nil {
		return
	}
	v := u.eng.GetParameter(p.ID) + delta
	if v < 0 {
		v = 0
	}
	u.queue.Add(midi.ControlChangeEvent{Controller: uint8(p.ID), Value: uint8(min(v, 127))})
}

func (u *ui) loadPreset(idx int) {
	if idx < 0 || idx >= u.eng.PresetCount() {
		return
	}
	u.preset = idx
	// Snapshot the name here; draw must not reach into the engine while
	// the audio goroutine owns it.
	u.presetName = u.eng.PresetName(idx)
	u.queue.Add(midi.ProgramChangeEvent{Program: uint8(idx)})
}

func (u *ui) draw() {
	s := u.screen
	s.Clear()
	style := tcell.StyleDefault
	hi := style.Reverse(true)

	puts(s, 0, 0, style.Bold(true), "JOVIAN")
	puts(s, 8, 0, style, fmt.Sprintf("preset %d %s  octave C%d  voices %d",
		u.preset, u.presetName, u.octave, u.eng.ActiveVoices()))
	puts(s, 0, 1, style, "keys: zsxd.. play  arrows: select/edit  F1-F6: preset  [ ]: octave  ^S: save patch  space: silence  esc: quit")

	reg := u.eng.Registry()
	cols := 3
	rows := (reg.Count() + cols - 1) / cols
	for i := 0; i < reg.Count(); i++ {
		p := reg.ByIndex(i)
		line := fmt.Sprintf("%-11s %s", p.ShortName, u.eng.ParameterString(p.ID))
		st := style
		if i == u.selected {
			st = hi
		}
		puts(s, (i/rows)*28, 3+i%rows, st, line)
	}
	s.Show()
}

func puts(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for i, r := range str {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func main() {
	presetFlag := flag.Int("preset", 0, "preset to load at startup")
	patchPath := flag.String("patch", "", "patch file: loaded at startup if present, written on ctrl-s")
	logPath := flag.String("log", os.Getenv("JOVIAN_LOG"), "log file (default: logging off)")
	flag.Parse()

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		debug.SetOutput(f)
		debug.SetLevel(debug.LogLevelDebug)
	} else {
		// The screen owns stderr once tcell starts, so stay quiet.
		debug.SetLevel(debug.LogLevelOff)
	}

	eng := synth.NewEngine()
	if err := eng.Init(sampleRate, blockSize); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	eng.Resume()
	if *patchPath != "" {
		if f, err := os.Open(*patchPath); err == nil {
			err = eng.LoadState(f)
			f.Close()
			if err != nil {
				fmt.Fprintln(os.Stderr, "load patch:", err)
				os.Exit(1)
			}
		}
	}
	queue := midi.NewEventQueue()

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   10 * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "audio:", err)
		os.Exit(1)
	}
	<-ready

	src := &engineSource{eng: eng, queue: queue, jobs: make(chan func(*synth.Engine), 4)}
	player := ctx.NewPlayer(src)
	player.Play()
	defer player.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer screen.Fini()

	u := &ui{
		screen:     screen,
		eng:        eng,
		queue:      queue,
		octave:     3,
		presetName: eng.PresetName(0),
		timers:     make(map[uint8]*time.Timer),
	}
	if *presetFlag > 0 {
		u.loadPreset(*presetFlag)
	}
	debug.Info("engine up, preset %d", u.preset)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			events <- screen.PollEvent()
		}
	}()
	redraw := time.NewTicker(100 * time.Millisecond)
	defer redraw.Stop()

	u.draw()
	for {
		select {
		case <-redraw.C:
			u.draw()
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				switch e.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					queue.Add(midi.ControlChangeEvent{Controller: midi.CCAllNotesOff})
					return
				case tcell.KeyUp:
					u.adjust(1)
				case tcell.KeyDown:
					u.adjust(-1)
				case tcell.KeyPgUp:
					u.adjust(10)
				case tcell.KeyPgDn:
					u.adjust(-10)
				case tcell.KeyLeft:
					if u.selected > 0 {
						u.selected--
					}
				case tcell.KeyRight:
					if u.selected < u.eng.Registry().Count()-1 {
						u.selected++
					}
				case tcell.KeyF1, tcell.KeyF2, tcell.KeyF3, tcell.KeyF4, tcell.KeyF5, tcell.KeyF6:
					u.loadPreset(int(e.Key() - tcell.KeyF1))
				case tcell.KeyCtrlS:
					if *patchPath != "" {
						path := *patchPath
						src.jobs <- func(eng *synth.Engine) {
							f, err := os.Create(path)
							if err != nil {
								debug.Error("save patch: %v", err)
								return
							}
							defer f.Close()
							if err := eng.SaveState(f); err != nil {
								debug.Error("save patch: %v", err)
								return
							}
							debug.Info("wrote patch %s", path)
						}
					}
				case tcell.KeyRune:
					switch r := e.Rune(); r {
					case ' ':
						queue.Add(midi.ControlChangeEvent{Controller: midi.CCAllNotesOff})
					case '[':
						if u.octave > 0 {
							u.octave--
						}
					case ']':
						if u.octave < 7 {
							u.octave++
						}
					default:
						if note, ok := u.noteFor(r); ok {
							u.play(note)
						}
					}
				}
				u.draw()
			}
		}
	}
}
