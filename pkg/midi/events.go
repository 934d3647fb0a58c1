// Package midi provides MIDI event types and note/frequency helpers for the
// Jovian synth engine.
package midi

import (
	"fmt"
	"math"
)

type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	EventTypeControlChange
	EventTypeProgramChange
	EventTypeChannelPressure
	EventTypePitchBend
)

type Event interface {
	Type() EventType
	Channel() uint8
	String() string
}

type BaseEvent struct {
	EventChannel uint8
}

func (e BaseEvent) Channel() uint8 {
	return e.EventChannel
}

type NoteOnEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOnEvent) Type() EventType {
	return EventTypeNoteOn
}

func (e NoteOnEvent) String() string {
	return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d}", e.EventChannel, e.NoteNumber, e.Velocity)
}

type NoteOffEvent struct {
	BaseEvent
	NoteNumber uint8
}

func (e NoteOffEvent) Type() EventType {
	return EventTypeNoteOff
}

func (e NoteOffEvent) String() string {
	return fmt.Sprintf("NoteOff{ch:%d, note:%d}", e.EventChannel, e.NoteNumber)
}

type ControlChangeEvent struct {
	BaseEvent
	Controller uint8
	Value      uint8
}

func (e ControlChangeEvent) Type() EventType {
	return EventTypeControlChange
}

func (e ControlChangeEvent) String() string {
	return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d}", e.EventChannel, e.Controller, e.Value)
}

type ProgramChangeEvent struct {
	BaseEvent
	Program uint8
}

func (e ProgramChangeEvent) Type() EventType {
	return EventTypeProgramChange
}

func (e ProgramChangeEvent) String() string {
	return fmt.Sprintf("Program{ch:%d, prog:%d}", e.EventChannel, e.Program)
}

type ChannelPressureEvent struct {
	BaseEvent
	Pressure uint8
}

func (e ChannelPressureEvent) Type() EventType {
	return EventTypeChannelPressure
}

func (e ChannelPressureEvent) String() string {
	return fmt.Sprintf("Pressure{ch:%d, val:%d}", e.EventChannel, e.Pressure)
}

type PitchBendEvent struct {
	BaseEvent
	Value int16 // -8192 to 8191, 0 is center
}

func (e PitchBendEvent) Type() EventType {
	return EventTypePitchBend
}

func (e PitchBendEvent) String() string {
	return fmt.Sprintf("PitchBend{ch:%d, val:%d}", e.EventChannel, e.Value)
}

const (
	CCModWheel       uint8 = 1
	CCPortamentoTime uint8 = 5
	CCVolume         uint8 = 7
	CCSustain        uint8 = 64
	CCPortamento     uint8 = 65
	CCAllSoundOff    uint8 = 120
	CCAllNotesOff    uint8 = 123
)

// NoteToFrequency converts a MIDI note number to a frequency in Hz with
// A4 = 440 Hz equal temperament.
func NoteToFrequency(note uint8) float64 {
	return 440.0 * math.Pow(2.0, (float64(note)-69.0)/12.0)
}

// VelocityToFloat maps a 0-127 MIDI velocity to 0.0-1.0.
func VelocityToFloat(velocity uint8) float64 {
	if velocity > 127 {
		velocity = 127
	}
	return float64(velocity) / 127.0
}

// PitchBendToSemitones maps a raw 14-bit pitch bend value to semitones for
// the given bend range.
func PitchBendToSemitones(value int16, rangeSemitones float64) float64 {
	return float64(value) / 8192.0 * rangeSemitones
}
