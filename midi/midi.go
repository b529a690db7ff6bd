// Package midi wraps gitlab.com/gomidi/midi/v2 for the looper's output and
// input ports: port listing, note/CC sends, transport realtime bytes, and
// the inbound message callback the looper routes into the active track.
package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // auto-register RtMIDI driver
)

// Message re-exports gomidi's byte-backed message type so callers outside
// this package can spell OpenIn's callback signature without importing
// gitlab.com/gomidi/midi/v2 directly.
type Message = midi.Message

// Realtime system messages used for transport markers (§6 MIDI backend
// contract). gomidi/v2 has no typed helper for these single-byte system
// realtime messages, so they are sent as raw bytes.
var (
	SongStart = midi.Message{0xFA}
	SongStop  = midi.Message{0xFC}
)

// Status nibbles, used to classify inbound messages.
const (
	StatusNoteOff = 0x80
	StatusNoteOn  = 0x90
)

const (
	// AllSoundOff and ResetAllControllers are the CC numbers panic() sweeps
	// across every channel.
	AllSoundOff         = 120
	ResetAllControllers = 121
)

// Output represents a MIDI output connection.
type Output struct {
	port drivers.Out
	send func(msg midi.Message) error
}

// Input represents a MIDI input connection delivering a callback per message.
type Input struct {
	port drivers.In
	stop func()
}

// ListPorts returns the available MIDI output port names.
func ListPorts() ([]string, error) {
	ports := midi.GetOutPorts()
	names := make([]string, len(ports))
	for i, port := range ports {
		names[i] = port.String()
	}
	return names, nil
}

// ListInPorts returns the available MIDI input port names.
func ListInPorts() ([]string, error) {
	ports := midi.GetInPorts()
	names := make([]string, len(ports))
	for i, port := range ports {
		names[i] = port.String()
	}
	return names, nil
}

// Open opens a MIDI output port by index.
func Open(portIndex int) (*Output, error) {
	port, err := midi.OutPort(portIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get MIDI out port %d: %w", portIndex, err)
	}

	send, err := midi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}

	return &Output{port: port, send: send}, nil
}

// Close closes the MIDI output port.
func (o *Output) Close() error {
	return o.port.Close()
}

// Send transmits a raw MIDI message. Used for transport markers and panic
// sweeps that don't fit the Note/CC helpers below.
func (o *Output) Send(msg midi.Message) error {
	return o.send(msg)
}

// SendRaw transmits a raw byte-encoded MIDI message. It satisfies the
// looper package's Sender interface without that package importing gomidi.
func (o *Output) SendRaw(bytes []byte) error {
	return o.send(midi.Message(bytes))
}

// NoteOn sends a MIDI Note On message. channel is 0-15, note and velocity
// are 0-127.
func (o *Output) NoteOn(channel, note, velocity uint8) error {
	return o.send(midi.NoteOn(channel, note, velocity))
}

// NoteOff sends a MIDI Note Off message.
func (o *Output) NoteOff(channel, note uint8) error {
	return o.send(midi.NoteOff(channel, note))
}

// SendControlChange sends a Control Change message.
func (o *Output) SendControlChange(channel, controller, value uint8) error {
	return o.send(midi.ControlChange(channel, controller, value))
}

// OpenIn opens a MIDI input port by index and invokes fn for every inbound
// message. fn receives the raw message and the backend-reported delta time
// since the previous message, in milliseconds, and must return promptly —
// it runs on the MIDI backend's own callback thread (spec §5 suspension
// points).
func OpenIn(portIndex int, fn func(msg midi.Message, deltaMs int32)) (*Input, error) {
	port, err := midi.InPort(portIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get MIDI in port %d: %w", portIndex, err)
	}

	stop, err := midi.ListenTo(port, fn)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on MIDI in port %d: %w", portIndex, err)
	}

	return &Input{port: port, stop: stop}, nil
}

// Close stops listening and closes the MIDI input port.
func (i *Input) Close() error {
	if i.stop != nil {
		i.stop()
	}
	return i.port.Close()
}

// NoteName converts a MIDI note number to a human-readable name (e.g. 60 -> "C4").
func NoteName(note uint8) string {
	names := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	octave := int(note/12) - 1
	return fmt.Sprintf("%s%d", names[note%12], octave)
}

// NoteNameToMIDI converts a note name (e.g. "C4", "Bb3") to a MIDI note number.
func NoteNameToMIDI(name string) (uint8, error) {
	noteMap := map[string]int{
		"C": 0, "C#": 1, "Db": 1,
		"D": 2, "D#": 3, "Eb": 3,
		"E": 4,
		"F": 5, "F#": 6, "Gb": 6,
		"G": 7, "G#": 8, "Ab": 8,
		"A": 9, "A#": 10, "Bb": 10,
		"B": 11,
	}

	if len(name) < 2 {
		return 0, fmt.Errorf("invalid note name: %s", name)
	}

	var notePart, octaveStr string
	switch {
	case len(name) == 2:
		notePart, octaveStr = name[0:1], name[1:2]
	case len(name) == 3:
		notePart, octaveStr = name[0:2], name[2:3]
	default:
		return 0, fmt.Errorf("invalid note name: %s", name)
	}

	noteValue, ok := noteMap[notePart]
	if !ok {
		return 0, fmt.Errorf("invalid note name: %s", name)
	}

	var octave int
	if _, err := fmt.Sscanf(octaveStr, "%d", &octave); err != nil {
		return 0, fmt.Errorf("invalid note name: %s", name)
	}

	midiNote := (octave+1)*12 + noteValue
	if midiNote < 0 || midiNote > 127 {
		return 0, fmt.Errorf("note out of range: %s", name)
	}

	return uint8(midiNote), nil
}
