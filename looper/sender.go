package looper

// Sender is the MIDI-out surface Track and Player depend on. *midi.Output
// satisfies it directly (see midi.Output.SendRaw); tests use an in-memory
// fake instead of opening a real port.
type Sender interface {
	NoteOn(channel, note, velocity uint8) error
	NoteOff(channel, note uint8) error
	SendControlChange(channel, controller, value uint8) error
	SendRaw(bytes []byte) error
	Close() error
}
