package looper

// fakeSender records every call made to it instead of touching a real port.
type fakeSender struct {
	noteOn  []notePair
	noteOff []notePair
	cc      [][3]uint8
	raw     [][]byte
}

func newFakeSender() *fakeSender { return &fakeSender{} }

func (f *fakeSender) NoteOn(channel, note, velocity uint8) error {
	f.noteOn = append(f.noteOn, notePair{channel, note})
	f.raw = append(f.raw, []byte{0x90 | channel, note, velocity})
	return nil
}

func (f *fakeSender) NoteOff(channel, note uint8) error {
	f.noteOff = append(f.noteOff, notePair{channel, note})
	f.raw = append(f.raw, []byte{0x80 | channel, note, 0})
	return nil
}

func (f *fakeSender) SendControlChange(channel, controller, value uint8) error {
	f.cc = append(f.cc, [3]uint8{channel, controller, value})
	return nil
}

func (f *fakeSender) SendRaw(bytes []byte) error {
	f.raw = append(f.raw, append([]byte(nil), bytes...))
	return nil
}

func (f *fakeSender) Close() error { return nil }
