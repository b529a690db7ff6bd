package looper

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/iltempo/midiloop/midi"
)

// PortManager abstracts opening, closing, and listing MIDI ports so Looper
// doesn't depend on a concrete backend (and so tests can supply a fake).
type PortManager interface {
	ListPorts() ([]string, error)
	Open(portIndex int) (Sender, error)
	OpenIn(portIndex int, onMessage func(bytes []byte, deltaMs int32)) (io.Closer, error)
}

var quantizeLevels = [...]int{0, 1, 2, 3, 4, 8, 16}

func quantizeIndex(q int) int {
	for i, v := range quantizeLevels {
		if v == q {
			return i
		}
	}
	return 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Looper is the session: track ownership, the active-track arm/disarm state
// machine, tempo/measure/quantize state, and MIDI-in routing. One Player
// drives its playback.
type Looper struct {
	mu sync.Mutex

	tracks      map[int]*Track
	activeTrack *Track

	bpm               int
	measures          int
	beatPerMeasures   int
	quantize          int
	channels          [16]bool
	recordOnFirstNote bool
	requireLength     bool
	withTick          bool
	verbose           bool
	port              int

	beatLength    float64
	measureLength float64
	loopLength    float64
	lengthStart   float64
	midiClock     float64

	ports PortManager
	out   Sender
	in    io.Closer

	player *Player
}

// NewLooper opens port 0 and returns a Looper ready to Run.
func NewLooper(ports PortManager) (*Looper, error) {
	l := &Looper{
		tracks:            make(map[int]*Track),
		bpm:               120,
		measures:          4,
		beatPerMeasures:   4,
		quantize:          0,
		recordOnFirstNote: true,
		requireLength:     true,
		port:              0,
		ports:             ports,
	}
	for i := range l.channels {
		l.channels[i] = true
	}
	l.recalcLengthLocked()

	if err := l.openMidiPort(l.port); err != nil {
		return nil, fmt.Errorf("initial MIDI port open: %w", err)
	}

	l.player = NewPlayer(l, l.out)
	return l, nil
}

// Run starts the player's main loop in its own goroutine.
func (l *Looper) Run() {
	go l.player.Run()
}

// Quit stops the player and releases the MIDI ports.
func (l *Looper) Quit() {
	l.player.Quit()
	l.mu.Lock()
	out, in := l.out, l.in
	l.mu.Unlock()
	if in != nil {
		in.Close()
	}
	if out != nil {
		out.Close()
	}
}

// playerSession implementation, read by the Player's main loop every tick.

func (l *Looper) Tracks() []*Track {
	l.mu.Lock()
	defer l.mu.Unlock()
	tracks := make([]*Track, 0, len(l.tracks))
	for _, tr := range l.tracks {
		tracks = append(tracks, tr)
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Index() < tracks[j].Index() })
	return tracks
}

func (l *Looper) LoopLength() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loopLength
}

func (l *Looper) BeatLength() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.beatLength
}

func (l *Looper) WithTick() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.withTick
}

// getTrackLocked returns the track at index, creating it lazily. Must be
// called with l.mu held.
func (l *Looper) getTrackLocked(index int) *Track {
	tr, ok := l.tracks[index]
	if !ok {
		tr = NewTrack(index, l.out)
		l.tracks[index] = tr
	}
	return tr
}

// GetTrack returns the track at index, creating it lazily.
func (l *Looper) GetTrack(index int) *Track {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getTrackLocked(index)
}

func (l *Looper) recalcLengthLocked() {
	l.beatLength = 60.0 / float64(l.bpm)
	l.measureLength = l.beatLength * float64(l.beatPerMeasures)
	if l.requireLength {
		l.loopLength = l.measureLength * float64(l.measures)
	}
}

func (l *Looper) quantizeStepLocked() float64 {
	if l.quantize <= 0 {
		return 0
	}
	return l.beatLength / float64(l.quantize)
}

// Transport delegates straight to the player.

// Play starts the transport if the loop length is known.
func (l *Looper) Play() {
	if l.LoopLength() <= 0 {
		return
	}
	l.player.Play()
}

// Stop halts the transport.
func (l *Looper) Stop() { l.player.Stop() }

// TogglePlay stops if playing, else plays.
func (l *Looper) TogglePlay() { l.player.TogglePlay() }

// Panic silences every channel and note.
func (l *Looper) Panic() { l.player.Panic() }

// Playing reports whether the transport is running.
func (l *Looper) Playing() bool { return l.player.Playing() }

// Reset drops all tracks and returns to the unfixed-length state.
func (l *Looper) Reset() {
	l.player.Stop()
	l.mu.Lock()
	if l.activeTrack != nil {
		l.activeTrack.StopRecording()
		l.activeTrack = nil
	}
	l.tracks = make(map[int]*Track)
	l.requireLength = true
	l.recalcLengthLocked()
	l.mu.Unlock()
}

// ResetTrack clears one track's recorded content without touching session
// state. Bound to the record keys while the reset modifier is held.
func (l *Looper) ResetTrack(index int) {
	l.GetTrack(index).Reset()
}

// Record arms index for recording: disarms any other active track first
// (toggling off if index was already the active track), then starts or
// stops recording on it.
func (l *Looper) Record(index int) {
	l.mu.Lock()
	if l.activeTrack != nil {
		previousIndex := l.activeTrack.Index()
		l.activeTrack.StopRecording()
		l.activeTrack = nil
		if previousIndex == index {
			l.mu.Unlock()
			return
		}
	}
	track := l.getTrackLocked(index)
	l.activeTrack = track
	recordOnFirstNote := l.recordOnFirstNote
	requireLength := l.requireLength
	l.mu.Unlock()

	if track.Recording() {
		track.StopRecording()
		return
	}

	if !recordOnFirstNote {
		l.Play()
		if requireLength {
			l.mu.Lock()
			if l.requireLength {
				l.lengthStart = l.player.Deltatime()
			}
			l.mu.Unlock()
		}
	}
	track.StartRecording()
}

// RecordAfter is the key-release counterpart of Record: stops recording on
// index, fixing loopLength from the measured span if this was the first
// completed recording pass.
func (l *Looper) RecordAfter(index int) {
	track := l.GetTrack(index)
	track.StopRecording()

	l.mu.Lock()
	if l.requireLength {
		l.loopLength = l.player.Deltatime() - l.lengthStart
		l.requireLength = false
	}
	l.activeTrack = nil
	l.mu.Unlock()
}

// StopRecord stops recording on every track and clears the active track.
// Bound to the "stop all recording" key.
func (l *Looper) StopRecord() {
	l.mu.Lock()
	tracks := make([]*Track, 0, len(l.tracks))
	for _, tr := range l.tracks {
		tracks = append(tracks, tr)
	}
	l.activeTrack = nil
	l.mu.Unlock()

	for _, tr := range tracks {
		tr.StopRecording()
	}
}

// Mute toggles mute on the given track.
func (l *Looper) Mute(index int) {
	l.GetTrack(index).ToggleMute()
}

// ToggleChannel flips whether channel index (1-based) may record.
func (l *Looper) ToggleChannel(index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.channels[index-1] = !l.channels[index-1]
}

// ToggleTick flips whether the player emits a beat tick.
func (l *Looper) ToggleTick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.withTick = !l.withTick
}

// ToggleRecordOnFirstNote flips whether transport auto-starts on the first
// incoming NOTE_ON after arming.
func (l *Looper) ToggleRecordOnFirstNote() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recordOnFirstNote = !l.recordOnFirstNote
}

// IncrementTempo adjusts bpm by amount, clamped to [60, 240].
func (l *Looper) IncrementTempo(amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bpm = clampInt(l.bpm+amount, 60, 240)
	l.recalcLengthLocked()
}

// IncrementMeasure adjusts measures by amount, clamped to [1, 24].
func (l *Looper) IncrementMeasure(amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.measures = clampInt(l.measures+amount, 1, 24)
	l.recalcLengthLocked()
}

// IncreaseQuantize moves to the next larger quantize divisor (a finer grid),
// stopping at 16.
func (l *Looper) IncreaseQuantize() {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := quantizeIndex(l.quantize)
	if idx < len(quantizeLevels)-1 {
		idx++
	}
	l.quantize = quantizeLevels[idx]
}

// DecreaseQuantize moves to the next smaller quantize divisor (a coarser
// grid), stopping at 0 (quantization off).
func (l *Looper) DecreaseQuantize() {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := quantizeIndex(l.quantize)
	if idx > 0 {
		idx--
	}
	l.quantize = quantizeLevels[idx]
}

// SetPort opens the given port index directly, used at startup once the
// operator has picked a port interactively.
func (l *Looper) SetPort(port int) error {
	if err := l.openMidiPort(port); err != nil {
		return err
	}
	l.mu.Lock()
	l.port = port
	l.mu.Unlock()
	return nil
}

// MidiNextPort cycles to the next available MIDI port.
func (l *Looper) MidiNextPort() { l.switchPort(1) }

// MidiPrevPort cycles to the previous available MIDI port.
func (l *Looper) MidiPrevPort() { l.switchPort(-1) }

func (l *Looper) switchPort(delta int) {
	names, err := l.ports.ListPorts()
	if err != nil || len(names) == 0 {
		fmt.Printf("looper: list MIDI ports: %v\n", err)
		return
	}

	l.mu.Lock()
	l.port = ((l.port+delta)%len(names) + len(names)) % len(names)
	port := l.port
	l.mu.Unlock()

	if err := l.openMidiPort(port); err != nil {
		fmt.Printf("looper: open MIDI port %d: %v\n", port, err)
	}
}

func (l *Looper) openMidiPort(port int) error {
	l.mu.Lock()
	oldOut, oldIn := l.out, l.in
	l.mu.Unlock()

	if oldIn != nil {
		oldIn.Close()
	}
	if oldOut != nil {
		oldOut.Close()
	}

	out, err := l.ports.Open(port)
	if err != nil {
		return fmt.Errorf("open MIDI out port %d: %w", port, err)
	}
	in, err := l.ports.OpenIn(port, l.MidiInCallback)
	if err != nil {
		out.Close()
		return fmt.Errorf("open MIDI in port %d: %w", port, err)
	}

	l.mu.Lock()
	l.out, l.in, l.port = out, in, port
	tracks := make([]*Track, 0, len(l.tracks))
	for _, tr := range l.tracks {
		tracks = append(tracks, tr)
	}
	l.mu.Unlock()

	if l.player != nil {
		l.player.SetSender(out)
	}
	for _, tr := range tracks {
		tr.SetSender(out)
	}
	return nil
}

// MidiInCallback routes an inbound MIDI message into the active track's
// record buffer, or handles it as a transport marker.
func (l *Looper) MidiInCallback(bytes []byte, deltaMs int32) {
	if l.Verbose() {
		l.traceMidiIn(bytes, deltaMs)
	}

	if len(bytes) > 0 {
		switch bytes[0] {
		case songStart[0]:
			l.Play()
			return
		case songStop[0]:
			l.Stop()
			return
		}
	}

	if !isNoteOn(bytes) {
		return
	}
	channel := channelOf(bytes)

	l.mu.Lock()
	if !l.channels[channel] {
		l.mu.Unlock()
		return
	}
	track := l.activeTrack
	recordOnFirstNote := l.recordOnFirstNote
	requireLength := l.requireLength
	l.mu.Unlock()

	if track == nil {
		return
	}

	if recordOnFirstNote && !l.player.Playing() {
		l.Play()
		if requireLength {
			l.mu.Lock()
			if l.requireLength {
				l.lengthStart = l.player.Deltatime()
			}
			l.mu.Unlock()
		}
	}

	l.mu.Lock()
	loopLength := l.loopLength
	step := l.quantizeStepLocked()
	l.mu.Unlock()

	if loopLength <= 0 {
		return
	}
	clock := floorMod(l.player.Deltatime(), loopLength)
	track.RecordOn(clock, bytes, step)
}

func (l *Looper) traceMidiIn(bytes []byte, deltaMs int32) {
	l.mu.Lock()
	l.midiClock += float64(deltaMs) / 1000.0
	clock := l.midiClock
	l.mu.Unlock()

	if len(bytes) == 0 {
		return
	}
	channel := channelOf(bytes)
	switch statusNibble(bytes) {
	case statusNoteOn:
		if len(bytes) > 2 {
			fmt.Printf("midi in: channel=%d note=%s velocity=%d clock=%.3f\n",
				channel, midi.NoteName(bytes[1]), bytes[2], clock)
		}
	case statusNoteOff:
		if len(bytes) > 1 {
			fmt.Printf("midi in: channel=%d note off=%s clock=%.3f\n",
				channel, midi.NoteName(bytes[1]), clock)
		}
	case 0xB0:
		if len(bytes) > 2 {
			fmt.Printf("midi in: channel=%d controller=%d value=%d clock=%.3f\n",
				channel, bytes[1], bytes[2], clock)
		}
	default:
		fmt.Printf("midi in: status=%#x channel=%d clock=%.3f\n", bytes[0]&0xF0, channel, clock)
	}
}

// Verbose reports whether the MIDI-in trace is enabled.
func (l *Looper) Verbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

// SetVerbose enables or disables the MIDI-in trace.
func (l *Looper) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// Measure returns the 1-based measure within the loop, or 1 while stopped.
func (l *Looper) Measure() int {
	if !l.player.Playing() {
		return 1
	}
	l.mu.Lock()
	measureLength, measures := l.measureLength, l.measures
	l.mu.Unlock()
	if measureLength <= 0 || measures <= 0 {
		return 1
	}
	return 1 + int(l.player.Deltatime()/measureLength)%measures
}

// Beat returns the 1-based beat within the current measure, or 0 while
// stopped.
func (l *Looper) Beat() int {
	if !l.player.Playing() {
		return 0
	}
	l.mu.Lock()
	beatLength, beatPerMeasures := l.beatLength, l.beatPerMeasures
	l.mu.Unlock()
	if beatLength <= 0 || beatPerMeasures <= 0 {
		return 0
	}
	return 1 + int(l.player.Deltatime()/beatLength)%beatPerMeasures
}
