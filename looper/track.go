package looper

import (
	"fmt"
	"sort"
	"sync"
)

// notePair identifies a sounding note by channel and note number.
type notePair struct {
	channel uint8
	note    uint8
}

// negativeClockFloor stands in for "always below any window start", used by
// PlayWindow's start==0 special case. Recorded clocks never fall this low
// (at worst LAG or one quantize step below zero), so it never shadows a
// real event.
const negativeClockFloor = -1.0

// Track holds the recorded content of one loop slot: committed notes,
// events recorded during the current pass, and the set of notes this track
// currently has sounding.
type Track struct {
	mu sync.Mutex

	index     int
	notes     []Event
	pending   []Event
	recording bool
	muted     bool
	active    map[notePair]struct{}

	sender Sender
}

// NewTrack creates an empty track bound to the given output sink.
func NewTrack(index int, sender Sender) *Track {
	return &Track{
		index:  index,
		sender: sender,
		active: make(map[notePair]struct{}),
	}
}

// Index returns the track's 1-based slot number.
func (t *Track) Index() int {
	return t.index
}

// Recording reports whether the track is currently armed.
func (t *Track) Recording() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recording
}

// Muted reports whether the track is currently muted.
func (t *Track) Muted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.muted
}

// NoteCount returns the number of committed events, for display/diagnostics.
func (t *Track) NoteCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.notes)
}

// Notes returns a copy of the committed events, for persistence.
func (t *Track) Notes() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.notes))
	copy(out, t.notes)
	return out
}

// SetNotes replaces the committed events wholesale. Used when restoring a
// track from persisted settings; the caller must supply notes already
// sorted by clock.
func (t *Track) SetNotes(notes []Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notes = notes
}

// SetMuted sets muted directly, bypassing ToggleMute's active-drain
// semantics. Used when restoring persisted state onto a freshly created
// track that has nothing sounding yet.
func (t *Track) SetMuted(muted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.muted = muted
}

// SetSender rebinds the track's output sink, used when the MIDI port
// changes.
func (t *Track) SetSender(sender Sender) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sender = sender
}

// RecordOn appends an inbound NOTE_ON/NOTE_OFF to pending, snapping clock to
// the quantize grid (step > 0) or compensating for input lag (step == 0).
// Ignored if the track isn't recording or the message isn't a note event.
func (t *Track) RecordOn(clock float64, bytes []byte, step float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.recording {
		return
	}
	if !isNoteOn(bytes) && !isNoteOff(bytes) {
		return
	}

	if step > 0 {
		clock = Quantize(clock, step)
	} else {
		clock -= LAG
	}

	t.pending = append(t.pending, Event{Clock: clock, Bytes: append([]byte(nil), bytes...)})
}

// StartRecording arms the track and drains any notes left sounding from
// playback, so a fresh pass never inherits a stuck note.
func (t *Track) StartRecording() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = true
	t.offLocked()
}

// StopRecording disarms the track and merges pending into notes.
func (t *Track) StopRecording() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = false
	t.mergeLocked()
}

// Merge commits pending into notes, stable-sorted by clock, and clears
// pending. Called by the player at the loop-wrap boundary.
func (t *Track) Merge() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mergeLocked()
}

func (t *Track) mergeLocked() {
	if len(t.pending) == 0 {
		return
	}
	t.notes = append(t.notes, t.pending...)
	sort.SliceStable(t.notes, func(i, j int) bool { return t.notes[i].Clock < t.notes[j].Clock })
	t.pending = nil
}

// Reset clears both notes and pending; the track remains but is empty.
func (t *Track) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notes = nil
	t.pending = nil
}

// ToggleMute inverts muted. Becoming muted drains active immediately.
func (t *Track) ToggleMute() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.muted = !t.muted
	if t.muted {
		t.offLocked()
	}
}

// PlayWindow emits every committed event with clock in [start, end],
// maintaining active as notes sound and release. A no-op while muted.
// When start == 0, the lower bound is treated as below any real clock so
// events recorded exactly at the top of the loop are not skipped.
func (t *Track) PlayWindow(start, end float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.muted {
		return
	}

	lo := start
	if start == 0 {
		lo = negativeClockFloor
	}

	for _, ev := range t.notes {
		if ev.Clock >= lo && ev.Clock <= end {
			t.emitLocked(ev)
		}
	}
}

func (t *Track) emitLocked(ev Event) {
	pair := notePair{channel: channelOf(ev.Bytes), note: noteNumber(ev.Bytes)}
	switch statusNibble(ev.Bytes) {
	case statusNoteOn:
		t.active[pair] = struct{}{}
	case statusNoteOff:
		delete(t.active, pair)
	}
	if err := t.sender.SendRaw(ev.Bytes); err != nil {
		fmt.Printf("track %d: send error: %v\n", t.index, err)
	}
}

// Off emits NOTE_OFF for every active note and clears active. Used on mute,
// stop, and panic to guarantee no stuck notes.
func (t *Track) Off() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offLocked()
}

func (t *Track) offLocked() {
	for pair := range t.active {
		if err := t.sender.NoteOff(pair.channel, pair.note); err != nil {
			fmt.Printf("track %d: NoteOff error: %v\n", t.index, err)
		}
	}
	t.active = make(map[notePair]struct{})
}
