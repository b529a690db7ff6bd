package looper

import (
	"fmt"

	"github.com/iltempo/midiloop/settings"
)

// SaveSettings writes the current session to the settings file. Errors are
// reported but not propagated — persistence is an operator convenience, not
// part of the realtime contract.
func (l *Looper) SaveSettings() {
	doc := l.toDocument()
	if err := settings.Save(doc); err != nil {
		fmt.Printf("save settings: %v\n", err)
		return
	}
	fmt.Println("Settings saved")
}

// LoadSettings reads the settings file and applies it, reopening the MIDI
// port and rebuilding tracks from the persisted notes. If the file cannot be
// read or parsed the current state is left unchanged; a failure to reopen
// the port is reported and loading continues with the rest of the document.
func (l *Looper) LoadSettings() {
	doc, err := settings.Load()
	if err != nil {
		fmt.Printf("load settings: %v\n", err)
		return
	}
	l.applyDocument(doc)
	fmt.Println("Settings loaded")
}

func (l *Looper) toDocument() settings.Document {
	l.mu.Lock()
	doc := settings.Document{
		BPM:               l.bpm,
		Measures:          l.measures,
		BeatPerMeasures:   l.beatPerMeasures,
		Port:              l.port,
		RecordOnFirstNote: l.recordOnFirstNote,
		Quantize:          l.quantize,
		Channels:          append([]bool(nil), l.channels[:8]...),
	}
	tracks := make([]*Track, 0, len(l.tracks))
	for _, tr := range l.tracks {
		tracks = append(tracks, tr)
	}
	l.mu.Unlock()

	for _, tr := range tracks {
		notes := tr.Notes()
		docNotes := make([]settings.Note, len(notes))
		for i, ev := range notes {
			docNotes[i] = settings.Note{Clock: ev.Clock, Bytes: ev.Bytes, Aux: ev.Aux}
		}
		doc.Tracks = append(doc.Tracks, settings.Track{
			Index: tr.Index(),
			Notes: docNotes,
			Muted: tr.Muted(),
		})
	}
	return doc
}

func (l *Looper) applyDocument(doc settings.Document) {
	l.mu.Lock()
	l.bpm = doc.BPM
	l.measures = doc.Measures
	l.beatPerMeasures = doc.BeatPerMeasures
	l.recordOnFirstNote = doc.RecordOnFirstNote
	l.quantize = doc.Quantize
	for i := 0; i < len(l.channels) && i < len(doc.Channels); i++ {
		l.channels[i] = doc.Channels[i]
	}
	l.recalcLengthLocked()
	port := doc.Port
	l.mu.Unlock()

	if err := l.openMidiPort(port); err != nil {
		fmt.Printf("load settings: %v\n", err)
	}

	l.mu.Lock()
	l.tracks = make(map[int]*Track)
	l.mu.Unlock()

	for _, docTrack := range doc.Tracks {
		tr := l.GetTrack(docTrack.Index)
		notes := make([]Event, len(docTrack.Notes))
		for i, n := range docTrack.Notes {
			notes[i] = Event{Clock: n.Clock, Bytes: n.Bytes, Aux: n.Aux}
		}
		tr.SetNotes(notes)
		tr.SetMuted(docTrack.Muted)
	}
}
