package looper

import "sort"

// Status is a point-in-time snapshot of session state for UI rendering.
// The core engine has no dependency on the display package; cmd/looper
// converts this into whatever shape a Backend wants.
type Status struct {
	BPM               int
	Measures          int
	Quantize          int
	Port              int
	RecordOnFirstNote bool
	WithTick          bool
	Playing           bool
	Measure           int
	Beat              int
	ActiveTrack       int // 0 when no track is armed
	Tracks            []TrackStatus
}

// TrackStatus is one track's rendered state.
type TrackStatus struct {
	Index     int
	NoteCount int
	Recording bool
	Muted     bool
}

// Snapshot builds a Status from current session state.
func (l *Looper) Snapshot() Status {
	l.mu.Lock()
	s := Status{
		BPM:               l.bpm,
		Measures:          l.measures,
		Quantize:          l.quantize,
		Port:              l.port,
		RecordOnFirstNote: l.recordOnFirstNote,
		WithTick:          l.withTick,
	}
	if l.activeTrack != nil {
		s.ActiveTrack = l.activeTrack.Index()
	}
	tracks := make([]*Track, 0, len(l.tracks))
	for _, tr := range l.tracks {
		tracks = append(tracks, tr)
	}
	l.mu.Unlock()

	s.Playing = l.Playing()
	s.Measure = l.Measure()
	s.Beat = l.Beat()

	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Index() < tracks[j].Index() })
	for _, tr := range tracks {
		s.Tracks = append(s.Tracks, TrackStatus{
			Index:     tr.Index(),
			NoteCount: tr.NoteCount(),
			Recording: tr.Recording(),
			Muted:     tr.Muted(),
		})
	}
	return s
}
