package settings

import (
	"encoding/json"
	"os"
	"testing"
)

func TestNoteRoundTripsAsIntegerArray(t *testing.T) {
	n := Note{Clock: 0.125, Bytes: []byte{0x90, 60, 100}, Aux: nil}

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `[0.125,[144,60,100],null]`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var got Note
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Clock != n.Clock {
		t.Errorf("Clock = %v, want %v", got.Clock, n.Clock)
	}
	if len(got.Bytes) != len(n.Bytes) {
		t.Fatalf("Bytes = %v, want %v", got.Bytes, n.Bytes)
	}
	for i := range n.Bytes {
		if got.Bytes[i] != n.Bytes[i] {
			t.Errorf("Bytes[%d] = %d, want %d", i, got.Bytes[i], n.Bytes[i])
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{
		BPM:               120,
		Measures:          4,
		BeatPerMeasures:   4,
		Port:              0,
		RecordOnFirstNote: true,
		Quantize:          4,
		Channels:          []bool{true, true, false, true, true, true, true, true},
		Tracks: []Track{
			{Index: 1, Notes: []Note{{Clock: 0, Bytes: []byte{0x90, 60, 100}}}, Muted: false},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.BPM != doc.BPM || got.Quantize != doc.Quantize {
		t.Errorf("got = %+v, want %+v", got, doc)
	}
	if len(got.Tracks) != 1 || len(got.Tracks[0].Notes) != 1 {
		t.Fatalf("tracks did not round-trip: %+v", got.Tracks)
	}
	if got.Tracks[0].Notes[0].Bytes[1] != 60 {
		t.Errorf("note byte = %d, want 60", got.Tracks[0].Notes[0].Bytes[1])
	}
}

func TestLoadRejectsFutureVersion(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	defer os.Chdir(wd)

	data, _ := json.Marshal(Document{Version: CurrentVersion + 1})
	if err := os.WriteFile(FileName, data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() with future version, want error")
	}
}
