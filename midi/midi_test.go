package midi

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

// TestListPorts tests that ListPorts returns without error.
// Note: We can't assert specific ports since it depends on the system.
func TestListPorts(t *testing.T) {
	ports, err := ListPorts()
	if err != nil {
		t.Errorf("ListPorts() unexpected error: %v", err)
	}

	if ports == nil {
		t.Error("ListPorts() returned nil instead of empty slice")
	}
}

// TestOpenInvalidPort tests opening an invalid output port index.
func TestOpenInvalidPort(t *testing.T) {
	_, err := Open(9999)
	if err == nil {
		t.Error("Open(9999) should return error for invalid port index")
	}
}

// TestOpenInInvalidPort tests opening an invalid input port index.
func TestOpenInInvalidPort(t *testing.T) {
	_, err := OpenIn(9999, func(msg midi.Message, deltaMs int32) {})
	if err == nil {
		t.Error("OpenIn(9999, ...) should return error for invalid port index")
	}
}

// TestNoteNameRoundTrip checks NoteName/NoteNameToMIDI agree with each other.
func TestNoteNameRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		note uint8
	}{
		{"C4", 60},
		{"A4", 69},
		{"C0", 12},
		{"C8", 108},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoteName(tt.note); got != tt.name {
				t.Errorf("NoteName(%d) = %q, want %q", tt.note, got, tt.name)
			}
			got, err := NoteNameToMIDI(tt.name)
			if err != nil {
				t.Fatalf("NoteNameToMIDI(%q) unexpected error: %v", tt.name, err)
			}
			if got != tt.note {
				t.Errorf("NoteNameToMIDI(%q) = %d, want %d", tt.name, got, tt.note)
			}
		})
	}
}

// TestNoteNameToMIDIInvalid checks error paths on malformed note names.
func TestNoteNameToMIDIInvalid(t *testing.T) {
	for _, name := range []string{"", "C", "X4", "C99", "C#4extra"} {
		if _, err := NoteNameToMIDI(name); err == nil {
			t.Errorf("NoteNameToMIDI(%q) expected error, got nil", name)
		}
	}
}

// TestSharpsAndFlats checks enharmonic spellings resolve to the same note.
func TestSharpsAndFlats(t *testing.T) {
	sharp, err := NoteNameToMIDI("C#4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flat, err := NoteNameToMIDI("Db4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sharp != flat {
		t.Errorf("C#4 (%d) and Db4 (%d) should be the same MIDI note", sharp, flat)
	}
}
