// Package settings reads and writes the looper session's persisted state:
// tempo, transport options, channel mask, and each track's recorded notes,
// as a single versioned JSON document.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
)

// CurrentVersion is the document version this package writes. Load accepts
// any version up to and including it.
const CurrentVersion = 1

// FileName is the settings file read and written in the working directory.
const FileName = "settings.json"

// Note is one recorded event, encoded as the JSON tuple [clock, bytes, aux].
type Note struct {
	Clock float64
	Bytes []byte
	Aux   any
}

// MarshalJSON encodes a Note as a 3-element array. Bytes is written as an
// array of small integers rather than encoding/json's default base64
// string, matching the settings document's [clock, [b0,b1,b2], aux] shape.
func (n Note) MarshalJSON() ([]byte, error) {
	octets := make([]int, len(n.Bytes))
	for i, b := range n.Bytes {
		octets[i] = int(b)
	}
	return json.Marshal([3]any{n.Clock, octets, n.Aux})
}

// UnmarshalJSON decodes a Note from a 3-element array.
func (n *Note) UnmarshalJSON(data []byte) error {
	var raw [3]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode note: %w", err)
	}
	if err := json.Unmarshal(raw[0], &n.Clock); err != nil {
		return fmt.Errorf("decode note clock: %w", err)
	}
	var octets []int
	if err := json.Unmarshal(raw[1], &octets); err != nil {
		return fmt.Errorf("decode note bytes: %w", err)
	}
	n.Bytes = make([]byte, len(octets))
	for i, v := range octets {
		n.Bytes[i] = byte(v)
	}
	if len(raw[2]) > 0 {
		if err := json.Unmarshal(raw[2], &n.Aux); err != nil {
			return fmt.Errorf("decode note aux: %w", err)
		}
	}
	return nil
}

// Track is one track's persisted content.
type Track struct {
	Index int    `json:"index"`
	Notes []Note `json:"notes"`
	Muted bool   `json:"muted"`
}

// Document is the whole persisted session.
type Document struct {
	Version           int     `json:"__version__"`
	BPM               int     `json:"bpm"`
	Measures          int     `json:"measures"`
	BeatPerMeasures   int     `json:"beat_per_measures"`
	Port              int     `json:"port"`
	RecordOnFirstNote bool    `json:"record_on_first_note"`
	Quantize          int     `json:"quantize"`
	Channels          []bool  `json:"channels"`
	Tracks            []Track `json:"tracks"`
}

// Save writes doc to FileName, stamping the current version.
func Save(doc Document) error {
	doc.Version = CurrentVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(FileName, data, 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Load reads and parses FileName. An unsupported version is reported as an
// error without modifying any caller state, per the settings document's
// load-failure contract.
func Load() (Document, error) {
	data, err := os.ReadFile(FileName)
	if err != nil {
		return Document{}, fmt.Errorf("read settings file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse settings file: %w", err)
	}
	if doc.Version > CurrentVersion {
		return Document{}, fmt.Errorf("unsupported settings version %d", doc.Version)
	}
	return doc, nil
}
