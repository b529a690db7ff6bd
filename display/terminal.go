package display

import (
	"fmt"
	"strings"

	"github.com/iltempo/midiloop/looper"
)

// Terminal is the box-drawing status renderer. It satisfies Backend so it
// can stand in for an
// OLED-class display, but its Draw degrades a pixel bitmap to a coarse
// ASCII sketch rather than attempting a faithful render — the core engine
// never calls Draw itself (§6), and ShowStatus is the renderer actually
// wired into cmd/looper.
type Terminal struct{}

// NewTerminal returns a Terminal renderer.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// ShowStatus prints a header line (transport, tempo, measures, quantize,
// port, tick), a measure/beat line, and one row per track.
func (Terminal) ShowStatus(s looper.Status) {
	transport := "stopped"
	if s.Playing {
		transport = "playing"
	}
	tick := ""
	if s.WithTick {
		tick = " [tick]"
	}

	fmt.Printf("┌─ %s — %d bpm, %d measures, q=%d, port %d%s ┐\n",
		transport, s.BPM, s.Measures, s.Quantize, s.Port, tick)
	fmt.Printf("│ measure %d beat %d\n", s.Measure, s.Beat)

	for _, tr := range s.Tracks {
		state := " "
		switch {
		case tr.Recording:
			state = "●"
		case tr.Muted:
			state = "x"
		}
		marker := " "
		if tr.Index == s.ActiveTrack {
			marker = "*"
		}
		fmt.Printf("│ %s%d %s %3d notes\n", marker, tr.Index, state, tr.NoteCount)
	}

	fmt.Printf("└%s┘\n", strings.Repeat("─", 20))
}

// Draw renders a row-major, one-byte-per-pixel bitmap as a coarse ASCII
// sketch: '#' for a set pixel, ' ' otherwise. Satisfies Backend for an
// OLED-class display; unused by the status loop in cmd/looper, which
// calls ShowStatus directly.
func (Terminal) Draw(bitmap []byte, width, height int) error {
	if width <= 0 || height <= 0 || len(bitmap) < width*height {
		return fmt.Errorf("display: bitmap too small for %dx%d", width, height)
	}
	for row := 0; row < height; row++ {
		var line strings.Builder
		for col := 0; col < width; col++ {
			if bitmap[row*width+col] != 0 {
				line.WriteByte('#')
			} else {
				line.WriteByte(' ')
			}
		}
		fmt.Println(line.String())
	}
	return nil
}
