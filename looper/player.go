package looper

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// playerSession is the subset of Looper state the player loop consults every
// tick. *Looper implements it.
type playerSession interface {
	Tracks() []*Track
	LoopLength() float64
	BeatLength() float64
	WithTick() bool
}

const (
	tickChannel  = 0
	tickNote     = 42
	tickVelocity = 50

	allSoundOff         = 120
	resetAllControllers = 121
)

var (
	songStart = []byte{0xFA}
	songStop  = []byte{0xFC}
)

// Player drives the monotonic time cursor: each iteration it computes the
// cursor's position within the loop, replays every track's window for the
// elapsed span, and folds the cursor back to zero at the loop boundary.
type Player struct {
	session playerSession

	playing atomic.Bool

	mu        sync.Mutex
	sender    Sender
	timeStart time.Time
	restart   bool

	quit chan struct{}
	done chan struct{}
}

// NewPlayer creates a player bound to session for track/length lookups and
// sender for transport markers and beat ticks.
func NewPlayer(session playerSession, sender Sender) *Player {
	return &Player{
		session: session,
		sender:  sender,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run is the player's main loop. Call it in its own goroutine; it returns
// once Quit is called.
func (p *Player) Run() {
	defer close(p.done)

	var prevCursor, tickAccum float64

	for {
		select {
		case <-p.quit:
			return
		default:
		}

		if !p.playing.Load() {
			time.Sleep(time.Millisecond)
			continue
		}

		p.mu.Lock()
		if p.restart {
			prevCursor, tickAccum = 0, 0
			p.restart = false
		}
		timeStart := p.timeStart
		p.mu.Unlock()

		time.Sleep(time.Millisecond)

		loopLength := p.session.LoopLength()
		if loopLength <= 0 {
			continue
		}

		now := time.Since(timeStart).Seconds()
		cursor := floorMod(now, loopLength)

		if beatLength := p.session.BeatLength(); beatLength > 0 && now-tickAccum > beatLength {
			p.emitTick()
			tickAccum = now
		}

		if cursor > prevCursor {
			p.playWindow(prevCursor, cursor)
		} else {
			p.playWindow(prevCursor, loopLength)
			p.mergeTracks()
			p.playWindow(0, cursor)
		}
		prevCursor = cursor
	}
}

func (p *Player) playWindow(start, end float64) {
	for _, tr := range p.session.Tracks() {
		tr.PlayWindow(start, end)
	}
}

func (p *Player) mergeTracks() {
	for _, tr := range p.session.Tracks() {
		tr.Merge()
	}
}

func (p *Player) emitTick() {
	if !p.session.WithTick() {
		return
	}
	sender := p.getSender()
	if err := sender.NoteOff(tickChannel, tickNote); err != nil {
		fmt.Printf("player: tick NoteOff error: %v\n", err)
	}
	if err := sender.NoteOn(tickChannel, tickNote, tickVelocity); err != nil {
		fmt.Printf("player: tick NoteOn error: %v\n", err)
	}
}

func (p *Player) getSender() Sender {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sender
}

// SetSender rebinds the player's output sink, used when the MIDI port
// changes.
func (p *Player) SetSender(sender Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sender = sender
}

// Playing reports whether the transport is currently running.
func (p *Player) Playing() bool {
	return p.playing.Load()
}

// Deltatime returns seconds elapsed since the current play session's anchor.
// Zero while stopped and never started.
func (p *Player) Deltatime() float64 {
	p.mu.Lock()
	timeStart := p.timeStart
	p.mu.Unlock()
	if timeStart.IsZero() {
		return 0
	}
	return time.Since(timeStart).Seconds()
}

// Play anchors the time cursor and starts the transport. No-op if already
// playing.
func (p *Player) Play() {
	if p.playing.Load() {
		return
	}
	p.mu.Lock()
	p.timeStart = time.Now()
	p.restart = true
	p.mu.Unlock()
	p.playing.Store(true)
	if err := p.getSender().SendRaw(songStart); err != nil {
		fmt.Printf("player: SONG_START send error: %v\n", err)
	}
	p.emitTick()
}

// Stop halts the transport and silences every track. No-op if already
// stopped.
func (p *Player) Stop() {
	if !p.playing.Load() {
		return
	}
	p.playing.Store(false)
	if err := p.getSender().SendRaw(songStop); err != nil {
		fmt.Printf("player: SONG_STOP send error: %v\n", err)
	}
	for _, tr := range p.session.Tracks() {
		tr.Off()
	}
}

// TogglePlay stops if playing, else plays.
func (p *Player) TogglePlay() {
	if p.playing.Load() {
		p.Stop()
		return
	}
	p.Play()
}

// Panic stops the transport, then sweeps every channel with all-sound-off,
// reset-all-controllers, and a NOTE_OFF for every note. Total: after it
// returns no note can remain stuck under this system's control.
func (p *Player) Panic() {
	p.Stop()
	sender := p.getSender()
	for channel := uint8(0); channel < 16; channel++ {
		if err := sender.SendControlChange(channel, allSoundOff, 0); err != nil {
			fmt.Printf("player: panic all-sound-off error: %v\n", err)
		}
		if err := sender.SendControlChange(channel, resetAllControllers, 0); err != nil {
			fmt.Printf("player: panic reset-controllers error: %v\n", err)
		}
		for note := 0; note <= 127; note++ {
			if err := sender.NoteOff(channel, uint8(note)); err != nil {
				fmt.Printf("player: panic NoteOff error: %v\n", err)
			}
		}
	}
}

// Quit stops the main loop after its current iteration and waits for it to
// exit.
func (p *Player) Quit() {
	close(p.quit)
	<-p.done
}
