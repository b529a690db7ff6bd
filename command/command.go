// Package command translates keyboard key identifiers into looper
// operations: a static key table, edge-triggered press/release dispatch,
// and ctrl modifier tracking independent of the table lookup (shift is
// consumed and never dispatched).
package command

// KeyID identifies a key the way the keyboard backend reports it: a
// lowercase printable character ("z", "1", ",") or a named key ("space",
// "f12", "numpad_add"). Two KeyIDs compare equal iff they name the same key.
type KeyID string

// Modifier keys are handled by the dispatcher itself, not looked up in the
// command table. Ctrl gates how KindRecord presses are interpreted; shift
// is ignored.
const (
	KeyShift KeyID = "shift"
	KeyCtrl  KeyID = "ctrl"
)

// Kind enumerates the looper operations a key can trigger.
type Kind int

const (
	KindNone Kind = iota
	KindTogglePlay
	KindPanic
	KindReset
	KindStopRecord
	KindRecord
	KindRecordAfter
	KindMute
	KindToggleChannel
	KindIncrementTempo
	KindIncrementMeasure
	KindIncreaseQuantize
	KindDecreaseQuantize
	KindSaveSettings
	KindLoadSettings
	KindToggleTick
	KindToggleRecordOnFirstNote
	KindMidiPrevPort
	KindMidiNextPort
)

// Command is a tagged variant: Kind selects the operation, Arg carries its
// one integer argument (track index or a signed delta) when it has one.
type Command struct {
	Kind Kind
	Arg  int
}

// releaseVariant returns the release-edge counterpart of a press command,
// if it has one. Only record has release semantics (record_after);
// everything else fires on press alone.
func releaseVariant(c Command) (Command, bool) {
	if c.Kind == KindRecord {
		return Command{Kind: KindRecordAfter, Arg: c.Arg}, true
	}
	return Command{}, false
}

// Target is the set of looper operations the dispatcher can invoke. *looper.Looper
// satisfies it directly.
type Target interface {
	TogglePlay()
	Panic()
	Reset()
	ResetTrack(index int)
	StopRecord()
	Record(index int)
	RecordAfter(index int)
	Mute(index int)
	ToggleChannel(index int)
	IncrementTempo(amount int)
	IncrementMeasure(amount int)
	IncreaseQuantize()
	DecreaseQuantize()
	SaveSettings()
	LoadSettings()
	ToggleTick()
	ToggleRecordOnFirstNote()
	MidiPrevPort()
	MidiNextPort()
}

// Dispatcher holds the currently-pressed key set and modifier state, and
// turns edge-triggered press/release events into calls on a Target.
type Dispatcher struct {
	target  Target
	table   map[KeyID]Command
	pressed map[KeyID]struct{}
	ctrl    bool
}

// New builds a dispatcher bound to target using the canonical key table.
func New(target Target) *Dispatcher {
	return &Dispatcher{
		target:  target,
		table:   defaultTable(),
		pressed: make(map[KeyID]struct{}),
	}
}

// OnPress handles a key-down event. Ctrl updates modifier state and shift
// is ignored; neither is looked up in the table. A key already held
// (auto-repeat) is ignored. KindRecord presses while ctrl is held reset the
// track instead of arming it, matching the reset-modifier rule.
func (d *Dispatcher) OnPress(key KeyID) {
	switch key {
	case KeyShift:
		return
	case KeyCtrl:
		d.ctrl = true
		return
	}

	if _, held := d.pressed[key]; held {
		return
	}
	d.pressed[key] = struct{}{}

	cmd, ok := d.table[key]
	if !ok {
		return
	}
	d.invoke(cmd)
}

// OnRelease handles a key-up event. Releasing an untracked key or a
// modifier is a no-op beyond clearing ctrl state.
func (d *Dispatcher) OnRelease(key KeyID) {
	switch key {
	case KeyShift:
		return
	case KeyCtrl:
		d.ctrl = false
		return
	}

	if _, held := d.pressed[key]; !held {
		return
	}
	delete(d.pressed, key)

	cmd, ok := d.table[key]
	if !ok {
		return
	}
	if after, has := releaseVariant(cmd); has {
		d.invoke(after)
	}
}

func (d *Dispatcher) invoke(cmd Command) {
	// While ctrl is held a record key resets its track, and its release
	// fires nothing.
	if d.ctrl {
		switch cmd.Kind {
		case KindRecord:
			d.target.ResetTrack(cmd.Arg)
			return
		case KindRecordAfter:
			return
		}
	}

	switch cmd.Kind {
	case KindTogglePlay:
		d.target.TogglePlay()
	case KindPanic:
		d.target.Panic()
	case KindReset:
		d.target.Reset()
	case KindStopRecord:
		d.target.StopRecord()
	case KindRecord:
		d.target.Record(cmd.Arg)
	case KindRecordAfter:
		d.target.RecordAfter(cmd.Arg)
	case KindMute:
		d.target.Mute(cmd.Arg)
	case KindToggleChannel:
		d.target.ToggleChannel(cmd.Arg)
	case KindIncrementTempo:
		d.target.IncrementTempo(cmd.Arg)
	case KindIncrementMeasure:
		d.target.IncrementMeasure(cmd.Arg)
	case KindIncreaseQuantize:
		d.target.IncreaseQuantize()
	case KindDecreaseQuantize:
		d.target.DecreaseQuantize()
	case KindSaveSettings:
		d.target.SaveSettings()
	case KindLoadSettings:
		d.target.LoadSettings()
	case KindToggleTick:
		d.target.ToggleTick()
	case KindToggleRecordOnFirstNote:
		d.target.ToggleRecordOnFirstNote()
	case KindMidiPrevPort:
		d.target.MidiPrevPort()
	case KindMidiNextPort:
		d.target.MidiNextPort()
	}
}
