package keyboard

// Linux input event types (linux/input-event-codes.h). Only EV_KEY events
// carry key transitions; everything else is ignored.
const (
	evSyn = 0x00
	evKey = 0x01
)

// Key transition values carried in input_event.Value.
const (
	keyUp   = 0
	keyDown = 1
	// keyRepeat = 2, auto-repeat from the kernel; Dispatcher debounces its
	// own repeats so these are dropped rather than forwarded.
)

// keyName is one scancode's unshifted and shifted identifier, matching
// hidinput.py's keyboard_keys table. A single-element entry has no shift
// variant and reports the same name regardless of the shift modifier.
type keyName struct {
	plain, shifted string
}

func (k keyName) resolve(shift bool) string {
	if shift && k.shifted != "" {
		return k.shifted
	}
	return k.plain
}

// scancodes maps a Linux evdev keycode to its name pair. Letters report
// their lowercase form for both shift states since the command table
// binds lowercase keys regardless of case.
var scancodes = map[uint16]keyName{
	0x02: {"1", "!"}, 0x03: {"2", "@"}, 0x04: {"3", "#"}, 0x05: {"4", "$"},
	0x06: {"5", "%"}, 0x07: {"6", "^"}, 0x08: {"7", "&"}, 0x09: {"8", "*"},
	0x0a: {"9", "("}, 0x0b: {"0", ")"},

	0x10: {"q", "q"}, 0x11: {"w", "w"}, 0x12: {"e", "e"}, 0x13: {"r", "r"},
	0x14: {"t", "t"}, 0x15: {"y", "y"}, 0x16: {"u", "u"}, 0x17: {"i", "i"},
	0x18: {"o", "o"}, 0x19: {"p", "p"},

	0x1e: {"a", "a"}, 0x1f: {"s", "s"}, 0x20: {"d", "d"}, 0x21: {"f", "f"},
	0x22: {"g", "g"}, 0x23: {"h", "h"}, 0x24: {"j", "j"}, 0x25: {"k", "k"},
	0x26: {"l", "l"},

	0x2c: {"z", "z"}, 0x2d: {"x", "x"}, 0x2e: {"c", "c"}, 0x2f: {"v", "v"},
	0x30: {"b", "b"}, 0x31: {"n", "n"}, 0x32: {"m", "m"},
	0x33: {",", "<"}, 0x34: {".", ">"}, 0x35: {"/", "?"},

	0x01: {"escape", ""},
	0x1c: {"enter", ""},
	0x39: {"space", ""},
	0x0f: {"tab", ""},
	0x3a: {"caps_lock", ""},

	0x3b: {"f1", ""}, 0x3c: {"f2", ""}, 0x3d: {"f3", ""}, 0x3e: {"f4", ""},
	0x3f: {"f5", ""}, 0x40: {"f6", ""}, 0x41: {"f7", ""}, 0x42: {"f8", ""},
	0x43: {"f9", ""}, 0x44: {"f10", ""}, 0x57: {"f11", ""}, 0x58: {"f12", ""},

	0x66: {"home", ""}, 0x6b: {"end", ""},
	0x68: {"page_up", ""}, 0x6d: {"page_down", ""},
	0x6e: {"insert", ""}, 0x6f: {"delete", ""},

	0x37: {"numpad_multiply", ""},
	0x62: {"numpad_divide", ""},
	0x4a: {"numpad_subtract", ""},
	0x4e: {"numpad_add", ""},

	0x2a: {"shift", ""}, 0x36: {"shift", ""},
	0x1d: {"ctrl", ""}, 0x61: {"ctrl", ""},
	0x38: {"alt", ""},
}

func lookupKey(code uint16, shift bool) (string, bool) {
	name, ok := scancodes[code]
	if !ok {
		return "", false
	}
	return name.resolve(shift), true
}
