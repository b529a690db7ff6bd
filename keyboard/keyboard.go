// Package keyboard supplies the looper's key event source: a Backend
// contract (run(on_press, on_release) per §6) with a Linux evdev
// implementation grounded in the original HID input reader, plus a stub
// for other platforms.
package keyboard

// KeyID identifies a key by the name the backend assigns it: a lowercase
// printable character or a named key ("space", "f12", "numpad_add"). The
// command package's KeyID is the same underlying string type, so values
// from here pass straight into a command.Dispatcher.
type KeyID string

// Backend is the keyboard event source contract. Run blocks, invoking
// onPress/onRelease for every key transition, until the device closes or
// an unrecoverable read error occurs.
type Backend interface {
	Run(onPress, onRelease func(KeyID)) error
}
