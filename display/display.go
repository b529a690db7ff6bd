// Package display renders looper session state. The core engine never
// depends on it (§6): it is driven externally from cmd/looper, reading
// state through looper.Looper.Snapshot.
package display

// Backend is the rendering contract: Draw receives a 128x32 1-bit bitmap,
// row-major, one byte per pixel (0 or 1), matching an OLED-class display.
// The Terminal renderer implements it only as a coarse ASCII sketch; its
// status output goes through ShowStatus instead.
type Backend interface {
	Draw(bitmap []byte, width, height int) error
}
