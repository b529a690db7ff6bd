//go:build !linux

package keyboard

import (
	"fmt"
	"runtime"
)

// EvdevBackend is unavailable outside Linux; evdev device nodes are a
// Linux-specific interface. Run always fails so callers get a clear
// startup error instead of silently doing nothing.
type EvdevBackend struct {
	DevicePath string
}

// NewEvdevBackend returns a backend that fails on Run.
func NewEvdevBackend(devicePath string) *EvdevBackend {
	return &EvdevBackend{DevicePath: devicePath}
}

// Run always returns an error on non-Linux platforms.
func (b *EvdevBackend) Run(onPress, onRelease func(KeyID)) error {
	return fmt.Errorf("evdev keyboard backend requires linux, got %s", runtime.GOOS)
}
