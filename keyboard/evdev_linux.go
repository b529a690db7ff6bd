//go:build linux

package keyboard

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// inputEvent mirrors struct input_event on a 64-bit Linux kernel
// (linux/input.h): two timeval fields, then type/code/value. Field widths
// match the kernel ABI on amd64/arm64; the legacy 32-bit timeval layout
// used on some 32-bit targets is out of scope.
type inputEvent struct {
	Sec, Usec uint64
	Type      uint16
	Code      uint16
	Value     int32
}

const inputEventSize = 24 // 8 + 8 + 2 + 2 + 4, no trailing pad needed

// eviocgnameIoctl is EVIOCGNAME(255): _IOC(_IOC_READ, 'E', 0x06, 255).
const eviocgnameIoctl = 0x80ff4506

// EvdevBackend reads raw key events from a Linux input device node,
// translating scancodes through the table in keys.go. Grounded on the
// HIDInputProvider read loop: open the device, read fixed-size
// input_event records, and dispatch EV_KEY transitions.
type EvdevBackend struct {
	DevicePath string
}

// NewEvdevBackend returns a backend reading from the given device node
// (e.g. "/dev/input/event0").
func NewEvdevBackend(devicePath string) *EvdevBackend {
	return &EvdevBackend{DevicePath: devicePath}
}

// Run opens the device and blocks, translating EV_KEY events into
// onPress/onRelease calls until the device is closed or a read fails.
func (b *EvdevBackend) Run(onPress, onRelease func(KeyID)) error {
	f, err := os.Open(b.DevicePath)
	if err != nil {
		return fmt.Errorf("open input device %s: %w", b.DevicePath, err)
	}
	defer f.Close()

	if name, err := deviceName(f); err == nil {
		fmt.Printf("Connected to %s\n", name)
	}

	shift := false
	buf := make([]byte, inputEventSize)

	for {
		if _, err := readFull(f, buf); err != nil {
			return fmt.Errorf("read input device: %w", err)
		}

		ev := inputEvent{
			Sec:   binary.LittleEndian.Uint64(buf[0:8]),
			Usec:  binary.LittleEndian.Uint64(buf[8:16]),
			Type:  binary.LittleEndian.Uint16(buf[16:18]),
			Code:  binary.LittleEndian.Uint16(buf[18:20]),
			Value: int32(binary.LittleEndian.Uint32(buf[20:24])),
		}

		if ev.Type != evKey {
			continue
		}

		name, ok := lookupKey(ev.Code, shift)
		if !ok {
			continue
		}

		switch ev.Value {
		case keyDown:
			if name == "shift" {
				shift = true
			}
			onPress(KeyID(name))
		case keyUp:
			onRelease(KeyID(name))
			if name == "shift" {
				shift = false
			}
		}
	}
}

func readFull(f *os.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Read(buf[total:])
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, fmt.Errorf("unexpected EOF on input device")
		}
		total += n
	}
	return total, nil
}

// deviceName issues EVIOCGNAME via an ioctl syscall, matching the
// fcntl.ioctl(fd, EVIOCGNAME + ...) call in the original reader.
func deviceName(f *os.File) (string, error) {
	buf := make([]byte, 256)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(eviocgnameIoctl), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n]), nil
}
