// Command looper runs the realtime MIDI looper: opens a MIDI port, starts
// the player thread, reads keyboard commands, and renders session status
// to the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/iltempo/midiloop/command"
	"github.com/iltempo/midiloop/display"
	"github.com/iltempo/midiloop/keyboard"
	"github.com/iltempo/midiloop/looper"
	"github.com/iltempo/midiloop/midi"
	"github.com/mattn/go-isatty"
)

// isTerminal returns true if stdin is a terminal (TTY).
func isTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// ports adapts the midi package's free functions to looper.PortManager so
// the looper package never imports gitlab.com/gomidi/midi/v2 directly.
type ports struct{}

func (ports) ListPorts() ([]string, error) { return midi.ListPorts() }

func (ports) Open(portIndex int) (looper.Sender, error) {
	out, err := midi.Open(portIndex)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ports) OpenIn(portIndex int, onMessage func(bytes []byte, deltaMs int32)) (io.Closer, error) {
	return midi.OpenIn(portIndex, func(msg midi.Message, deltaMs int32) {
		onMessage([]byte(msg), deltaMs)
	})
}

func main() {
	devicePath := flag.String("keyboard", "/dev/input/event0", "keyboard device node (linux evdev)")
	verbose := flag.Bool("verbose", false, "trace inbound MIDI messages")
	flag.Parse()

	names, err := midi.ListPorts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing MIDI ports: %v\n", err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "No MIDI output ports found\n")
		os.Exit(1)
	}

	fmt.Println("Available MIDI ports:")
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}

	portIndex := choosePort(names)
	fmt.Printf("Using port %d: %s\n\n", portIndex, names[portIndex])

	l, err := looper.NewLooper(ports{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting looper: %v\n", err)
		os.Exit(1)
	}
	l.SetVerbose(*verbose)
	if portIndex != 0 {
		if err := l.SetPort(portIndex); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening MIDI port %d: %v\n", portIndex, err)
			os.Exit(1)
		}
	}
	l.LoadSettings()
	l.Run()

	cleanup := func() {
		l.Panic()
		l.SaveSettings()
		l.Quit()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down gracefully...")
		cleanup()
		os.Exit(0)
	}()

	dispatcher := command.New(l)
	backend := keyboard.NewEvdevBackend(*devicePath)
	go func() {
		err := backend.Run(
			func(key keyboard.KeyID) { dispatcher.OnPress(command.KeyID(key)) },
			func(key keyboard.KeyID) { dispatcher.OnRelease(command.KeyID(key)) },
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keyboard backend stopped: %v\n", err)
		}
	}()

	term := display.NewTerminal()
	fmt.Println("Looper running. Ctrl+C to exit.")
	for {
		term.ShowStatus(l.Snapshot())
		time.Sleep(500 * time.Millisecond)
	}
}

// choosePort auto-selects port 0 in batch mode (piped stdin); otherwise
// prompts interactively when more than one port is available.
func choosePort(names []string) int {
	if len(names) == 1 || !isTerminal() {
		return 0
	}

	rl, err := readline.New(fmt.Sprintf("Select MIDI port (0-%d): ", len(names)-1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	input, err := rl.Readline()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	input = strings.TrimSpace(input)
	portIndex, err := strconv.Atoi(input)
	if err != nil || portIndex < 0 || portIndex >= len(names) {
		fmt.Fprintf(os.Stderr, "Invalid port selection: %s\n", input)
		os.Exit(1)
	}
	return portIndex
}
