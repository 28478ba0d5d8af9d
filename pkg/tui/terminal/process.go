// ABOUTME: ProcessTerminal implements Terminal on the controlling tty via golang.org/x/term.
// ABOUTME: Manages raw mode state and delegates platform-specific size and resize handling.

package terminal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by the process's controlling
// tty and x/term. Opening /dev/tty directly (rather than assuming stdin)
// keeps probing working when stdin is redirected.
type ProcessTerminal struct {
	mu       sync.Mutex
	tty      *os.File
	oldState *term.State
	resizeFn func(cols, rows int)
}

// NewProcessTerminal opens the controlling terminal. It fails when the
// process has no tty (pipelines, CI), which callers treat as "no terminal
// capabilities" rather than a fatal condition.
func NewProcessTerminal() (*ProcessTerminal, error) {
	tty, err := openTTY()
	if err != nil {
		return nil, fmt.Errorf("opening controlling terminal: %w", err)
	}
	return &ProcessTerminal{tty: tty}, nil
}

// Close releases the tty handle.
func (t *ProcessTerminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tty.Close()
}

// EnterRawMode switches the tty to raw mode, saving the previous state.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := term.MakeRaw(int(t.tty.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	return nil
}

// ExitRawMode restores the terminal to its previous state.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(t.tty.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// Read delivers raw bytes from the tty.
func (t *ProcessTerminal) Read(p []byte) (int, error) {
	n, err := t.tty.Read(p)
	if err != nil {
		return n, fmt.Errorf("reading from terminal: %w", err)
	}
	return n, nil
}

// Write sends bytes to the tty.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.tty.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to terminal: %w", err)
	}
	return n, nil
}

// Flush is a no-op: tty writes are unbuffered.
func (t *ProcessTerminal) Flush() error {
	return nil
}

// Size returns the current terminal dimensions in cells.
func (t *ProcessTerminal) Size() (cols, rows int, err error) {
	w, h, err := term.GetSize(int(t.tty.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// PixelSize returns the terminal's text area in pixels, or (0, 0) when the
// platform or emulator does not report it.
func (t *ProcessTerminal) PixelSize() (width, height int) {
	return pixelSize(int(t.tty.Fd()))
}

// OnResize registers a callback invoked when the terminal is resized.
// Platform-specific signal handling is set up by startResizeListener.
func (t *ProcessTerminal) OnResize(fn func(cols, rows int)) {
	t.mu.Lock()
	t.resizeFn = fn
	t.mu.Unlock()

	t.startResizeListener()
}
