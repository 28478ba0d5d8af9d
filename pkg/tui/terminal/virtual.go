// ABOUTME: VirtualTerminal implements Terminal for testing without a real TTY.
// ABOUTME: Captures output, tracks raw-mode transitions, and scripts query responses.

package terminal

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Responder produces the bytes a scripted terminal "answers" with when the
// given escape sequence is written to it. Returning nil means no response.
type Responder func(written []byte) []byte

// VirtualTerminal is a fake Terminal for unit tests. It records written
// output, tracks raw-mode transitions, and feeds scripted responses back
// through Read. Read on an empty input buffer returns io.EOF rather than
// blocking, so a misbehaving probe fails a test instead of hanging it.
type VirtualTerminal struct {
	mu         sync.Mutex
	out        bytes.Buffer
	in         bytes.Buffer
	cols       int
	rows       int
	pxW        int
	pxH        int
	rawMode    bool
	enterCount int
	exitCount  int
	enterErr   error
	responder  Responder
	resizeFn   func(cols, rows int)
}

// NewVirtualTerminal returns a VirtualTerminal with the given cell dimensions.
func NewVirtualTerminal(cols, rows int) *VirtualTerminal {
	return &VirtualTerminal{cols: cols, rows: rows}
}

// SetPixelSize configures the value reported by PixelSize.
func (v *VirtualTerminal) SetPixelSize(w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pxW, v.pxH = w, h
}

// SetResponder scripts the terminal's answers: every Write is passed to fn
// and any returned bytes become available to subsequent Reads.
func (v *VirtualTerminal) SetResponder(fn Responder) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.responder = fn
}

// FeedInput makes raw bytes available to Read directly.
func (v *VirtualTerminal) FeedInput(p []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.in.Write(p)
}

// FailEnterRawMode makes the next EnterRawMode calls return err.
func (v *VirtualTerminal) FailEnterRawMode(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enterErr = err
}

// EnterRawMode records a raw-mode entry.
func (v *VirtualTerminal) EnterRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.enterErr != nil {
		return v.enterErr
	}
	v.rawMode = true
	v.enterCount++
	return nil
}

// ExitRawMode records a raw-mode exit.
func (v *VirtualTerminal) ExitRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rawMode = false
	v.exitCount++
	return nil
}

// Read pops bytes from the scripted input buffer. Returns io.EOF when no
// input remains.
func (v *VirtualTerminal) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.in.Len() == 0 {
		return 0, io.EOF
	}
	return v.in.Read(p)
}

// Write appends data to the output buffer and queues any scripted response.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := v.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to virtual buffer: %w", err)
	}
	if v.responder != nil {
		if resp := v.responder(p); len(resp) > 0 {
			v.in.Write(resp)
		}
	}
	return n, nil
}

// Flush is a no-op for the in-memory terminal.
func (v *VirtualTerminal) Flush() error {
	return nil
}

// Size returns the configured terminal dimensions.
func (v *VirtualTerminal) Size() (cols, rows int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cols, v.rows, nil
}

// PixelSize returns the configured pixel dimensions.
func (v *VirtualTerminal) PixelSize() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pxW, v.pxH
}

// OnResize stores the resize callback.
func (v *VirtualTerminal) OnResize(fn func(cols, rows int)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resizeFn = fn
}

// --- Test helpers (not part of Terminal interface) ---

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.out.String()
}

// Resize changes the reported size and fires the resize callback.
func (v *VirtualTerminal) Resize(cols, rows int) {
	v.mu.Lock()
	v.cols, v.rows = cols, rows
	fn := v.resizeFn
	v.mu.Unlock()

	if fn != nil {
		fn(cols, rows)
	}
}

// IsRawMode reports whether raw mode is currently active.
func (v *VirtualTerminal) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rawMode
}

// EnterCount returns how many times EnterRawMode was called.
func (v *VirtualTerminal) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enterCount
}

// ExitCount returns how many times ExitRawMode was called.
func (v *VirtualTerminal) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.exitCount
}
