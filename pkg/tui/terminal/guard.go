// ABOUTME: RawModeGuard scopes exclusive raw-mode possession of the terminal.
// ABOUTME: Captures prior state on acquisition; Release restores it exactly once on any path.

package terminal

import "fmt"

// RawModeGuard holds the terminal in raw mode for the duration of one
// probe. Release is idempotent and must be deferred immediately after a
// successful AcquireRaw so the terminal is never left in raw mode on an
// error or panic inside the read loop.
type RawModeGuard struct {
	t        Terminal
	released bool
}

// AcquireRaw switches the terminal to raw mode and returns a guard that
// restores the prior mode.
func AcquireRaw(t Terminal) (*RawModeGuard, error) {
	if err := t.EnterRawMode(); err != nil {
		return nil, fmt.Errorf("acquiring raw mode: %w", err)
	}
	return &RawModeGuard{t: t}, nil
}

// Release restores the prior terminal mode. Calls after the first are
// no-ops, so it is safe to both defer Release and call it early.
func (g *RawModeGuard) Release() error {
	if g == nil || g.released {
		return nil
	}
	g.released = true
	return g.t.ExitRawMode()
}
