// ABOUTME: Windows stubs for tty access, pixel size, and resize handling.
// ABOUTME: Windows consoles expose neither /dev/tty nor pixel dimensions; polling is used instead.

//go:build windows

package terminal

import (
	"os"
	"time"
)

// openTTY falls back to CONIN$/stdout semantics via os.Stdin on Windows.
func openTTY() (*os.File, error) {
	return os.Stdin, nil
}

// pixelSize is unavailable on Windows consoles.
func pixelSize(int) (width, height int) {
	return 0, 0
}

// startResizeListener polls for size changes; Windows has no SIGWINCH.
func (t *ProcessTerminal) startResizeListener() {
	go func() {
		lastW, lastH, _ := t.Size()
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			w, h, err := t.Size()
			if err != nil || (w == lastW && h == lastH) {
				continue
			}
			lastW, lastH = w, h

			t.mu.Lock()
			fn := t.resizeFn
			t.mu.Unlock()
			if fn != nil {
				fn(w, h)
			}
		}
	}()
}
