// ABOUTME: Tests for VirtualTerminal and RawModeGuard behavior.
// ABOUTME: Covers raw-mode tracking, scripted responses, resize, and guard idempotence.

package terminal

import (
	"errors"
	"io"
	"testing"
)

// compile-time checks: both implementations must satisfy Terminal.
var (
	_ Terminal = (*VirtualTerminal)(nil)
	_ Terminal = (*ProcessTerminal)(nil)
)

func TestVirtualTerminal_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cols int
		rows int
	}{
		{name: "standard 80x24", cols: 80, rows: 24},
		{name: "wide 200x50", cols: 200, rows: 50},
		{name: "zero dimensions", cols: 0, rows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vt := NewVirtualTerminal(tt.cols, tt.rows)

			w, h, err := vt.Size()
			if err != nil {
				t.Fatalf("Size() unexpected error: %v", err)
			}
			if w != tt.cols || h != tt.rows {
				t.Errorf("Size() = (%d, %d), want (%d, %d)", w, h, tt.cols, tt.rows)
			}
		})
	}
}

func TestVirtualTerminal_RawModeTransitions(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(80, 24)

	if vt.IsRawMode() {
		t.Fatal("expected raw mode to be off initially")
	}
	for i := range 3 {
		if err := vt.EnterRawMode(); err != nil {
			t.Fatalf("iteration %d: EnterRawMode() error: %v", i, err)
		}
		if !vt.IsRawMode() {
			t.Fatal("expected raw mode on after EnterRawMode")
		}
		if err := vt.ExitRawMode(); err != nil {
			t.Fatalf("iteration %d: ExitRawMode() error: %v", i, err)
		}
	}
	if vt.EnterCount() != 3 || vt.ExitCount() != 3 {
		t.Errorf("counts = (%d, %d), want (3, 3)", vt.EnterCount(), vt.ExitCount())
	}
}

func TestVirtualTerminal_ScriptedResponse(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(80, 24)
	vt.SetResponder(func(written []byte) []byte {
		if string(written) == "\x1b[>0c" {
			return []byte("\x1b[>65;6003;1c")
		}
		return nil
	})

	if _, err := vt.Write([]byte("\x1b[>0c")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	buf := make([]byte, 32)
	n, err := vt.Read(buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got := string(buf[:n]); got != "\x1b[>65;6003;1c" {
		t.Errorf("Read() = %q, want scripted device response", got)
	}

	// Exhausted input reports EOF instead of blocking.
	if _, err := vt.Read(buf); !errors.Is(err, io.EOF) {
		t.Errorf("Read() on empty input = %v, want io.EOF", err)
	}
}

func TestVirtualTerminal_Resize(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(80, 24)

	var gotW, gotH int
	vt.OnResize(func(cols, rows int) { gotW, gotH = cols, rows })
	vt.Resize(120, 40)

	if gotW != 120 || gotH != 40 {
		t.Errorf("resize callback got (%d, %d), want (120, 40)", gotW, gotH)
	}
}

func TestRawModeGuard_ReleaseOnce(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(80, 24)

	g, err := AcquireRaw(vt)
	if err != nil {
		t.Fatalf("AcquireRaw() error: %v", err)
	}
	if !vt.IsRawMode() {
		t.Fatal("expected raw mode after AcquireRaw")
	}

	if err := g.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if err := g.Release(); err != nil {
		t.Fatalf("second Release() error: %v", err)
	}
	if vt.ExitCount() != 1 {
		t.Errorf("ExitCount() = %d, want exactly 1 restore", vt.ExitCount())
	}
}

func TestRawModeGuard_AcquireFailure(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(80, 24)
	vt.FailEnterRawMode(errors.New("inappropriate ioctl for device"))

	if _, err := AcquireRaw(vt); err == nil {
		t.Fatal("AcquireRaw() succeeded, want error")
	}
	if vt.IsRawMode() {
		t.Error("terminal left in raw mode after failed acquire")
	}
}
