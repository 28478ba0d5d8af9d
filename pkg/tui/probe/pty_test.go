// ABOUTME: Round-trip test of the protocol engine over a real pty pair.
// ABOUTME: A goroutine plays the emulator side, answering DA fence posts and one query.

//go:build unix

package probe

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/mauromedda/nbterm-go/pkg/tui/escape"
)

// ptyTerminal adapts the slave side of a pty pair to terminal.Terminal.
type ptyTerminal struct {
	f        *os.File
	oldState *term.State
}

func (p *ptyTerminal) EnterRawMode() error {
	st, err := term.MakeRaw(int(p.f.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	p.oldState = st
	return nil
}

func (p *ptyTerminal) ExitRawMode() error {
	if p.oldState == nil {
		return nil
	}
	err := term.Restore(int(p.f.Fd()), p.oldState)
	p.oldState = nil
	return err
}

func (p *ptyTerminal) Read(b []byte) (int, error)  { return p.f.Read(b) }
func (p *ptyTerminal) Write(b []byte) (int, error) { return p.f.Write(b) }
func (p *ptyTerminal) Flush() error                { return nil }

func (p *ptyTerminal) Size() (cols, rows int, err error) {
	return term.GetSize(int(p.f.Fd()))
}

func (p *ptyTerminal) PixelSize() (width, height int) { return 0, 0 }
func (p *ptyTerminal) OnResize(func(cols, rows int)) {}

// emulate plays a terminal emulator on the master side: every DA query is
// answered, and writes containing wantQuery are answered with response.
func emulate(t *testing.T, master *os.File, wantQuery, response string) {
	t.Helper()
	go func() {
		buf := make([]byte, 256)
		var seen []byte
		for {
			n, err := master.Read(buf)
			if err != nil {
				return
			}
			seen = append(seen, buf[:n]...)
			for bytes.Contains(seen, QueryDevice.Bytes()) {
				seen = bytes.Replace(seen, QueryDevice.Bytes(), nil, 1)
				if _, err := master.Write([]byte(deviceAnswer)); err != nil {
					return
				}
			}
			if wantQuery != "" && bytes.Contains(seen, []byte(wantQuery)) {
				seen = bytes.Replace(seen, []byte(wantQuery), nil, 1)
				if _, err := master.Write([]byte(response)); err != nil {
					return
				}
			}
		}
	}()
}

func TestEngine_Query_OverPty(t *testing.T) {
	if testing.Short() {
		t.Skip("pty test skipped in short mode")
	}

	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer master.Close()
	defer slave.Close()

	emulate(t, master, string(QuerySixel.Bytes()), "\x1b[?1;0;256S")

	eng := &Engine{
		Term:    &ptyTerminal{f: slave},
		Timeout: 5 * time.Second,
	}
	seq, err := eng.Query(QuerySixel)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if seq == nil || seq.Kind != escape.KindCSI || seq.Params != "?1;0;256" {
		t.Fatalf("response = %+v", seq)
	}
}

func TestEngine_Query_OverPty_SilentTerminal(t *testing.T) {
	if testing.Short() {
		t.Skip("pty test skipped in short mode")
	}

	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer master.Close()
	defer slave.Close()

	// Emulator answers DA but ignores the kitty query entirely.
	emulate(t, master, "", "")

	eng := &Engine{
		Term:    &ptyTerminal{f: slave},
		Timeout: 5 * time.Second,
	}
	seq, err := eng.Query(QueryKitty)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if seq != nil {
		t.Errorf("response = %+v, want nil for ignored query", seq)
	}
}
