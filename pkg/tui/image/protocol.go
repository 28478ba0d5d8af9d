// ABOUTME: Terminal image protocol selection from environment hints and probed capabilities.
// ABOUTME: Environment variables give a fast answer; escape-sequence probes settle the rest.

package image

import (
	"os"
	"strings"
)

// Protocol identifies the terminal image rendering protocol.
type Protocol int

const (
	// ProtoNone means no native image support; the half-block fallback is used.
	ProtoNone Protocol = iota
	// ProtoKitty is the kitty graphics protocol (also Ghostty, WezTerm).
	ProtoKitty
	// ProtoITerm2 is the iTerm2 inline images protocol.
	ProtoITerm2
)

// String returns the protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtoKitty:
		return "kitty"
	case ProtoITerm2:
		return "iterm2"
	default:
		return "none"
	}
}

// KittyProber reports probed kitty graphics support; satisfied by
// probe.Capabilities.
type KittyProber interface {
	HasKittyGraphics() bool
}

// DetectEnv inspects environment variables for a conclusive protocol
// answer. ok is false when the environment says nothing either way, in
// which case the caller should fall back to probing.
func DetectEnv() (proto Protocol, ok bool) {
	term := strings.ToLower(os.Getenv("TERM_PROGRAM"))

	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "" || term == "kitty":
		return ProtoKitty, true
	case os.Getenv("GHOSTTY_RESOURCES_DIR") != "" || term == "ghostty":
		return ProtoKitty, true
	case os.Getenv("WEZTERM_PANE") != "" || term == "wezterm":
		return ProtoKitty, true
	case os.Getenv("ITERM_SESSION_ID") != "" || term == "iterm.app":
		return ProtoITerm2, true
	}
	return ProtoNone, false
}

// Choose picks the protocol for this terminal: the environment fast path
// when conclusive, otherwise the probed kitty capability. iTerm2 never
// answers the kitty probe, so it is only ever chosen via the environment.
func Choose(caps KittyProber) Protocol {
	if proto, ok := DetectEnv(); ok {
		return proto
	}
	if caps != nil && caps.HasKittyGraphics() {
		return ProtoKitty
	}
	return ProtoNone
}
