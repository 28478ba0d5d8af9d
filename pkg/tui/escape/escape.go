// ABOUTME: Classifier for terminal control sequences captured from raw input.
// ABOUTME: Recognizes CSI, OSC, APC, and bare Fe sequences and decomposes their fields.

package escape

import "bytes"

// ESC is the escape byte that introduces every recognized sequence.
const ESC byte = 0x1b

// BEL terminates OSC sequences on terminals that prefer it over ST.
const BEL byte = 0x07

// ST is the two-byte String Terminator (ESC \).
var ST = []byte{ESC, '\\'}

// Kind identifies the family of a classified control sequence.
type Kind int

const (
	// KindCSI is a Control Sequence Introducer: ESC [ params intermediates final.
	KindCSI Kind = iota
	// KindOSC is an Operating System Command: ESC ] payload (ST|BEL).
	KindOSC
	// KindAPC is an Application Program Command: ESC _ payload ST.
	KindAPC
	// KindFe is a bare Fe sequence: ESC plus a single byte, no payload.
	KindFe
)

// String returns the family name.
func (k Kind) String() string {
	switch k {
	case KindCSI:
		return "CSI"
	case KindOSC:
		return "OSC"
	case KindAPC:
		return "APC"
	case KindFe:
		return "Fe"
	default:
		return "unknown"
	}
}

// Sequence is one decomposed control sequence.
// Params, Intermediates, and Final are set for CSI; Payload and Terminator
// for OSC and APC; Final alone for Fe.
type Sequence struct {
	Kind          Kind
	Params        string // CSI parameter bytes (digits, :;<=>?)
	Intermediates string // CSI intermediate bytes
	Final         byte   // CSI or Fe final byte
	Payload       string // OSC or APC string, terminator excluded
	Terminator    string // the OSC/APC terminator as captured (ST or BEL)
}

// feFinals is the set of single bytes accepted as bare Fe sequences.
const feFinals = "NOP[\\]X^_"

// Classify scans buf for ESC bytes and decomposes the first recognizable
// sequence. An ESC that starts nothing classifiable (a stray keystroke
// landing in the response window) is skipped and the scan moves to the
// next one. It returns false when no recognizable, fully terminated
// sequence is present; the caller is expected to keep reading. Matching is
// maximal per field and no partial recovery is attempted.
func Classify(buf []byte) (Sequence, bool) {
	for i := bytes.IndexByte(buf, ESC); i >= 0 && i+1 < len(buf); {
		if seq, ok := classifyAt(buf[i+1:]); ok {
			return seq, true
		}
		next := bytes.IndexByte(buf[i+1:], ESC)
		if next < 0 {
			break
		}
		i += 1 + next
	}
	return Sequence{}, false
}

// classifyAt decomposes the sequence whose introducer byte starts rest.
func classifyAt(rest []byte) (Sequence, bool) {
	switch rest[0] {
	case '[':
		return classifyCSI(rest[1:])
	case ']':
		return classifyString(rest[1:], KindOSC)
	case '_':
		return classifyString(rest[1:], KindAPC)
	}
	if bytes.IndexByte([]byte(feFinals), rest[0]) >= 0 {
		return Sequence{Kind: KindFe, Final: rest[0]}, true
	}
	return Sequence{}, false
}

// classifyCSI consumes a maximal run of parameter bytes, then intermediates,
// then requires exactly one final byte.
func classifyCSI(b []byte) (Sequence, bool) {
	j := 0
	for j < len(b) && isCSIParam(b[j]) {
		j++
	}
	params := string(b[:j])

	k := j
	for k < len(b) && isCSIIntermediate(b[k]) {
		k++
	}
	inter := string(b[j:k])

	if k >= len(b) || !isCSIFinal(b[k]) {
		return Sequence{}, false
	}
	return Sequence{
		Kind:          KindCSI,
		Params:        params,
		Intermediates: inter,
		Final:         b[k],
	}, true
}

// classifyString consumes bytes up to the first accepted terminator.
// OSC accepts ST or BEL, APC accepts ST only. An unterminated payload
// does not match.
func classifyString(b []byte, kind Kind) (Sequence, bool) {
	st := bytes.Index(b, ST)
	bel := -1
	if kind == KindOSC {
		bel = bytes.IndexByte(b, BEL)
	}

	end, term := -1, ""
	switch {
	case st >= 0 && (bel < 0 || st < bel):
		end, term = st, string(ST)
	case bel >= 0:
		end, term = bel, string(rune(BEL))
	}
	if end < 0 {
		return Sequence{}, false
	}
	return Sequence{Kind: kind, Payload: string(b[:end]), Terminator: term}, true
}

func isCSIParam(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= ':' && b <= '?')
}

func isCSIIntermediate(b byte) bool {
	// The fixed punctuation range 0x20-0x2F, space excluded because queries
	// never produce it and it would swallow payload text in noisy buffers.
	return b >= '!' && b <= '/'
}

func isCSIFinal(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') ||
		b == '@' || b == '[' || b == ']' || b == '^' || b == '_' || b == '`' || b == '\\'
}
