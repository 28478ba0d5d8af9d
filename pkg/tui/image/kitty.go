// ABOUTME: Kitty graphics protocol encoder with chunked base64 transmission.
// ABOUTME: Emits APC-based image display sequences sized in terminal cells.

package image

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const kittyChunkSize = 4096 // Max base64 chars per chunk

// EncodeKitty encodes PNG data into kitty graphics protocol escape
// sequences displaying at cols x rows cells. The output uses chunked
// transmission: the first chunk carries the full header, continuation
// chunks carry only the m= (more) flag and payload.
func EncodeKitty(pngData []byte, cols, rows int) string {
	if len(pngData) == 0 {
		return ""
	}

	encoded := base64.StdEncoding.EncodeToString(pngData)

	var b strings.Builder
	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := min(i+kittyChunkSize, len(encoded))
		more := 1
		if end == len(encoded) {
			more = 0
		}
		if i == 0 {
			fmt.Fprintf(&b, "\x1b_Ga=T,f=100,q=2,c=%d,r=%d,m=%d;%s\x1b\\",
				cols, rows, more, encoded[i:end])
		} else {
			fmt.Fprintf(&b, "\x1b_Gm=%d;%s\x1b\\", more, encoded[i:end])
		}
	}
	return b.String()
}
