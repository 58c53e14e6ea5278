// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"strings"
)

// maxStderr caps how much diagnostic output is kept from a failed process.
const maxStderr = 4 << 10

// limitedBuffer keeps the first maxStderr bytes written to it and discards
// the rest while still reporting a full write.
type limitedBuffer struct {
	buf bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := maxStderr - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

// String returns the captured output with surrounding whitespace removed.
func (b *limitedBuffer) String() string {
	return strings.TrimSpace(b.buf.String())
}
