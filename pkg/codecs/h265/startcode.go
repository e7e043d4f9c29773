package h265

import (
	"bytes"
	"encoding/binary"
)

var (
	startCode3 = []byte{0x00, 0x00, 0x01}
	startCode4 = []byte{0x00, 0x00, 0x00, 0x01}
)

// FindStartCode returns the offset of the first 3-byte start code
// (0x00 0x00 0x01) whose first byte lies in [start, len(buf)-3].
// It returns len(buf) when there is none, so callers can uniformly
// test the result against len(buf).
func FindStartCode(buf []byte, start int) int {
	end := len(buf)
	if start < 0 {
		start = 0
	}
	i := start

	// word-wide scan. A word contains a zero byte iff
	// (w - 0x01010101) & ^w & 0x80808080 is nonzero; words without
	// zero bytes cannot hold the head of a start code.
	for i+7 <= end {
		w := binary.LittleEndian.Uint32(buf[i:])
		if (w-0x01010101)&^w&0x80808080 != 0 {
			if buf[i+1] == 0 {
				if buf[i] == 0 && buf[i+2] == 1 {
					return i
				}
				if buf[i+2] == 0 && buf[i+3] == 1 {
					return i + 1
				}
			}
			if buf[i+3] == 0 {
				if buf[i+2] == 0 && buf[i+4] == 1 {
					return i + 2
				}
				if buf[i+4] == 0 && buf[i+5] == 1 {
					return i + 3
				}
			}
		}
		i += 4
	}

	// byte-wide scan of the tail.
	for ; i+3 <= end; i++ {
		if buf[i] == 0 && buf[i+1] == 0 && buf[i+2] == 1 {
			return i
		}
	}

	return end
}

// HasStartCode reports whether buf begins with a 4-byte or 3-byte
// start code.
func HasStartCode(buf []byte) bool {
	if len(buf) >= 4 && bytes.Equal(buf[:4], startCode4) {
		return true
	}
	if len(buf) >= 3 && bytes.Equal(buf[:3], startCode3) {
		return true
	}
	return false
}

// SkipStartCode returns buf advanced past a leading start code.
// The 4-byte form takes precedence over the 3-byte one; buf is
// returned unchanged when no start code is present.
func SkipStartCode(buf []byte) []byte {
	switch {
	case len(buf) >= 4 && bytes.Equal(buf[:4], startCode4):
		return buf[4:]

	case len(buf) >= 3 && bytes.Equal(buf[:3], startCode3):
		return buf[3:]
	}
	return buf
}
