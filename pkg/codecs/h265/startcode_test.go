package h265

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func findStartCodeSlow(buf []byte, start int) int {
	for i := start; i+3 <= len(buf); i++ {
		if buf[i] == 0 && buf[i+1] == 0 && buf[i+2] == 1 {
			return i
		}
	}
	return len(buf)
}

var casesFindStartCode = []struct {
	name  string
	buf   []byte
	start int
	pos   int
}{
	{
		"empty",
		nil,
		0,
		0,
	},
	{
		"no match",
		[]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x11, 0x22, 0x33},
		0,
		9,
	},
	{
		"all zeros",
		bytes.Repeat([]byte{0x00}, 16),
		0,
		16,
	},
	{
		"at the beginning",
		[]byte{0x00, 0x00, 0x01, 0xaa, 0xbb, 0xcc, 0xdd, 0xee},
		0,
		0,
	},
	{
		"in the middle",
		[]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x00, 0x00, 0x01, 0xff, 0x11, 0x22, 0x33},
		0,
		5,
	},
	{
		"at the end",
		[]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x11, 0x00, 0x00, 0x01},
		0,
		7,
	},
	{
		"4-byte start code",
		[]byte{0x00, 0x00, 0x00, 0x01, 0xaa, 0xbb, 0xcc, 0xdd},
		0,
		1,
	},
	{
		"after the search start",
		[]byte{0x00, 0x00, 0x01, 0xaa, 0xbb, 0xcc, 0x00, 0x00, 0x01, 0xdd, 0xee, 0xff},
		1,
		6,
	},
	{
		"shorter than a start code",
		[]byte{0x00, 0x00},
		0,
		2,
	},
	{
		"truncated start code at the end",
		[]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x00, 0x00},
		0,
		8,
	},
}

func TestFindStartCode(t *testing.T) {
	for _, ca := range casesFindStartCode {
		t.Run(ca.name, func(t *testing.T) {
			require.Equal(t, ca.pos, FindStartCode(ca.buf, ca.start))
		})
	}
}

func TestFindStartCodeMatchesByteScan(t *testing.T) {
	// pseudo-random filler with start codes planted at every word alignment
	buf := make([]byte, 256)
	v := uint32(2463534242)
	for i := range buf {
		v ^= v << 13
		v ^= v >> 17
		v ^= v << 5
		buf[i] = byte(v)
	}
	for _, pos := range []int{9, 30, 55, 100, 141, 202, 251} {
		copy(buf[pos:], []byte{0x00, 0x00, 0x01})
	}

	for start := 0; start <= len(buf); start++ {
		require.Equal(t, findStartCodeSlow(buf, start), FindStartCode(buf, start),
			"start=%d", start)
	}
}

func TestFindStartCodeEnumerates(t *testing.T) {
	buf := []byte{
		0x00, 0x00, 0x01, 0xaa,
		0x00, 0x00, 0x00, 0x01, 0xbb, 0xcc,
		0x00, 0x00, 0x01, 0xdd,
	}

	var positions []int
	pos := FindStartCode(buf, 0)
	for pos < len(buf) {
		positions = append(positions, pos)
		pos = FindStartCode(buf, pos+3)
	}

	require.Equal(t, []int{0, 5, 10}, positions)
}

var casesStartCodePrefix = []struct {
	name    string
	buf     []byte
	has     bool
	skipped []byte
}{
	{
		"3-byte",
		[]byte{0x00, 0x00, 0x01, 0xaa, 0xbb},
		true,
		[]byte{0xaa, 0xbb},
	},
	{
		"4-byte",
		[]byte{0x00, 0x00, 0x00, 0x01, 0xaa, 0xbb},
		true,
		[]byte{0xaa, 0xbb},
	},
	{
		"3-byte only",
		[]byte{0x00, 0x00, 0x01},
		true,
		[]byte{},
	},
	{
		"no start code",
		[]byte{0xaa, 0x00, 0x00, 0x01, 0xbb},
		false,
		[]byte{0xaa, 0x00, 0x00, 0x01, 0xbb},
	},
	{
		"too short",
		[]byte{0x00, 0x00},
		false,
		[]byte{0x00, 0x00},
	},
	{
		"empty",
		nil,
		false,
		nil,
	},
}

func TestHasStartCode(t *testing.T) {
	for _, ca := range casesStartCodePrefix {
		t.Run(ca.name, func(t *testing.T) {
			require.Equal(t, ca.has, HasStartCode(ca.buf))
		})
	}
}

func TestSkipStartCode(t *testing.T) {
	for _, ca := range casesStartCodePrefix {
		t.Run(ca.name, func(t *testing.T) {
			require.Equal(t, ca.skipped, SkipStartCode(ca.buf))
		})
	}
}
