package h265

import (
	"fmt"
)

// AnnexBUnmarshal decodes NALUs from the Annex-B stream format.
// NALUs are delimited by 3- or 4-byte start codes; the 4-byte form
// donates its extra zero to the delimiter, not to the preceding NALU.
func AnnexBUnmarshal(buf []byte) ([][]byte, error) {
	bl := len(buf)

	if !HasStartCode(buf) {
		return nil, fmt.Errorf("initial delimiter not found")
	}

	start := FindStartCode(buf, 0)

	var ret [][]byte

	for start < bl {
		start += 3

		next := FindStartCode(buf, start)

		naluEnd := next
		if next < bl && naluEnd > start && buf[naluEnd-1] == 0 {
			naluEnd--
		}

		l := naluEnd - start
		if l == 0 {
			return nil, fmt.Errorf("invalid NALU")
		}
		if l > MaxNALUSize {
			return nil, fmt.Errorf("NALU size (%d) is too big (maximum is %d)", l, MaxNALUSize)
		}

		if (len(ret) + 1) > MaxNALUsPerAccessUnit {
			return nil, fmt.Errorf("NALU count (%d) exceeds maximum allowed (%d)",
				len(ret)+1, MaxNALUsPerAccessUnit)
		}

		ret = append(ret, buf[start:naluEnd])
		start = next
	}

	return ret, nil
}

func annexBMarshalSize(nalus [][]byte) int {
	n := 0
	for _, nalu := range nalus {
		n += 4 + len(nalu)
	}
	return n
}

// AnnexBMarshal encodes NALUs into the Annex-B stream format.
func AnnexBMarshal(nalus [][]byte) ([]byte, error) {
	buf := make([]byte, annexBMarshalSize(nalus))
	pos := 0

	for _, nalu := range nalus {
		pos += copy(buf[pos:], startCode4)
		pos += copy(buf[pos:], nalu)
	}

	return buf, nil
}
