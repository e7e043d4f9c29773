package h265

import (
	"fmt"
)

// NALUHeaderSize is the size of a NALU header.
const NALUHeaderSize = 2

// NALUHeader is the 2-byte header that starts every NALU.
//
//	+---------------+---------------+
//	|0|1|2|3|4|5|6|7|0|1|2|3|4|5|6|7|
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|F|   Type    |  LayerId  | TID |
//	+-------------+-----------------+
type NALUHeader struct {
	// forbidden_zero_bit. Expected to be false; decoded as-is.
	Forbidden bool

	// NALU type.
	Type NALUType

	// nuh_layer_id.
	LayerID uint8

	// nuh_temporal_id_plus1. The temporal ID is this value minus one.
	TemporalIDPlus1 uint8
}

// Unmarshal decodes a NALU header.
func (h *NALUHeader) Unmarshal(buf []byte) error {
	if len(buf) < NALUHeaderSize {
		return fmt.Errorf("buffer is too short (%d bytes)", len(buf))
	}

	h.Forbidden = (buf[0] >> 7) != 0
	h.Type = NALUType((buf[0] >> 1) & 0b111111)
	h.LayerID = ((buf[0] & 0b1) << 5) | (buf[1] >> 3)
	h.TemporalIDPlus1 = buf[1] & 0b111

	return nil
}

// Marshal encodes a NALU header.
func (h NALUHeader) Marshal() ([]byte, error) {
	buf := make([]byte, NALUHeaderSize)

	if h.Forbidden {
		buf[0] = 1 << 7
	}
	buf[0] |= (uint8(h.Type) & 0b111111) << 1
	buf[0] |= (h.LayerID >> 5) & 0b1
	buf[1] = (h.LayerID&0b11111)<<3 | (h.TemporalIDPlus1 & 0b111)

	return buf, nil
}
