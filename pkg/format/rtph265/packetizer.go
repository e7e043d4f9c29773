// Package rtph265 contains a RTP/H265 payloader.
// Specification: https://datatracker.ietf.org/doc/html/rfc7798
package rtph265

import (
	"errors"
	"fmt"

	"github.com/bitwharf/hevcrtp/pkg/codecs/h265"
)

const (
	fuHeaderSize          = 3
	defaultPayloadMaxSize = 1460 // 1500 (UDP MTU) - 20 (IP header) - 8 (UDP header) - 12 (RTP header)
)

// PacketFunc is called once per outgoing packet, in emission order.
// fuHeader is nil for single-NALU packets and 3 bytes long for fragments.
// payload is a view into the buffer passed to Packetize; it must not be
// retained or mutated after the call returns.
type PacketFunc func(marker bool, pts uint64, fuHeader []byte, payload []byte) error

// Packetizer splits the NALUs of an Annex-B access unit into RTP-sized
// payloads, wrapping NALUs that exceed the payload budget into
// fragmentation units.
type Packetizer struct {
	// maximum size of outgoing payloads (optional).
	// It defaults to 1460.
	PayloadMaxSize int
}

// Init initializes the packetizer.
func (p *Packetizer) Init() error {
	if p.PayloadMaxSize == 0 {
		p.PayloadMaxSize = defaultPayloadMaxSize
	}
	if p.PayloadMaxSize <= fuHeaderSize {
		return fmt.Errorf("PayloadMaxSize (%d) must be greater than %d",
			p.PayloadMaxSize, fuHeaderSize)
	}
	return nil
}

// Packetize walks the access unit in buf and calls emit once per outgoing
// packet. The marker flag is set on the last packet of the last NALU only.
// A buffer without start codes is a no-op.
//
// Delivery is best-effort: a failed emit does not stop the walk, and a
// NALU too short to carry its header is skipped; all such errors are
// accumulated and returned together after every NALU has been attempted.
func (p *Packetizer) Packetize(pts uint64, buf []byte, emit PacketFunc) error {
	var errs []error

	end := len(buf)
	pos := h265.FindStartCode(buf, 0)

	for pos < end {
		// skip the start code and any zero padding after it
		pos += 3
		for pos < end && buf[pos] == 0 {
			pos++
		}

		next := h265.FindStartCode(buf, pos)
		marker := next >= end

		err := p.writeNALU(marker, pts, buf[pos:next], emit)
		if err != nil {
			errs = append(errs, err)
		}

		pos = next
	}

	return errors.Join(errs...)
}

func (p *Packetizer) writeNALU(marker bool, pts uint64, nalu []byte, emit PacketFunc) error {
	if len(nalu) <= p.PayloadMaxSize {
		return emit(marker, pts, nil, nalu)
	}

	return p.writeFragmentationUnits(marker, pts, nalu, emit)
}

func (p *Packetizer) writeFragmentationUnits(marker bool, pts uint64, nalu []byte, emit PacketFunc) error {
	var h h265.NALUHeader
	err := h.Unmarshal(nalu)
	if err != nil {
		return fmt.Errorf("unable to decode the header of a %d-byte NALU: %w", len(nalu), err)
	}

	fuHeader, _ := h265.NALUHeader{
		Type:            h265.NALUType_FragmentationUnit,
		TemporalIDPlus1: h.TemporalIDPlus1,
	}.Marshal()
	fuHeader = append(fuHeader, 1<<7|uint8(h.Type))

	nalu = nalu[h265.NALUHeaderSize:]
	avail := p.PayloadMaxSize - fuHeaderSize

	var errs []error

	for len(nalu) > avail {
		err = emit(false, pts, fuHeader, nalu[:avail])
		if err != nil {
			errs = append(errs, err)
		}

		nalu = nalu[avail:]
		fuHeader[2] &^= 1 << 7 // clear the start bit
	}

	fuHeader[2] |= 1 << 6 // set the end bit

	err = emit(marker, pts, fuHeader, nalu)
	if err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
