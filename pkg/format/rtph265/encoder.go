package rtph265

import (
	"crypto/rand"

	"github.com/pion/rtp"
)

const rtpVersion = 2

func randUint32() (uint32, error) {
	var b [4]byte
	_, err := rand.Read(b[:])
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// Encoder is a RTP/H265 encoder.
// Specification: https://datatracker.ietf.org/doc/html/rfc7798
type Encoder struct {
	// payload type of packets.
	PayloadType uint8

	// SSRC of packets (optional).
	// It defaults to a random value.
	SSRC *uint32

	// initial sequence number of packets (optional).
	// It defaults to a random value.
	InitialSequenceNumber *uint16

	// maximum size of packet payloads (optional).
	// It defaults to 1460.
	PayloadMaxSize int

	sequenceNumber uint16
	packetizer     Packetizer
}

// Init initializes the encoder.
func (e *Encoder) Init() error {
	if e.SSRC == nil {
		v, err := randUint32()
		if err != nil {
			return err
		}
		e.SSRC = &v
	}
	if e.InitialSequenceNumber == nil {
		v, err := randUint32()
		if err != nil {
			return err
		}
		v2 := uint16(v)
		e.InitialSequenceNumber = &v2
	}
	if e.PayloadMaxSize == 0 {
		e.PayloadMaxSize = defaultPayloadMaxSize
	}

	e.packetizer = Packetizer{PayloadMaxSize: e.PayloadMaxSize}
	err := e.packetizer.Init()
	if err != nil {
		return err
	}

	e.sequenceNumber = *e.InitialSequenceNumber
	return nil
}

// Encode encodes an Annex-B access unit into RTP/H265 packets.
func (e *Encoder) Encode(pts uint64, annexb []byte) ([]*rtp.Packet, error) {
	var rets []*rtp.Packet

	err := e.packetizer.Packetize(pts, annexb,
		func(marker bool, pts uint64, fuHeader []byte, payload []byte) error {
			// payload is only valid for the duration of the callback
			data := make([]byte, len(fuHeader)+len(payload))
			n := copy(data, fuHeader)
			copy(data[n:], payload)

			rets = append(rets, &rtp.Packet{
				Header: rtp.Header{
					Version:        rtpVersion,
					PayloadType:    e.PayloadType,
					SequenceNumber: e.sequenceNumber,
					Timestamp:      uint32(pts),
					SSRC:           *e.SSRC,
					Marker:         marker,
				},
				Payload: data,
			})

			e.sequenceNumber++
			return nil
		})
	if err != nil {
		return nil, err
	}

	return rets, nil
}
