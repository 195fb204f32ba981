package publish

import (
	"github.com/hivelink/broker/codec/packet"
)

// fixedHeader is the decoded (QoS, DUP, RETAIN) triple the Fixed-Header
// Interpreter produces from the first header byte (spec §4.2).
type fixedHeader struct {
	QoS    byte
	Dup    bool
	Retain bool
}

// interpretFixedHeader extracts DUP/QoS/RETAIN from the low nibble of
// firstByte, reusing codec/packet's PUBLISH bit layout rather than
// re-deriving it. The helper's QoS-3 rejection is mapped to MALFORMED_PACKET,
// and the DUP-with-QoS-0 rule, which the helper leaves to its caller, is
// applied here as a PROTOCOL_ERROR.
func interpretFixedHeader(firstByte byte) (fixedHeader, *DecodeError) {
	dup, qos, retain, err := packet.InterpretPublishFlags(firstByte)
	if err != nil {
		return fixedHeader{}, newMalformed(ErrInvalidQoS, "invalid QoS level", "rejecting PUBLISH with invalid QoS level 3")
	}
	if qos == packet.QoS0 && dup {
		return fixedHeader{}, newProtocolError(ErrDupWithQoS0, "DUP set with QoS 0", "rejecting PUBLISH with DUP=1 and QoS=0")
	}
	return fixedHeader{QoS: byte(qos), Dup: dup, Retain: retain}, nil
}
