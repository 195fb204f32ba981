package publish

import (
	"fmt"
	"unicode/utf8"

	"github.com/hivelink/broker/encoding"
)

// ByteReader is a cursor over a contiguous byte window — the variable
// header plus payload of exactly one PUBLISH packet, as handed to the
// decoder by the framing layer. It never reads past its window and fails
// cleanly on underrun, mirroring the zero-allocation "FromBytes" style of
// encoding/varint.go and encoding/properties.go rather than the
// io.Reader-based style those files also offer: the decoder never deals
// with a stream, only an in-memory window.
type ByteReader struct {
	data []byte
	pos  int
}

// NewByteReader wraps data for sequential decoding.
func NewByteReader(data []byte) *ByteReader {
	return &ByteReader{data: data}
}

// Remaining returns the number of unconsumed bytes in the window.
func (r *ByteReader) Remaining() int {
	return len(r.data) - r.pos
}

// Pos returns the current read offset, used by callers that need to measure
// how many bytes a sub-decode consumed (the Properties Loop's exact-length
// invariant).
func (r *ByteReader) Pos() int {
	return r.pos
}

// U8 reads one byte.
func (r *ByteReader) U8() (byte, error) {
	if r.Remaining() < 1 {
		return 0, ErrReaderUnderrun
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// U16 reads a big-endian 16-bit integer.
func (r *ByteReader) U16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, ErrReaderUnderrun
	}
	v := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
	r.pos += 2
	return v, nil
}

// U32 reads a big-endian 32-bit integer.
func (r *ByteReader) U32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrReaderUnderrun
	}
	v := uint32(r.data[r.pos])<<24 | uint32(r.data[r.pos+1])<<16 |
		uint32(r.data[r.pos+2])<<8 | uint32(r.data[r.pos+3])
	r.pos += 4
	return v, nil
}

// Binary reads a u16-length-prefixed byte sequence.
func (r *ByteReader) Binary() ([]byte, error) {
	n, err := r.U16()
	if err != nil {
		return nil, err
	}
	if r.Remaining() < int(n) {
		return nil, ErrReaderUnderrun
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// String reads a u16-length-prefixed UTF-8 string and rejects anything that
// is not well-formed per MQTT §1.5.4: invalid UTF-8, U+0000, the control
// ranges U+0001-001F and U+007F-009F, and unpaired surrogates.
func (r *ByteReader) String() (string, error) {
	b, err := r.Binary()
	if err != nil {
		return "", err
	}
	if err := validateMqttUtf8(b); err != nil {
		return "", err
	}
	return string(b), nil
}

// Sub carves out the next n bytes as an independent bounded reader and
// advances past them, used to give the Properties Loop a sub-window of
// exactly propertiesLength bytes so a handler cannot read into the payload
// that follows it.
func (r *ByteReader) Sub(n int) (*ByteReader, error) {
	if r.Remaining() < n {
		return nil, ErrReaderUnderrun
	}
	sub := &ByteReader{data: r.data[r.pos : r.pos+n]}
	r.pos += n
	return sub, nil
}

// Rest consumes and returns every remaining byte in the window — used once
// the Properties Loop has finished, to hand the Payload Validator exactly
// the bytes that follow the properties block.
func (r *ByteReader) Rest() []byte {
	b := r.data[r.pos:]
	r.pos = len(r.data)
	return b
}

// Vbi decodes an MQTT Variable-Byte-Integer: up to four base-128 bytes,
// low-to-high, MSB set meaning "another byte follows". Fails with
// ErrMalformedVbi when a 5th byte would be needed or the window ends before
// a terminating byte is found.
func (r *ByteReader) Vbi() (uint32, error) {
	var value uint32
	var multiplier uint32 = 1

	for i := 0; i < 4; i++ {
		b, err := r.U8()
		if err != nil {
			return 0, ErrMalformedVbi
		}
		value += uint32(b&0x7F) * multiplier
		if b&0x80 == 0 {
			return value, nil
		}
		multiplier *= 128
	}
	return 0, ErrMalformedVbi
}

// validateMqttUtf8 enforces the full MQTT §1.5.4 restrictions: used for
// topic names, property strings, and anything else that isn't the PUBLISH
// payload. The payload gets the weaker well-formedness-only check in
// payload.go.
//
// Grounded on encoding.ValidateUTF8String/ValidateUTF8StringStrict
// (encoding/utf8.go), which already operate on raw []byte — the exact shape
// this decoder needs — and already reject invalid UTF-8, U+0000, and
// surrogates. ValidateUTF8StringStrict's own control-character loop exempts
// tab/LF/CR from the U+0001-001F range; spec.md §4.1 rejects that whole
// range unconditionally, so that exemption is dropped here rather than
// reused as-is.
func validateMqttUtf8(b []byte) error {
	if err := encoding.ValidateUTF8String(b); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedUtf8, err)
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if (r >= 0x0001 && r <= 0x001F) || (r >= 0x007F && r <= 0x009F) {
			return fmt.Errorf("%w: %w", ErrMalformedUtf8, encoding.ErrControlCharacter)
		}
		i += size
	}
	return nil
}
