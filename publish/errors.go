package publish

import (
	"errors"

	"github.com/hivelink/broker/network"
)

// Sentinel errors for the internal taxonomy described in spec §7: Malformed,
// Protocol, AliasInvalid, Quota, PayloadFormat. Each is wrapped into a
// DecodeError carrying the DISCONNECT reason code it maps to 1:1.
var (
	ErrReaderUnderrun          = errors.New("byte reader underrun")
	ErrMalformedVbi            = errors.New("malformed variable byte integer")
	ErrMalformedUtf8           = errors.New("malformed UTF-8 string")
	ErrInvalidQoS              = errors.New("invalid QoS level")
	ErrDupWithQoS0             = errors.New("DUP set with QoS 0")
	ErrMalformedPropertyLength = errors.New("malformed property length")
	ErrUnknownPropertyID       = errors.New("unknown property identifier")
	ErrDuplicateProperty       = errors.New("duplicate property")
	ErrInvalidPayloadFormat    = errors.New("invalid payload format indicator value")
	ErrSubscriptionIdentifier  = errors.New("subscription identifier not allowed from client")
	ErrTopicAliasZero          = errors.New("topic alias value is zero")
	ErrTopicAliasTooLarge      = errors.New("topic alias exceeds table size")
	ErrTopicAliasUnmapped      = errors.New("topic alias not bound to a topic")
	ErrAbsentTopicAndAlias     = errors.New("absent topic alias while topic name is zero length")
	ErrAliasLimiterExceeded    = errors.New("global topic alias limiter quota exceeded")
	ErrPayloadNotUtf8          = errors.New("payload declared UTF-8 but is not well-formed")
	ErrUserPropertiesTooLarge  = errors.New("user properties exceed configured size cap")
)

// DecodeError is the sum-type failure half of a decode outcome (spec §9:
// "Disconnector as dependency, not exception"): every rejection carries the
// wire reason code, a human-readable reason string suitable for a
// reason-strings-enabled DISCONNECT, and a log template for the broker
// operator's log line.
type DecodeError struct {
	Err          error
	ReasonCode   network.DisconnectReason
	ReasonString string
	LogTemplate  string
}

func (e *DecodeError) Error() string {
	if e.ReasonString != "" {
		return e.Err.Error() + ": " + e.ReasonString
	}
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newMalformed(err error, reasonString, logTemplate string) *DecodeError {
	return &DecodeError{Err: err, ReasonCode: network.DisconnectMalformedPacket, ReasonString: reasonString, LogTemplate: logTemplate}
}

func newProtocolError(err error, reasonString, logTemplate string) *DecodeError {
	return &DecodeError{Err: err, ReasonCode: network.DisconnectProtocolError, ReasonString: reasonString, LogTemplate: logTemplate}
}

func newAliasInvalid(err error, reasonString, logTemplate string) *DecodeError {
	return &DecodeError{Err: err, ReasonCode: network.DisconnectTopicAliasInvalid, ReasonString: reasonString, LogTemplate: logTemplate}
}

func newQuotaExceeded(err error, reasonString, logTemplate string) *DecodeError {
	return &DecodeError{Err: err, ReasonCode: network.DisconnectQuotaExceeded, ReasonString: reasonString, LogTemplate: logTemplate}
}

func newPayloadFormatInvalid(err error, reasonString, logTemplate string) *DecodeError {
	return &DecodeError{Err: err, ReasonCode: network.DisconnectPayloadFormatInvalid, ReasonString: reasonString, LogTemplate: logTemplate}
}
