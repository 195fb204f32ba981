package publish

// PayloadFormat enumerates the Payload Format Indicator property's two
// legal values (spec §3).
type PayloadFormat byte

const (
	PayloadFormatUnspecified PayloadFormat = 0
	PayloadFormatUtf8        PayloadFormat = 1
)

// userProperty is one ordered (key, value) pair from a User Property
// occurrence. Order and duplicates are preserved verbatim (spec §3).
type userProperty struct {
	Key   string
	Value string
}

// decodedProperties accumulates the Properties Loop's output. A dense
// id-keyed dispatch table, per spec §9's design note, drives which field
// each property identifier populates; the "seen" bookkeeping enforces the
// at-most-once rules without nested conditionals per property.
type decodedProperties struct {
	hasPayloadFormat bool
	payloadFormat    PayloadFormat

	hasMessageExpiry bool
	messageExpiry    uint32

	hasContentType bool
	contentType    string

	hasResponseTopic bool
	responseTopic    string

	hasCorrelationData bool
	correlationData    []byte

	hasTopicAlias bool
	topicAlias    uint16

	userProperties []userProperty
}

const (
	propPayloadFormatIndicator = 0x01
	propMessageExpiryInterval  = 0x02
	propContentType            = 0x03
	propResponseTopic          = 0x08
	propCorrelationData        = 0x09
	propSubscriptionIdentifier = 0x0B
	propTopicAlias             = 0x23
	propUserProperty           = 0x26
)

// parseProperties reads the VBI properties-length prefix, establishes a
// sub-window of exactly that many bytes (spec §4.3), and dispatches each
// property identifier found inside it. The cumulative bytes consumed must
// equal propertiesLength exactly; any residue is MALFORMED_PACKET.
func parseProperties(r *ByteReader) (*decodedProperties, *DecodeError) {
	propLength, err := r.Vbi()
	if err != nil {
		return nil, newMalformed(err, "malformed properties length", "rejecting PUBLISH with malformed properties length VBI")
	}
	if r.Remaining() < int(propLength) {
		return nil, newMalformed(ErrReaderUnderrun, "properties length exceeds remaining bytes", "rejecting PUBLISH whose declared properties length exceeds the packet")
	}

	sub, err := r.Sub(int(propLength))
	if err != nil {
		return nil, newMalformed(err, "properties length exceeds remaining bytes", "rejecting PUBLISH whose declared properties length exceeds the packet")
	}

	props := &decodedProperties{}
	for sub.Remaining() > 0 {
		id, err := sub.U8()
		if err != nil {
			return nil, newMalformed(err, "malformed property identifier", "rejecting PUBLISH with truncated property block")
		}

		if dErr := dispatchProperty(sub, id, props); dErr != nil {
			return nil, dErr
		}
	}

	if sub.Remaining() != 0 {
		return nil, newMalformed(ErrMalformedPropertyLength, "malformed property length", "rejecting PUBLISH whose property handlers did not consume exactly propertiesLength bytes")
	}

	return props, nil
}

func dispatchProperty(sub *ByteReader, id byte, props *decodedProperties) *DecodeError {
	switch id {
	case propPayloadFormatIndicator:
		if props.hasPayloadFormat {
			return newProtocolError(ErrDuplicateProperty, "duplicate Payload Format Indicator", "rejecting PUBLISH with duplicate Payload Format Indicator")
		}
		v, err := sub.U8()
		if err != nil {
			return newMalformed(err, "truncated Payload Format Indicator", "rejecting PUBLISH with truncated Payload Format Indicator")
		}
		if v != 0 && v != 1 {
			return newMalformed(ErrInvalidPayloadFormat, "invalid Payload Format Indicator value", "rejecting PUBLISH with invalid Payload Format Indicator value")
		}
		props.hasPayloadFormat = true
		props.payloadFormat = PayloadFormat(v)

	case propMessageExpiryInterval:
		if props.hasMessageExpiry {
			return newProtocolError(ErrDuplicateProperty, "duplicate Message Expiry Interval", "rejecting PUBLISH with duplicate Message Expiry Interval")
		}
		v, err := sub.U32()
		if err != nil {
			return newMalformed(err, "truncated Message Expiry Interval", "rejecting PUBLISH with truncated Message Expiry Interval")
		}
		props.hasMessageExpiry = true
		props.messageExpiry = v

	case propContentType:
		if props.hasContentType {
			return newProtocolError(ErrDuplicateProperty, "duplicate Content Type", "rejecting PUBLISH with duplicate Content Type")
		}
		v, err := sub.String()
		if err != nil {
			return newMalformed(err, "malformed Content Type", "rejecting PUBLISH with malformed Content Type string")
		}
		props.hasContentType = true
		props.contentType = v

	case propResponseTopic:
		if props.hasResponseTopic {
			return newProtocolError(ErrDuplicateProperty, "duplicate Response Topic", "rejecting PUBLISH with duplicate Response Topic")
		}
		v, err := sub.String()
		if err != nil {
			return newMalformed(err, "malformed Response Topic", "rejecting PUBLISH with malformed Response Topic string")
		}
		if containsWildcard(v) {
			return newMalformed(ErrMalformedUtf8, "Response Topic must not contain wildcards", "rejecting PUBLISH with wildcard Response Topic")
		}
		props.hasResponseTopic = true
		props.responseTopic = v

	case propCorrelationData:
		if props.hasCorrelationData {
			return newProtocolError(ErrDuplicateProperty, "duplicate Correlation Data", "rejecting PUBLISH with duplicate Correlation Data")
		}
		v, err := sub.Binary()
		if err != nil {
			return newMalformed(err, "malformed Correlation Data", "rejecting PUBLISH with malformed Correlation Data")
		}
		props.hasCorrelationData = true
		props.correlationData = append([]byte(nil), v...)

	case propSubscriptionIdentifier:
		return newProtocolError(ErrSubscriptionIdentifier, "Subscription Identifier not allowed in PUBLISH from client", "rejecting PUBLISH carrying a Subscription Identifier")

	case propTopicAlias:
		if props.hasTopicAlias {
			return newProtocolError(ErrDuplicateProperty, "duplicate Topic Alias", "rejecting PUBLISH with duplicate Topic Alias")
		}
		v, err := sub.U16()
		if err != nil {
			return newMalformed(err, "truncated Topic Alias", "rejecting PUBLISH with truncated Topic Alias")
		}
		if v == 0 {
			return newProtocolError(ErrTopicAliasZero, "Topic Alias must not be zero", "rejecting PUBLISH with Topic Alias value 0")
		}
		props.hasTopicAlias = true
		props.topicAlias = v

	case propUserProperty:
		key, err := sub.String()
		if err != nil {
			return newMalformed(err, "malformed User Property key", "rejecting PUBLISH with malformed User Property key")
		}
		val, err := sub.String()
		if err != nil {
			return newMalformed(err, "malformed User Property value", "rejecting PUBLISH with malformed User Property value")
		}
		props.userProperties = append(props.userProperties, userProperty{Key: key, Value: val})

	default:
		return newMalformed(ErrUnknownPropertyID, "invalid property identifier", "rejecting PUBLISH with unrecognized property identifier")
	}

	return nil
}

func containsWildcard(topic string) bool {
	for _, r := range topic {
		if r == '+' || r == '#' {
			return true
		}
	}
	return false
}
