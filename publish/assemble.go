package publish

// Message is the immutable decoded PUBLISH value (spec §3's Mqtt5Publish),
// folded together by the Assembler from every component's output. Field
// names and semantics track spec.md §3 one-for-one.
type Message struct {
	Topic            string
	QoS              byte
	Retain           bool
	Dup              bool
	PacketIdentifier uint16
	Payload          []byte

	PayloadFormatIndicator PayloadFormat
	HasPayloadFormat       bool
	ContentType            string
	HasContentType         bool
	ResponseTopic          string
	HasResponseTopic       bool
	CorrelationData        []byte
	HasCorrelationData     bool
	MessageExpiryInterval  uint32
	HasMessageExpiry       bool
	UserProperties         []UserProperty
	IsNewTopicAlias        bool
	HivemqID               string
}

// UserProperty is the exported form of the internal userProperty pair,
// returned to callers as part of a decoded Message.
type UserProperty struct {
	Key   string
	Value string
}

// assemble folds the decoded fixed header, resolved topic, properties, and
// payload into the immutable Message handed to downstream routing. It
// enforces the two assembler-level rules of spec §4.6: clamping
// messageExpiryInterval to the configured ceiling, and rejecting an
// oversized user-properties block.
func assemble(fh fixedHeader, packetID uint16, resolved aliasResolution, props *decodedProperties, payload []byte, cfg Config) (*Message, *DecodeError) {
	if total := serializedUserPropertiesSize(props.userProperties); total > cfg.MaxUserPropertiesLength {
		return nil, newMalformed(ErrUserPropertiesTooLarge, "user properties exceed configured size cap", "rejecting PUBLISH whose user properties exceed the configured size cap")
	}

	msg := &Message{
		Topic:            resolved.Topic,
		QoS:              fh.QoS,
		Retain:           fh.Retain,
		Dup:              fh.Dup,
		PacketIdentifier: packetID,
		Payload:          payload,

		PayloadFormatIndicator: props.payloadFormat,
		HasPayloadFormat:       props.hasPayloadFormat,
		ContentType:            props.contentType,
		HasContentType:         props.hasContentType,
		ResponseTopic:          props.responseTopic,
		HasResponseTopic:       props.hasResponseTopic,
		CorrelationData:        props.correlationData,
		HasCorrelationData:     props.hasCorrelationData,
		IsNewTopicAlias:        resolved.IsNewAlias,
		HivemqID:               cfg.BrokerID,
	}

	if props.hasMessageExpiry {
		expiry := props.messageExpiry
		if expiry > cfg.MaxMessageExpiryInterval {
			expiry = cfg.MaxMessageExpiryInterval
		}
		msg.HasMessageExpiry = true
		msg.MessageExpiryInterval = expiry
	}

	for _, up := range props.userProperties {
		msg.UserProperties = append(msg.UserProperties, UserProperty{Key: up.Key, Value: up.Value})
	}

	return msg, nil
}

func serializedUserPropertiesSize(props []userProperty) uint32 {
	var total uint32
	for _, p := range props {
		// 1 (identifier) + 2+len(key) + 2+len(value), the wire size of one
		// User Property occurrence.
		total += 1 + 2 + uint32(len(p.Key)) + 2 + uint32(len(p.Value))
	}
	return total
}
