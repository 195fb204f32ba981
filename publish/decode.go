package publish

import (
	"github.com/hivelink/broker/network"
	"github.com/hivelink/broker/topic"
)

// Decoder is the top-level, state-free PUBLISH decoder (spec §5: "a single
// decoder instance is shared process-wide ... its decode method is
// re-entrant: no instance-level mutable state"). Its fields (config, the
// shared limiter, the disconnector and metrics) are all set at construction
// and read-only thereafter.
type Decoder struct {
	config       Config
	limiter      *topic.AliasLimiter
	disconnector *Disconnector
	metrics      *Metrics
}

// NewDecoder builds a Decoder. limiter and disconnector are shared,
// process-wide collaborators; metrics may be nil to disable instrumentation.
func NewDecoder(cfg Config, limiter *topic.AliasLimiter, disconnector *Disconnector, metrics *Metrics) *Decoder {
	return &Decoder{config: cfg, limiter: limiter, disconnector: disconnector, metrics: metrics}
}

// Decode is the single upstream entry point (spec §6):
// decode(connection, bytes, firstHeaderByte) -> decoded | none.
//
// On success it returns the assembled Message. On any validation failure it
// invokes the Disconnector exactly once with the appropriate reason code
// and returns nil — the caller releases its buffers and closes the channel.
// It never does both, never neither (spec §8, invariant 1).
func (d *Decoder) Decode(conn *network.Connection, data []byte, firstHeaderByte byte) *Message {
	table := conn.TopicAliasMapping()

	msg, decErr := d.decodeCore(data, firstHeaderByte, table)
	if decErr != nil {
		if d.disconnector != nil {
			d.disconnector.Disconnect(conn, decErr)
		}
		return nil
	}

	if d.metrics != nil {
		d.metrics.Decoded.Inc()
	}
	return msg
}

// decodeCore runs the linear state machine of spec §4.6 — FIXED_HDR → TOPIC
// → [PKT_ID?] → PROPS → ALIAS → PAYLOAD → ASSEMBLE — against an in-memory
// byte window, independent of any concrete connection type. Kept separate
// from Decode so the core parsing/validation logic is testable without a
// live network.Connection.
func (d *Decoder) decodeCore(data []byte, firstHeaderByte byte, table *topic.Alias) (*Message, *DecodeError) {
	fh, decErr := interpretFixedHeader(firstHeaderByte)
	if decErr != nil {
		return nil, decErr
	}

	r := NewByteReader(data)

	topicName, err := r.String()
	if err != nil {
		return nil, newMalformed(err, "malformed topic name", "rejecting PUBLISH with malformed topic name")
	}
	if topicName != "" && containsWildcard(topicName) {
		return nil, newMalformed(ErrMalformedUtf8, "topic name must not contain wildcards", "rejecting PUBLISH whose topic name contains a wildcard character")
	}

	var packetID uint16
	if fh.QoS > 0 {
		packetID, err = r.U16()
		if err != nil {
			return nil, newMalformed(err, "missing packet identifier", "rejecting PUBLISH with QoS > 0 and no packet identifier")
		}
		if packetID == 0 {
			return nil, newMalformed(ErrReaderUnderrun, "packet identifier must be non-zero for QoS > 0", "rejecting PUBLISH with packet identifier 0 at QoS > 0")
		}
	}

	props, decErr := parseProperties(r)
	if decErr != nil {
		return nil, decErr
	}

	resolved, decErr := resolveTopicAlias(topicName, props.hasTopicAlias, props.topicAlias, table, d.limiter)
	if decErr != nil {
		return nil, decErr
	}

	payload := r.Rest()

	if decErr := validatePayload(payload, props.payloadFormat, props.hasPayloadFormat, d.config.ValidatePayloadFormat); decErr != nil {
		return nil, decErr
	}

	return assemble(fh, packetID, resolved, props, payload, d.config)
}
