package publish

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hivelink/broker/network"
)

// Metrics holds the decoder's prometheus instrumentation: one counter per
// DISCONNECT reason code reachable from PUBLISH decoding, a counter for
// successful decodes, and a gauge for the alias limiter's tracked byte
// total, grounded on golang-io-mqtt's Stat type and its
// prometheus.NewCounter/NewGauge plus MustRegister construction style.
type Metrics struct {
	Decoded            prometheus.Counter
	MalformedPacket    prometheus.Counter
	ProtocolError      prometheus.Counter
	TopicAliasInvalid  prometheus.Counter
	QuotaExceeded      prometheus.Counter
	PayloadFormatError prometheus.Counter
	AliasLimiterBytes  prometheus.Gauge
}

// NewMetrics constructs unregistered collectors; call Register to expose
// them on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Decoded:            prometheus.NewCounter(prometheus.CounterOpts{Name: "publish_decoded_total", Help: "Total PUBLISH packets successfully decoded"}),
		MalformedPacket:    prometheus.NewCounter(prometheus.CounterOpts{Name: "publish_disconnect_malformed_packet_total", Help: "PUBLISH decodes that ended in a MALFORMED_PACKET disconnect"}),
		ProtocolError:      prometheus.NewCounter(prometheus.CounterOpts{Name: "publish_disconnect_protocol_error_total", Help: "PUBLISH decodes that ended in a PROTOCOL_ERROR disconnect"}),
		TopicAliasInvalid:  prometheus.NewCounter(prometheus.CounterOpts{Name: "publish_disconnect_topic_alias_invalid_total", Help: "PUBLISH decodes that ended in a TOPIC_ALIAS_INVALID disconnect"}),
		QuotaExceeded:      prometheus.NewCounter(prometheus.CounterOpts{Name: "publish_disconnect_quota_exceeded_total", Help: "PUBLISH decodes that ended in a QUOTA_EXCEEDED disconnect"}),
		PayloadFormatError: prometheus.NewCounter(prometheus.CounterOpts{Name: "publish_disconnect_payload_format_invalid_total", Help: "PUBLISH decodes that ended in a PAYLOAD_FORMAT_INVALID disconnect"}),
		AliasLimiterBytes:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "publish_topic_alias_limiter_bytes", Help: "Bytes currently tracked by the global topic alias limiter"}),
	}
}

// Register registers every collector on the default prometheus registry.
func (m *Metrics) Register() {
	prometheus.MustRegister(m.Decoded)
	prometheus.MustRegister(m.MalformedPacket)
	prometheus.MustRegister(m.ProtocolError)
	prometheus.MustRegister(m.TopicAliasInvalid)
	prometheus.MustRegister(m.QuotaExceeded)
	prometheus.MustRegister(m.PayloadFormatError)
	prometheus.MustRegister(m.AliasLimiterBytes)
}

// observeDisconnect increments the counter matching a DecodeError's reason
// code. Unknown reason codes (none reachable from this decoder) are
// silently ignored rather than panicking.
func (m *Metrics) observeDisconnect(reason network.DisconnectReason) {
	if m == nil {
		return
	}
	switch reason {
	case network.DisconnectMalformedPacket:
		m.MalformedPacket.Inc()
	case network.DisconnectProtocolError:
		m.ProtocolError.Inc()
	case network.DisconnectTopicAliasInvalid:
		m.TopicAliasInvalid.Inc()
	case network.DisconnectQuotaExceeded:
		m.QuotaExceeded.Inc()
	case network.DisconnectPayloadFormatInvalid:
		m.PayloadFormatError.Inc()
	}
}
