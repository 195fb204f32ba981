package publish

import (
	"fmt"

	"github.com/hivelink/broker/encoding"
	"github.com/hivelink/broker/network"
	"github.com/hivelink/broker/pkg/logger"
)

// Disconnector is the single sink for protocol-error termination (spec
// §4.6): given a disconnect reason it writes the DISCONNECT packet's real
// wire bytes, fans the event out through the connection pool's
// network.DisconnectManager for any registered hooks, logs one line with
// the client's remote address interpolated, and closes the connection.
//
// network.DisconnectManager itself only fans out to registered handlers —
// it does not touch the wire — so the actual DISCONNECT bytes are built
// here via encoding.DisconnectPacket.Encode, the same method CONNACK/PUBACK
// encoding uses elsewhere in this module.
type Disconnector struct {
	manager              *network.DisconnectManager
	logger               *logger.SlogLogger
	metrics              *Metrics
	reasonStringsEnabled bool
}

// NewDisconnector wires a Disconnector to the broker's shared
// DisconnectManager, logger, and metrics registry.
func NewDisconnector(manager *network.DisconnectManager, log *logger.SlogLogger, metrics *Metrics, reasonStringsEnabled bool) *Disconnector {
	return &Disconnector{manager: manager, logger: log, metrics: metrics, reasonStringsEnabled: reasonStringsEnabled}
}

// Disconnect sends conn a DISCONNECT carrying decErr's reason code and
// (when reason strings are enabled) its reason string, logs the event, and
// terminates the connection. Errors encoding or writing the DISCONNECT
// itself are swallowed after being logged — the connection is closed
// either way, since the client is being rejected regardless.
func (d *Disconnector) Disconnect(conn *network.Connection, decErr *DecodeError) {
	if d.metrics != nil {
		d.metrics.observeDisconnect(decErr.ReasonCode)
	}

	pkt := &encoding.DisconnectPacket{
		ReasonCode: encoding.ReasonCode(decErr.ReasonCode),
	}
	if d.reasonStringsEnabled && decErr.ReasonString != "" {
		_ = pkt.Properties.AddProperty(encoding.PropReasonString, decErr.ReasonString)
	}

	if err := pkt.Encode(conn); err != nil && d.logger != nil {
		d.logger.Warn("failed to write DISCONNECT", "remote_addr", conn.RemoteAddr().String(), "error", err.Error())
	}

	netPkt := &network.DisconnectPacket{
		ReasonCode:   decErr.ReasonCode,
		ReasonString: decErr.ReasonString,
	}
	_ = d.manager.SendDisconnect(conn, netPkt)

	if d.logger != nil {
		d.logger.Info(decErr.LogTemplate, "remote_addr", conn.RemoteAddr().String(), "reason_code", fmt.Sprintf("0x%02X", byte(decErr.ReasonCode)))
	}

	_ = conn.Close()
}
