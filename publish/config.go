package publish

// Config is a read-only snapshot of decoder configuration, captured once at
// construction. It never mutates at runtime, matching
// network.ConnectionConfig's plain-struct-plus-default-constructor shape
// rather than a config-file loader.
type Config struct {
	// MaxMessageExpiryInterval is the ceiling, in seconds, that a decoded
	// PUBLISH's Message-Expiry-Interval is clamped to.
	MaxMessageExpiryInterval uint32

	// ValidatePayloadFormat gates the Payload Validator: when true, a
	// payload declared as UTF-8 text is checked for well-formedness.
	ValidatePayloadFormat bool

	// MaxUserPropertiesLength bounds the total serialized size, in bytes,
	// of a PUBLISH's User Property pairs.
	MaxUserPropertiesLength uint32

	// ReasonStringsEnabled records whether DISCONNECT packets carry a
	// human-readable Reason String property alongside the reason code. The
	// Decoder does not read it; the Disconnector takes the setting through
	// NewDisconnector's reasonStringsEnabled argument.
	ReasonStringsEnabled bool

	// BrokerID is the opaque instance tag stamped into every decoded
	// PUBLISH's HivemqID field.
	BrokerID string
}

// DefaultConfig returns the conservative defaults a broker would boot with.
func DefaultConfig() Config {
	return Config{
		MaxMessageExpiryInterval: 4294967295,
		ValidatePayloadFormat:    true,
		MaxUserPropertiesLength:  128 * 1024,
		ReasonStringsEnabled:     true,
		BrokerID:                 "broker-0",
	}
}
