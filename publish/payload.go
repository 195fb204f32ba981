package publish

import "unicode/utf8"

// validatePayload implements the Payload Validator (spec §4.5). Unlike
// validateMqttUtf8 used for topic names and property strings, this checks
// only well-formedness — the MQTT code-point restrictions (control
// characters, surrogates, non-characters) do not apply to payload bytes,
// only the well-formed-UTF-8 requirement does.
func validatePayload(payload []byte, format PayloadFormat, hasFormat bool, validate bool) *DecodeError {
	if !validate || !hasFormat || format != PayloadFormatUtf8 {
		return nil
	}
	if !utf8.Valid(payload) {
		return newPayloadFormatInvalid(ErrPayloadNotUtf8, "payload is not well-formed UTF-8", "rejecting PUBLISH whose payload is declared UTF-8 but is not well-formed")
	}
	return nil
}
