package decoder

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fwojciec/relay"
)

// Line prefixes that mark upstream bookkeeping rather than answer text.
var controlPrefixes = []string{"message:", "message[", "event:"}

// Object keys that mark a JSON payload as a status report.
var statusKeys = []string{"status", "previousNodeIds", "chatId", "chatMessageId"}

const dataPrefix = "data:"

// Classify tags one line. The rules apply in order and the first match wins:
//
//  1. blank → ignorable
//  2. control prefix (message:, message[, event:) → ignorable
//  3. the data: prefix is stripped; nothing left → ignorable
//  4. JSON payloads: agent-flow trace, then status object, then bare string,
//     then token field, then text field; any other JSON → ignorable
//  5. non-JSON payloads → plain text, unless they look like protocol noise
//
// Classify never fails; malformed input degrades to FrameIgnorable.
func Classify(line string) relay.Frame {
	line = strings.TrimSpace(line)
	if line == "" {
		return relay.FrameIgnorable{}
	}
	for _, p := range controlPrefixes {
		if strings.HasPrefix(line, p) {
			return relay.FrameIgnorable{}
		}
	}

	payload := line
	if rest, ok := strings.CutPrefix(line, dataPrefix); ok {
		payload = strings.TrimSpace(rest)
	}
	if payload == "" {
		return relay.FrameIgnorable{}
	}

	if !json.Valid([]byte(payload)) {
		return classifyPlainText(payload)
	}
	return classifyJSON([]byte(payload))
}

func classifyJSON(payload []byte) relay.Frame {
	switch payload[0] {
	case '"':
		if s, ok := stringValue(payload); ok {
			return relay.FrameStringToken{Value: s}
		}
		return relay.FrameIgnorable{}
	case '{':
		return classifyObject(object(payload))
	default:
		// Numbers, booleans, null and arrays carry no answer text.
		return relay.FrameIgnorable{}
	}
}

func classifyObject(obj map[string]json.RawMessage) relay.Frame {
	if trace, ok := parseAgentFlow(obj); ok {
		return relay.FrameAgentFlow{Trace: trace}
	}
	for _, k := range statusKeys {
		if carries(obj, k) {
			return relay.FrameSystemStatus{}
		}
	}
	if v, ok := scalarText(obj["token"]); ok {
		return relay.FrameFieldToken{Value: v}
	}
	if v, ok := scalarText(obj["text"]); ok && !carries(obj, "status") {
		return relay.FrameFieldText{Value: v}
	}
	return relay.FrameIgnorable{}
}

// classifyPlainText accepts a non-JSON payload as answer text unless it
// looks like truncated JSON or a known control fragment.
func classifyPlainText(payload string) relay.Frame {
	switch {
	case strings.HasPrefix(payload, "["), strings.HasPrefix(payload, "{"):
		return relay.FrameIgnorable{}
	case payload == "ping":
		return relay.FrameIgnorable{}
	case strings.Contains(payload, "FINISHED"), strings.Contains(payload, "previousNodeIds"):
		return relay.FrameIgnorable{}
	}
	return relay.FramePlainText{Value: payload}
}

// carries reports whether obj has key k with a truthy value: anything but
// null, false, 0 and "".
func carries(obj map[string]json.RawMessage, k string) bool {
	return truthy(obj[k])
}

func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return false
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return f != 0
	}
	return true
}

// scalarText renders a truthy string, number or boolean as answer text.
// Objects and arrays are not text.
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if !truthy(raw) {
		return "", false
	}
	switch raw[0] {
	case '"':
		return stringValue(raw)
	case '{', '[':
		return "", false
	}
	return string(raw), true
}

// object decodes raw as a JSON object. It returns nil for anything else.
func object(raw json.RawMessage) map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// array decodes raw as a JSON array. The second result is false for
// anything else, including null.
func array(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var a []json.RawMessage
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, false
	}
	return a, true
}

// stringValue decodes raw as a non-empty JSON string.
func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, s != ""
}

// kind names a frame variant for logging.
func kind(f relay.Frame) string {
	switch f.(type) {
	case relay.FrameSystemStatus:
		return "status"
	case relay.FrameAgentFlow:
		return "agent_flow"
	case relay.FrameStringToken:
		return "string_token"
	case relay.FrameFieldToken:
		return "field_token"
	case relay.FrameFieldText:
		return "field_text"
	case relay.FramePlainText:
		return "plain_text"
	default:
		return "ignorable"
	}
}
