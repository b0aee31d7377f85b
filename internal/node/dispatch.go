package node

import (
	"encoding/json"
	"strconv"
)

// dispatch routes one inbound message to at most one registered topic.
//
// The payload must decode as JSON; anything else is dropped with a log
// line and no handler runs. Any valid document shape is accepted — an
// array or bare scalar simply has no "command" field. The registry is
// scanned in registration order, each entry's fully qualified path
// compared to the inbound path byte-for-byte, stopping at the first
// exact match — even if later registrations would resolve to the same
// path.
//
// At the matched topic, an object payload carrying "command" plus a
// registered command handler invokes that handler with the command
// string and the full document. Otherwise a registered message handler
// receives the raw topic and the raw pre-decode text. A match with no
// applicable handler drops the message.
func (m *Manager) dispatch(topic string, payload []byte) {
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		m.logger.Debug("dropping malformed payload", "topic", topic, "error", err)
		return
	}
	doc, _ := decoded.(map[string]any)

	for _, t := range m.registry.Topics() {
		if m.topics.Sub(t.Name) != topic {
			continue
		}

		cmdVal, hasCommand := doc["command"]
		switch {
		case hasCommand && t.OnCommand != nil:
			t.OnCommand(commandString(cmdVal), doc)
		case t.OnMessage != nil:
			t.OnMessage(topic, string(payload))
		default:
			m.logger.Debug("no handler for message", "topic", topic)
		}
		return
	}

	m.logger.Debug("message on unregistered topic", "topic", topic)
}

// commandString renders a decoded "command" value as a string. Scalars
// are stringified; arrays and objects have no string form and yield "".
func commandString(v any) string {
	switch cmd := v.(type) {
	case string:
		return cmd
	case float64:
		return strconv.FormatFloat(cmd, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(cmd)
	default:
		return ""
	}
}
