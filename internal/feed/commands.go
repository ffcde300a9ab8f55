// internal/feed/commands.go
package feed

// Printer-side MQTT protocol constants.
// These values define the protocol and MUST NOT be configurable.

// ---- TOPICS ----

// Topics is the topic pair one printer serial owns.
type Topics struct {
	Report  string // printer -> bridge telemetry stream
	Request string // bridge -> printer command channel
}

// TopicsFor returns the topic pair for a printer serial.
func TopicsFor(serial string) Topics {
	return Topics{
		Report:  "device/" + serial + "/report",
		Request: "device/" + serial + "/request",
	}
}

// ---- BOOTSTRAP COMMANDS ----

// CommandGetVersion asks the printer for firmware and module versions.
var CommandGetVersion = []byte(`{"info": {"sequence_id": "0", "command": "get_version"}}`)

// CommandPushAll asks for one full state dump.
var CommandPushAll = []byte(`{"pushing": {"sequence_id": "0", "command": "pushall"}}`)

// CommandStartPush asks for continuous incremental updates.
var CommandStartPush = []byte(`{"pushing": {"sequence_id": "0", "command": "start"}}`)

// bootstrapSequence is the on-connect handshake, in the exact order the
// printer expects: identify, full dump, then incremental stream.
var bootstrapSequence = [][]byte{
	CommandGetVersion,
	CommandPushAll,
	CommandStartPush,
}
