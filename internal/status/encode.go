// internal/status/encode.go
package status

// Document is the wire form of a Snapshot.
// Field names and shapes are protocol-locked: overlay clients parse them.
type Document struct {
	Print           map[string]any `json:"print"`
	Device          map[string]any `json:"device"`
	LastUpdate      *float64       `json:"last_update"`
	LastError       *string        `json:"last_error"`
	LastPayloadKeys []string       `json:"last_payload_keys"`
}

// Encode converts a Snapshot into its wire form.
// Never-set values become JSON null; empty groups stay {} and the key list
// stays []. No IO. No side effects.
func Encode(s Snapshot) Document {
	doc := Document{
		Print:           s.Print,
		Device:          s.Device,
		LastPayloadKeys: s.LastPayloadKeys,
	}

	if doc.Print == nil {
		doc.Print = map[string]any{}
	}
	if doc.Device == nil {
		doc.Device = map[string]any{}
	}
	if doc.LastPayloadKeys == nil {
		doc.LastPayloadKeys = []string{}
	}

	if !s.LastUpdate.IsZero() {
		// Unix seconds with a fractional part, like time.time().
		t := float64(s.LastUpdate.UnixNano()) / 1e9
		doc.LastUpdate = &t
	}
	if s.LastError != "" {
		e := s.LastError
		doc.LastError = &e
	}

	return doc
}
