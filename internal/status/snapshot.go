// internal/status/snapshot.go
package status

import "time"

// Group names one of the merged telemetry sections.
type Group string

// Exactly two groups exist on the wire. These values are protocol-locked.
const (
	GroupPrint  Group = "print"
	GroupDevice Group = "device"
)

// Snapshot represents exactly what the HTTP side is allowed to serve.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	// Print and Device hold the merged telemetry per group.
	// Keys accumulate across merges; they are never removed.
	Print  map[string]any
	Device map[string]any

	// LastUpdate is when the most recent merge landed.
	// Zero means no payload has ever been merged.
	LastUpdate time.Time

	// LastError is the most recent feed-side fault, verbatim.
	// Empty means none has ever been recorded. It persists until a
	// newer fault overwrites it.
	LastError string

	// LastPayloadKeys lists the top-level keys of the most recently
	// merged payload, in document order.
	LastPayloadKeys []string
}
