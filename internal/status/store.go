// internal/status/store.go
package status

import (
	"maps"
	"sync"
	"time"
)

// Store is the single rendezvous point between the feed and the HTTP side.
// One writer (the feed callback), many readers (one per request).
// No method does IO and no method blocks beyond the lock.
type Store struct {
	mu sync.RWMutex

	print  map[string]any
	device map[string]any

	lastUpdate      time.Time
	lastError       string
	lastPayloadKeys []string
}

// NewStore returns an empty store. Both groups exist from the start.
func NewStore() *Store {
	return &Store{
		print:           map[string]any{},
		device:          map[string]any{},
		lastPayloadKeys: []string{},
	}
}

// Update overlays fields onto one group and stamps the merge.
// Keys are added or overwritten, never removed. An empty fields map still
// counts as a merge: the timestamp and payload keys advance.
func (s *Store) Update(group Group, fields map[string]any, payloadKeys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maps.Copy(s.groupLocked(group), fields)

	s.lastUpdate = time.Now()

	keys := make([]string, len(payloadKeys))
	copy(keys, payloadKeys)
	s.lastPayloadKeys = keys
}

// SetError records a feed-side fault. It touches nothing else: merged
// telemetry and the merge timestamp survive, so clients keep reading the
// last good state alongside the fault.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastError = msg
}

// Snapshot returns a self-consistent point-in-time copy.
// The group maps and the key slice are clones; mutating them never touches
// the store. Nested values are shared, which is safe because merges replace
// group values wholesale and never mutate a stored value in place.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Print:           maps.Clone(s.print),
		Device:          maps.Clone(s.device),
		LastUpdate:      s.lastUpdate,
		LastError:       s.lastError,
		LastPayloadKeys: append([]string{}, s.lastPayloadKeys...),
	}
}

func (s *Store) groupLocked(g Group) map[string]any {
	switch g {
	case GroupDevice:
		return s.device
	default:
		return s.print
	}
}
