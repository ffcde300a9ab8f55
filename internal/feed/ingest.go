// internal/feed/ingest.go
package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cdracars/OBS-Print-Progress/internal/status"
)

// Client abstracts the two MQTT operations the ingestor needs during
// session bootstrap. The ingestor depends on nothing else.
type Client interface {
	Subscribe(topic string) error
	Publish(topic string, payload []byte) error
}

// Ingestor turns raw report messages into store merges.
// It is transport-agnostic: session callbacks hand it bytes and lifecycle
// events, it hands the store structured updates. Every fault is absorbed
// into the store; nothing here ever terminates the process.
type Ingestor struct {
	store  *status.Store
	topics Topics
	log    *slog.Logger
}

// NewIngestor binds an ingestor to one store and one printer serial.
func NewIngestor(store *status.Store, serial string, log *slog.Logger) (*Ingestor, error) {
	if store == nil {
		return nil, errors.New("feed: store required")
	}
	if serial == "" {
		return nil, errors.New("feed: printer serial required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ingestor{
		store:  store,
		topics: TopicsFor(serial),
		log:    log,
	}, nil
}

// Topics returns the topic pair the ingestor is bound to.
func (i *Ingestor) Topics() Topics {
	return i.topics
}

// HandleConnect runs the session bootstrap: subscribe to the report
// stream, then fire the handshake commands in order. It runs on every
// (re)connect, so a resumed session always re-requests a full dump.
// Failures are recorded and skipped over; the session itself stays up.
func (i *Ingestor) HandleConnect(c Client) {
	i.log.Info("mqtt session up", "report", i.topics.Report)

	if err := c.Subscribe(i.topics.Report); err != nil {
		i.log.Error("report subscribe failed", "topic", i.topics.Report, "err", err)
		i.store.SetError(fmt.Sprintf("subscribe failed: %v", err))
	}

	for _, cmd := range bootstrapSequence {
		if err := c.Publish(i.topics.Request, cmd); err != nil {
			i.log.Error("bootstrap publish failed", "topic", i.topics.Request, "err", err)
			i.store.SetError(fmt.Sprintf("bootstrap publish failed: %v", err))
		}
	}
}

// HandleConnectFailure records a failed connection attempt.
// No bootstrap happens for that attempt.
func (i *Ingestor) HandleConnectFailure(err error) {
	i.log.Error("mqtt connect failed", "err", err)
	i.store.SetError(fmt.Sprintf("mqtt connect failed: %v", err))
}

// HandleConnectionLost records an established session dropping.
// Reconnecting is the transport's job; a later HandleConnect re-bootstraps.
func (i *Ingestor) HandleConnectionLost(err error) {
	i.log.Warn("mqtt connection lost", "err", err)
	i.store.SetError(fmt.Sprintf("mqtt connection lost: %v", err))
}

// HandleMessage decodes one report message and merges it into the store.
//
// The fault taxonomy is deliberate and narrow:
//   - malformed JSON: recorded in the store, message dropped
//   - valid JSON that is not an object: dropped silently (acks, echoes)
//   - object without print or device: merges nothing, still not an error
//
// A "pushing" wrapper, when present, replaces the payload with its nested
// value before any group is looked at.
func (i *Ingestor) HandleMessage(body []byte) {
	payload, err := decodeObject(body)
	if err != nil {
		i.log.Warn("report decode failed", "err", err)
		i.store.SetError(fmt.Sprintf("decode error: %v", err))
		return
	}
	if payload == nil {
		return
	}

	effective := body
	if nested, found := payload["pushing"]; found {
		inner, err := decodeObject(nested)
		if err != nil || inner == nil {
			// "pushing" holds something other than an object. Not telemetry.
			return
		}
		payload = inner
		effective = nested
	}

	keys := topLevelKeys(effective)

	for _, g := range []status.Group{status.GroupPrint, status.GroupDevice} {
		raw, found := payload[string(g)]
		if !found {
			continue
		}
		fields, ok := decodeGroup(raw)
		if !ok {
			// Group key present but not an object; leave that group alone.
			continue
		}
		i.store.Update(g, fields, keys)
		i.log.Debug("report merged", "group", string(g), "fields", len(fields))
	}
}

// decodeObject decodes one JSON object, distinguishing "not an object"
// from "not JSON". A nil map with a nil error means valid JSON of the
// wrong shape (arrays, strings, numbers, bare null).
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// decodeGroup decodes one group value. ok=false means the value is not
// an object and the group must be skipped.
func decodeGroup(raw json.RawMessage) (map[string]any, bool) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// topLevelKeys returns an object's top-level keys in document order.
// encoding/json maps shuffle ordering, so this walks tokens instead.
// The input is always a JSON object by the time this runs.
func topLevelKeys(raw []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return []string{}
	}

	keys := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		key, isString := tok.(string)
		if !isString {
			break
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			break
		}
	}
	return keys
}

// skipValue consumes exactly one JSON value from the decoder, tracking
// nesting so compound values are skipped whole.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, isDelim := tok.(json.Delim)
	if !isDelim || (delim != '{' && delim != '[') {
		return nil
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, isD := tok.(json.Delim); isD {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
