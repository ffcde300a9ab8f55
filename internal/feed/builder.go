// internal/feed/builder.go
package feed

import (
	"log/slog"
	"time"

	cfg "github.com/cdracars/OBS-Print-Progress/internal/config"
	"github.com/cdracars/OBS-Print-Progress/internal/feed/mqtt"
	"github.com/cdracars/OBS-Print-Progress/internal/status"
)

// Build constructs the ingestor and wires the MQTT session to it.
// The returned client owns the connection lifecycle; close disconnects.
// No retries here, no semantics: the ingestor decides what events mean.
func Build(pc cfg.PrinterConfig, store *status.Store, log *slog.Logger) (*mqtt.Client, func() error, error) {
	ing, err := NewIngestor(store, pc.Serial, log)
	if err != nil {
		return nil, nil, err
	}

	var client *mqtt.Client
	client, err = mqtt.New(mqtt.Config{
		Host:       pc.Host,
		Port:       pc.MQTTPort,
		Serial:     pc.Serial,
		AccessCode: pc.AccessCode,
		Keepalive:  time.Duration(pc.KeepaliveS) * time.Second,
		VerifyTLS:  pc.VerifyTLS,
	}, mqtt.Callbacks{
		// The client is assigned before Run can fire any callback.
		OnConnect:        func() { ing.HandleConnect(client) },
		OnConnectFailure: ing.HandleConnectFailure,
		OnConnectionLost: ing.HandleConnectionLost,
		OnMessage:        ing.HandleMessage,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	return client, client.Close, nil
}
