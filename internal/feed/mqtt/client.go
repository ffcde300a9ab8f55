// internal/feed/mqtt/client.go
package mqtt

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Session constants fixed by the printer's LAN mode.
const (
	lanUsername    = "bblp"
	clientIDPrefix = "obs-overlay-"

	connectRetryWait    = 5 * time.Second
	disconnectQuiesceMs = 250
)

// Config is minimal transport config.
type Config struct {
	Host       string
	Port       int
	Serial     string
	AccessCode string
	Keepalive  time.Duration
	VerifyTLS  bool
}

// Callbacks are the session hooks the owner wires in. All optional.
type Callbacks struct {
	OnConnect        func()
	OnConnectFailure func(error)
	OnConnectionLost func(error)
	OnMessage        func(body []byte)
}

// Client wraps one paho session for one printer.
// This adapter is transport only: connect, subscribe, publish, disconnect.
// It interprets nothing.
type Client struct {
	cli paho.Client
	cb  Callbacks
	log *slog.Logger
}

// New builds an unconnected client. Run establishes the session.
func New(cfg Config, cb Callbacks, log *slog.Logger) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("mqtt: host required")
	}
	if cfg.Serial == "" {
		return nil, errors.New("mqtt: serial required")
	}
	if log == nil {
		log = slog.Default()
	}

	c := &Client{cb: cb, log: log}

	opts := paho.NewClientOptions()
	opts.AddBroker("tls://" + net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	opts.SetClientID(clientIDPrefix + cfg.Serial)
	opts.SetUsername(lanUsername)
	opts.SetPassword(cfg.AccessCode)
	opts.SetCleanSession(true)
	opts.SetKeepAlive(cfg.Keepalive)
	opts.SetAutoReconnect(true)
	opts.SetTLSConfig(&tls.Config{
		// Printers ship self-signed certificates; verification is opt-in.
		InsecureSkipVerify: !cfg.VerifyTLS,
		MinVersion:         tls.VersionTLS12,
	})

	opts.SetOnConnectHandler(func(paho.Client) {
		if c.cb.OnConnect != nil {
			c.cb.OnConnect()
		}
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		if c.cb.OnConnectionLost != nil {
			c.cb.OnConnectionLost(err)
		}
	})

	c.cli = paho.NewClient(opts)
	return c, nil
}

// Run connects and holds the session until ctx is cancelled.
// Initial attempts retry on a fixed interval; after the first success,
// reconnects are paho's job and each new session fires OnConnect again.
func (c *Client) Run(ctx context.Context) error {
	for {
		c.log.Debug("mqtt connecting")

		tok := c.cli.Connect()
		tok.Wait()
		err := tok.Error()
		if err == nil {
			break
		}
		if c.cb.OnConnectFailure != nil {
			c.cb.OnConnectFailure(err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(connectRetryWait):
		}
	}

	<-ctx.Done()
	return nil
}

// Close disconnects, giving in-flight messages a short quiesce.
func (c *Client) Close() error {
	c.cli.Disconnect(disconnectQuiesceMs)
	return nil
}

// ---- feed.Client interface ----

// Subscribe attaches the message callback to one topic at QoS 0.
func (c *Client) Subscribe(topic string) error {
	tok := c.cli.Subscribe(topic, 0, func(_ paho.Client, msg paho.Message) {
		if c.cb.OnMessage != nil {
			c.cb.OnMessage(msg.Payload())
		}
	})
	tok.Wait()
	return tok.Error()
}

// Publish sends one payload at QoS 0. Fire and forget.
func (c *Client) Publish(topic string, payload []byte) error {
	tok := c.cli.Publish(topic, 0, false, payload)
	tok.Wait()
	return tok.Error()
}
