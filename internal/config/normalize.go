// internal/config/normalize.go
package config

import "strings"

// Defaults filled in by Normalize for values left unset.
const (
	DefaultMQTTPort    = 8883
	DefaultKeepaliveS  = 15
	DefaultHTTPHost    = "127.0.0.1"
	DefaultHTTPPort    = 9876
	DefaultAllowOrigin = "*"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	p := &cfg.Bridge.Printer
	p.Host = strings.TrimSpace(p.Host)
	p.Serial = strings.TrimSpace(p.Serial)
	p.AccessCode = strings.TrimSpace(p.AccessCode)
	if p.MQTTPort == 0 {
		p.MQTTPort = DefaultMQTTPort
	}
	if p.KeepaliveS == 0 {
		p.KeepaliveS = DefaultKeepaliveS
	}

	h := &cfg.Bridge.HTTP
	h.Host = strings.TrimSpace(h.Host)
	if h.Host == "" {
		h.Host = DefaultHTTPHost
	}
	if h.Port == 0 {
		h.Port = DefaultHTTPPort
	}
	if strings.TrimSpace(h.AllowOrigin) == "" {
		h.AllowOrigin = DefaultAllowOrigin
	}
}
