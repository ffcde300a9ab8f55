// internal/config/validate_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to build a complete valid config quickly
func valid() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Printer: PrinterConfig{
				Host:       "192.168.1.50",
				Serial:     "01S00C123400000",
				AccessCode: "12345678",
			},
		},
	}
}

// ---- Validate ----

func TestValidate_MinimalConfig(t *testing.T) {
	require.NoError(t, Validate(valid()))
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.Bridge.Printer.Host = "" }},
		{"whitespace host", func(c *Config) { c.Bridge.Printer.Host = "   " }},
		{"missing serial", func(c *Config) { c.Bridge.Printer.Serial = "" }},
		{"missing access code", func(c *Config) { c.Bridge.Printer.AccessCode = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestValidate_PortRanges(t *testing.T) {
	cfg := valid()
	cfg.Bridge.Printer.MQTTPort = 70000
	assert.Error(t, Validate(cfg))

	cfg = valid()
	cfg.Bridge.Printer.MQTTPort = -1
	assert.Error(t, Validate(cfg))

	cfg = valid()
	cfg.Bridge.HTTP.Port = 65536
	assert.Error(t, Validate(cfg))

	// Explicit in-range ports pass.
	cfg = valid()
	cfg.Bridge.Printer.MQTTPort = 8883
	cfg.Bridge.HTTP.Port = 9876
	assert.NoError(t, Validate(cfg))
}

func TestValidate_NegativeKeepalive(t *testing.T) {
	cfg := valid()
	cfg.Bridge.Printer.KeepaliveS = -5
	assert.Error(t, Validate(cfg))
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := valid()
	cfg.Bridge.Printer.Host = "  spaced.local  "

	require.NoError(t, Validate(cfg))

	assert.Equal(t, "  spaced.local  ", cfg.Bridge.Printer.Host)
}

// ---- Normalize ----

func TestNormalize_FillsDefaults(t *testing.T) {
	cfg := valid()

	Normalize(cfg)

	assert.Equal(t, DefaultMQTTPort, cfg.Bridge.Printer.MQTTPort)
	assert.Equal(t, DefaultKeepaliveS, cfg.Bridge.Printer.KeepaliveS)
	assert.Equal(t, DefaultHTTPHost, cfg.Bridge.HTTP.Host)
	assert.Equal(t, DefaultHTTPPort, cfg.Bridge.HTTP.Port)
	assert.Equal(t, DefaultAllowOrigin, cfg.Bridge.HTTP.AllowOrigin)
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	cfg := valid()
	cfg.Bridge.Printer.MQTTPort = 18883
	cfg.Bridge.Printer.KeepaliveS = 30
	cfg.Bridge.HTTP.Host = "0.0.0.0"
	cfg.Bridge.HTTP.Port = 8080
	cfg.Bridge.HTTP.AllowOrigin = "https://overlay.local"

	Normalize(cfg)

	assert.Equal(t, 18883, cfg.Bridge.Printer.MQTTPort)
	assert.Equal(t, 30, cfg.Bridge.Printer.KeepaliveS)
	assert.Equal(t, "0.0.0.0", cfg.Bridge.HTTP.Host)
	assert.Equal(t, 8080, cfg.Bridge.HTTP.Port)
	assert.Equal(t, "https://overlay.local", cfg.Bridge.HTTP.AllowOrigin)
}

func TestNormalize_TrimsWhitespace(t *testing.T) {
	cfg := valid()
	cfg.Bridge.Printer.Host = " 192.168.1.50 "
	cfg.Bridge.Printer.Serial = " 01S00C123400000 "
	cfg.Bridge.Printer.AccessCode = " 12345678 "

	Normalize(cfg)

	assert.Equal(t, "192.168.1.50", cfg.Bridge.Printer.Host)
	assert.Equal(t, "01S00C123400000", cfg.Bridge.Printer.Serial)
	assert.Equal(t, "12345678", cfg.Bridge.Printer.AccessCode)
}

func TestNormalize_NilConfigIsSafe(t *testing.T) {
	Normalize(nil)
}
