// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	p := cfg.Bridge.Printer

	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("printer: host is required")
	}
	if strings.TrimSpace(p.Serial) == "" {
		return fmt.Errorf("printer: serial is required")
	}
	if strings.TrimSpace(p.AccessCode) == "" {
		return fmt.Errorf("printer: access_code is required")
	}
	if err := validPort("printer: mqtt_port", p.MQTTPort); err != nil {
		return err
	}
	if p.KeepaliveS < 0 {
		return fmt.Errorf("printer: keepalive_s must be >= 0, got %d", p.KeepaliveS)
	}

	if err := validPort("http: port", cfg.Bridge.HTTP.Port); err != nil {
		return err
	}

	return nil
}

// validPort accepts 0 (meaning "use the default") or a real TCP port.
func validPort(field string, port int) error {
	if port == 0 {
		return nil
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be 1-65535, got %d", field, port)
	}
	return nil
}
