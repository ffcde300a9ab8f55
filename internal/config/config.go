// internal/config/config.go
package config

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

type BridgeConfig struct {
	Printer PrinterConfig `yaml:"printer"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// ---- PRINTER ----

// PrinterConfig locates and authenticates one printer in LAN mode.
// Zero ports and a zero keepalive mean "use the default".
type PrinterConfig struct {
	Host       string `yaml:"host"`
	Serial     string `yaml:"serial"`
	AccessCode string `yaml:"access_code"`
	MQTTPort   int    `yaml:"mqtt_port"`
	KeepaliveS int    `yaml:"keepalive_s"`
	VerifyTLS  bool   `yaml:"verify_tls"`
}

// ---- HTTP ----

type HTTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	AllowOrigin string `yaml:"allow_origin"`
}
