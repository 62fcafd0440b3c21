package controller

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/calvinmclean/challengerwifi"
	"gopkg.in/yaml.v3"
)

// Config has everything needed to run the sequencer against a WiFi module on a serial port.
// String fields are kept as strings so they can be bound directly to UI entries
type Config struct {
	SerialPort string `yaml:"serial_port"`
	BaudRate   string `yaml:"baud_rate"`

	// ResetLine and BootLine select the modem control line wired to the module's EN and boot
	// pins: "dtr", "rts", or "none". Both lines are active-low
	ResetLine string `yaml:"reset_line"`
	BootLine  string `yaml:"boot_line"`

	TickIntervalMs int `yaml:"tick_interval_ms"`
	GateDivisor    int `yaml:"gate_divisor"`

	// EchoResponses prints everything the module sends back. Responses are never checked
	EchoResponses bool `yaml:"echo_responses"`

	Network NetworkConfig `yaml:"network"`
}

// NetworkConfig is the YAML form of challengerwifi.Network
type NetworkConfig struct {
	Hostname    string `yaml:"hostname"`
	SSID        string `yaml:"ssid"`
	Password    string `yaml:"password"`
	RemoteIP    string `yaml:"remote_ip"`
	RemotePort  int    `yaml:"remote_port"`
	LocalPort   int    `yaml:"local_port"`
	UDPMode     int    `yaml:"udp_mode"`
	PayloadSize int    `yaml:"payload_size"`
}

const (
	LineDTR  = "dtr"
	LineRTS  = "rts"
	LineNone = "none"
)

// LoadConfig reads a YAML config file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return &cfg, nil
}

// ConfigFromEnv loads CONFIG_FILE if it is set and then overrides fields from the environment
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"SERIAL_PORT", &cfg.SerialPort},
		{"BAUD_RATE", &cfg.BaudRate},
		{"RESET_LINE", &cfg.ResetLine},
		{"BOOT_LINE", &cfg.BootLine},
		{"WIFI_HOSTNAME", &cfg.Network.Hostname},
		{"WIFI_SSID", &cfg.Network.SSID},
		{"WIFI_PASSWORD", &cfg.Network.Password},
		{"UDP_REMOTE_IP", &cfg.Network.RemoteIP},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok {
			*o.dst = v
		}
	}

	if v := os.Getenv("ECHO_RESPONSES"); v != "" {
		echo, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ECHO_RESPONSES: %w", err)
		}
		cfg.EchoResponses = echo
	}

	return cfg, nil
}

// Validate checks the config without changing it. Zero values are allowed where Normalize
// provides a default
func (c *Config) Validate() error {
	if c.SerialPort == "" {
		return errors.New("serial_port is required")
	}

	if c.BaudRate != "" {
		baud, err := strconv.Atoi(c.BaudRate)
		if err != nil || baud <= 0 {
			return fmt.Errorf("invalid baud_rate: %q", c.BaudRate)
		}
	}

	for name, line := range map[string]string{"reset_line": c.ResetLine, "boot_line": c.BootLine} {
		switch line {
		case "", LineDTR, LineRTS, LineNone:
		default:
			return fmt.Errorf("invalid %s: %q", name, line)
		}
	}
	if c.ResetLine != "" && c.ResetLine != LineNone && c.ResetLine == c.BootLine {
		return fmt.Errorf("reset_line and boot_line are both %q", c.ResetLine)
	}

	if c.TickIntervalMs < 0 {
		return fmt.Errorf("invalid tick_interval_ms: %d", c.TickIntervalMs)
	}

	if d := c.GateDivisor; d != 0 && (d < 1 || d > 128 || d&(d-1) != 0) {
		return fmt.Errorf("invalid gate_divisor: %d", d)
	}

	if ip := c.Network.RemoteIP; ip != "" && net.ParseIP(ip) == nil {
		return fmt.Errorf("invalid remote_ip: %q", ip)
	}

	for name, port := range map[string]int{"remote_port": c.Network.RemotePort, "local_port": c.Network.LocalPort} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid %s: %d", name, port)
		}
	}

	return nil
}

// Normalize fills in defaults. It must be called after Validate
func (c *Config) Normalize() {
	if c.BaudRate == "" {
		c.BaudRate = "115200"
	}
	if c.ResetLine == "" {
		c.ResetLine = LineDTR
	}
	if c.BootLine == "" {
		c.BootLine = LineRTS
	}
	if c.TickIntervalMs == 0 {
		c.TickIntervalMs = int(challengerwifi.DefaultTickInterval / time.Millisecond)
	}
	if c.GateDivisor == 0 {
		c.GateDivisor = challengerwifi.DefaultGateDivisor
	}

	def := challengerwifi.DefaultNetwork()
	if c.Network.Hostname == "" {
		c.Network.Hostname = def.Hostname
	}
	if c.Network.RemotePort == 0 {
		c.Network.RemotePort = def.RemotePort
	}
	if c.Network.LocalPort == 0 {
		c.Network.LocalPort = def.LocalPort
	}
	if c.Network.UDPMode == 0 {
		c.Network.UDPMode = def.UDPMode
	}
	if c.Network.PayloadSize == 0 {
		c.Network.PayloadSize = def.PayloadSize
	}
}

// TickInterval is the delay between ticks
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// Baud returns the parsed baud rate
func (c *Config) Baud() int {
	baud, _ := strconv.Atoi(c.BaudRate)
	return baud
}

// NetworkSettings converts the network section for the sequencer
func (c *Config) NetworkSettings() challengerwifi.Network {
	return challengerwifi.Network{
		Hostname:    c.Network.Hostname,
		SSID:        c.Network.SSID,
		Password:    c.Network.Password,
		RemoteIP:    c.Network.RemoteIP,
		RemotePort:  c.Network.RemotePort,
		LocalPort:   c.Network.LocalPort,
		UDPMode:     c.Network.UDPMode,
		PayloadSize: c.Network.PayloadSize,
	}
}
