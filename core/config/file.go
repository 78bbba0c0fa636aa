package config

import (
	"fmt"
	"strconv"
	"time"
)

// Duration accepts Go duration strings ("3s") or bare integers, which are
// read as milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Timeouts tunes the session controller.
type Timeouts struct {
	DNS               Duration `yaml:"dns_timeout" toml:"dns_timeout"`
	Socket            Duration `yaml:"socket_timeout" toml:"socket_timeout"`
	Shutdown          Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	ReconnectionDelay Duration `yaml:"reconnection_delay" toml:"reconnection_delay"`
	DataCountInterval Duration `yaml:"data_count_interval" toml:"data_count_interval"`
}

// Resolver backends.
const (
	ResolverSystem = "system"
	ResolverDNS    = "dns"
	ResolverDoH    = "doh"
)

// ResolverConfig selects how remote hostnames are resolved.
type ResolverConfig struct {
	Backend     string   `yaml:"backend" toml:"backend"`
	Servers     []string `yaml:"servers,omitempty" toml:"servers,omitempty"`
	Network     string   `yaml:"network,omitempty" toml:"network,omitempty"`
	DoHURL      string   `yaml:"doh_url,omitempty" toml:"doh_url,omitempty"`
	BootstrapIP string   `yaml:"bootstrap_ip,omitempty" toml:"bootstrap_ip,omitempty"`
}

// Link upgrade policies.
const (
	UpgradeNone        = "none"
	UpgradeTCPFallback = "tcp_fallback"
)

// LinkConfig tunes link establishment.
type LinkConfig struct {
	Upgrade         string   `yaml:"upgrade" toml:"upgrade"`
	TCPFallbackPort uint16   `yaml:"tcp_fallback_port,omitempty" toml:"tcp_fallback_port,omitempty"`
	SOCKS5Proxy     string   `yaml:"socks5_proxy,omitempty" toml:"socks5_proxy,omitempty"`
	DialRetries     int      `yaml:"dial_retries" toml:"dial_retries"`
	DialRetryDelay  Duration `yaml:"dial_retry_delay" toml:"dial_retry_delay"`
	DialRate        float64  `yaml:"dial_rate" toml:"dial_rate"`
	DialBurst       int      `yaml:"dial_burst" toml:"dial_burst"`
}

// Shared state backends.
const (
	StateMemory = "memory"
	StateBadger = "badger"
)

// SharedStateConfig selects where counters and last errors are published.
type SharedStateConfig struct {
	Backend string `yaml:"backend" toml:"backend"`
	Dir     string `yaml:"dir,omitempty" toml:"dir,omitempty"`
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// FileConfig is the top-level structure of a tunnel config file.
type FileConfig struct {
	ID               string            `yaml:"id" toml:"id"`
	Tunnel           Configuration     `yaml:"tunnel" toml:"tunnel"`
	Resolver         ResolverConfig    `yaml:"resolver" toml:"resolver"`
	Link             LinkConfig        `yaml:"link" toml:"link"`
	Timeouts         Timeouts          `yaml:"timeouts" toml:"timeouts"`
	SharedState      SharedStateConfig `yaml:"shared_state" toml:"shared_state"`
	Log              LogConfig         `yaml:"log" toml:"log"`
	MasksPrivateData *bool             `yaml:"masks_private_data,omitempty" toml:"masks_private_data,omitempty"`
}

// Default returns a FileConfig with every tunable at its default.
func Default() *FileConfig {
	return &FileConfig{
		Resolver: ResolverConfig{Backend: ResolverSystem, Network: "udp"},
		Link: LinkConfig{
			Upgrade:        UpgradeNone,
			DialRetries:    1,
			DialRetryDelay: Duration(200 * time.Millisecond),
			DialRate:       2,
			DialBurst:      2,
		},
		Timeouts: Timeouts{
			DNS:               Duration(3 * time.Second),
			Socket:            Duration(5 * time.Second),
			Shutdown:          Duration(2 * time.Second),
			ReconnectionDelay: Duration(1 * time.Second),
		},
		SharedState: SharedStateConfig{Backend: StateMemory},
		Log:         LogConfig{Level: "info", Format: "console"},
	}
}

// ShouldMaskPrivateData defaults to true.
func (fc *FileConfig) ShouldMaskPrivateData() bool {
	return fc.MasksPrivateData == nil || *fc.MasksPrivateData
}
