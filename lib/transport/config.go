package transport

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	apperrors "github.com/go-i2p/connpool/lib/errors"
)

// Config holds all configuration for a pooled transport client.
type Config struct {
	// Target is the remote address: host:port for TCP, or an I2P
	// destination when the I2P transport is enabled.
	Target string `toml:"target"`
	// RequestTimeout bounds a single request/response round trip.
	RequestTimeout time.Duration `toml:"request_timeout"`

	I2P  I2PConfig        `toml:"i2p"`
	Pool PoolClientConfig `toml:"pool"`
}

// I2PConfig contains I2P transport settings.
type I2PConfig struct {
	// Enabled switches dialing from TCP to I2P streaming.
	Enabled bool `toml:"enabled"`
	// SAMAddress is the SAM bridge address (host:port).
	SAMAddress string `toml:"sam_address"`
	// TunnelName is the local tunnel name registered with the SAM bridge.
	TunnelName string `toml:"tunnel_name"`
}

// PoolClientConfig contains the pool settings for the client.
type PoolClientConfig struct {
	// MaxSize is the maximum number of pooled connections.
	MaxSize int `toml:"max_size"`
	// IdleTimeout is how long an idle connection survives before the
	// reaper closes it. 0 keeps idle connections forever.
	IdleTimeout time.Duration `toml:"idle_timeout"`
	// DialTimeout bounds a single dial attempt.
	DialTimeout time.Duration `toml:"dial_timeout"`
	// MaxConnAge rotates connections older than this at acquire time.
	// 0 disables rotation.
	MaxConnAge time.Duration `toml:"max_conn_age"`
	// CreateRate limits connection creations per second. 0 is unlimited.
	CreateRate float64 `toml:"create_rate"`
	// CreateBurst is the creation burst size when CreateRate is set.
	// Defaults to MaxSize.
	CreateBurst int `toml:"create_burst"`
	// BreakerEnabled guards dialing with a circuit breaker.
	BreakerEnabled bool `toml:"breaker_enabled"`
	// HealthCheckInterval enables background probing of the backend when
	// the breaker is enabled, so the breaker tracks backend health even
	// between dials. 0 disables probing.
	HealthCheckInterval time.Duration `toml:"health_check_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
		I2P: I2PConfig{
			SAMAddress: DefaultSAMAddress,
			TunnelName: "connpool-client",
		},
		Pool: PoolClientConfig{
			MaxSize:     10,
			IdleTimeout: 5 * time.Minute,
			DialTimeout: DefaultDialTimeout,
		},
	}
}

// LoadConfig reads a TOML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, apperrors.Wrap(apperrors.CodeConfiguration, "reading config file", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, apperrors.Wrap(apperrors.CodeConfiguration, "parsing config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Target == "" {
		return apperrors.Wrap(apperrors.CodeConfiguration, "target is required", apperrors.ErrConfiguration)
	}
	if c.Pool.MaxSize <= 0 {
		return apperrors.Wrap(apperrors.CodeConfiguration,
			fmt.Sprintf("pool max_size must be positive, got %d", c.Pool.MaxSize),
			apperrors.ErrConfiguration)
	}
	if c.Pool.CreateRate < 0 {
		return apperrors.Wrap(apperrors.CodeConfiguration, "create_rate must not be negative", apperrors.ErrConfiguration)
	}
	if c.I2P.Enabled && c.I2P.TunnelName == "" {
		return apperrors.Wrap(apperrors.CodeConfiguration, "i2p tunnel_name is required", apperrors.ErrConfiguration)
	}
	return nil
}

// dialer builds the Dialer matching the configuration.
func (c *Config) dialer() Dialer {
	if c.I2P.Enabled {
		return &I2PDialer{
			Name:    c.I2P.TunnelName,
			SAMAddr: c.I2P.SAMAddress,
			Dest:    c.Target,
		}
	}
	return &TCPDialer{
		Addr:    c.Target,
		Timeout: c.Pool.DialTimeout,
	}
}
