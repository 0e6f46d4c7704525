package transport

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/go-i2p/connpool/lib/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.Pool.MaxSize != 10 {
		t.Errorf("Pool.MaxSize = %d, want 10", cfg.Pool.MaxSize)
	}
	if cfg.I2P.SAMAddress != DefaultSAMAddress {
		t.Errorf("I2P.SAMAddress = %q, want %q", cfg.I2P.SAMAddress, DefaultSAMAddress)
	}
	if cfg.I2P.Enabled {
		t.Error("I2P should be disabled by default")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
target = "example.com:9000"
request_timeout = "10s"

[pool]
max_size = 4
idle_timeout = "2m"
create_rate = 1.5

[i2p]
enabled = false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Target != "example.com:9000" {
		t.Errorf("Target = %q", cfg.Target)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.Pool.MaxSize != 4 {
		t.Errorf("Pool.MaxSize = %d, want 4", cfg.Pool.MaxSize)
	}
	if cfg.Pool.IdleTimeout != 2*time.Minute {
		t.Errorf("Pool.IdleTimeout = %v, want 2m", cfg.Pool.IdleTimeout)
	}
	if cfg.Pool.CreateRate != 1.5 {
		t.Errorf("Pool.CreateRate = %v, want 1.5", cfg.Pool.CreateRate)
	}
	// Unset fields keep their defaults.
	if cfg.Pool.DialTimeout != DefaultDialTimeout {
		t.Errorf("Pool.DialTimeout = %v, want default", cfg.Pool.DialTimeout)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if !apperrors.IsConfiguration(err) {
		t.Errorf("err = %v, want a configuration error", err)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, "target = [broken")
	_, err := LoadConfig(path)
	if !apperrors.IsConfiguration(err) {
		t.Errorf("err = %v, want a configuration error", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid tcp", func(c *Config) { c.Target = "host:1" }, false},
		{"missing target", func(c *Config) {}, true},
		{"non-positive max size", func(c *Config) {
			c.Target = "host:1"
			c.Pool.MaxSize = 0
		}, true},
		{"negative create rate", func(c *Config) {
			c.Target = "host:1"
			c.Pool.CreateRate = -1
		}, true},
		{"i2p without tunnel name", func(c *Config) {
			c.Target = "dest.b32.i2p"
			c.I2P.Enabled = true
			c.I2P.TunnelName = ""
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() = %v", err)
			}
			if tc.wantErr && !errors.Is(err, apperrors.ErrConfiguration) {
				t.Errorf("err = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestConfigDialerSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "host:1"
	if _, ok := cfg.dialer().(*TCPDialer); !ok {
		t.Error("expected a TCPDialer for plain TCP config")
	}

	cfg.I2P.Enabled = true
	cfg.I2P.TunnelName = "test"
	if _, ok := cfg.dialer().(*I2PDialer); !ok {
		t.Error("expected an I2PDialer when I2P is enabled")
	}
}
