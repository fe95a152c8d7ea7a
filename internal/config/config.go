// Package config loads the nodeid-fpd daemon configuration.
//
// Sources, highest precedence first: changed command-line flags, NODEID_FPD_*
// environment variables, the config file (YAML, JSON or TOML by extension),
// built-in defaults.
//
// Example (YAML):
//
//	listen: 127.0.0.1:7781
//	max_msg_bytes: 1048576
//	trust_file: /etc/nodeid/peers.trust
//	log_level: info
//	compliance: strict
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"xdao.co/nodeid/compliance"
	"xdao.co/nodeid/trust"
)

// EnvPrefix prefixes environment overrides, e.g. NODEID_FPD_LISTEN.
const EnvPrefix = "NODEID_FPD"

const (
	KeyListen      = "listen"
	KeyMaxMsgBytes = "max_msg_bytes"
	KeyTrustFile   = "trust_file"
	KeyLogLevel    = "log_level"
	KeyCompliance  = "compliance"
)

type Config struct {
	Listen      string `mapstructure:"listen"`
	MaxMsgBytes int    `mapstructure:"max_msg_bytes"`
	TrustFile   string `mapstructure:"trust_file"`
	LogLevel    string `mapstructure:"log_level"`
	Compliance  string `mapstructure:"compliance"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:     "127.0.0.1:7781",
		LogLevel:   "info",
		Compliance: compliance.Permissive.String(),
	}
}

// Load reads path (optional) and the environment, applies flags if non-nil,
// and validates the result.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault(KeyListen, def.Listen)
	v.SetDefault(KeyMaxMsgBytes, def.MaxMsgBytes)
	v.SetDefault(KeyTrustFile, def.TrustFile)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyCompliance, def.Compliance)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range []string{KeyListen, KeyMaxMsgBytes, KeyTrustFile, KeyLogLevel, KeyCompliance} {
			f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, err
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("config: listen address is required")
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("config: invalid listen address %q: %w", c.Listen, err)
	}
	if c.MaxMsgBytes < 0 {
		return fmt.Errorf("config: invalid max_msg_bytes %d", c.MaxMsgBytes)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if _, ok := compliance.ParseMode(c.Compliance); !ok {
		return fmt.Errorf("config: invalid compliance %q", c.Compliance)
	}
	return nil
}

// ComplianceMode returns the parsed compliance setting.
func (c Config) ComplianceMode() compliance.ComplianceMode {
	mode, _ := compliance.ParseMode(c.Compliance)
	return mode
}

// LoadPolicy parses TrustFile under the configured compliance mode. It
// returns nil when no trust file is configured.
func (c Config) LoadPolicy() (*trust.Policy, error) {
	if c.TrustFile == "" {
		return nil, nil
	}
	b, err := os.ReadFile(c.TrustFile)
	if err != nil {
		return nil, err
	}
	p, err := trust.ParseWithCompliance(b, c.ComplianceMode())
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", c.TrustFile, err)
	}
	return p, nil
}
