package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	appparams "biddingplatform/app/params"
	banktypes "biddingplatform/x/bank/types"
)

// ConfigFileName is read from the home directory when present.
const ConfigFileName = "config.toml"

type Config struct {
	Home      string        `mapstructure:"home"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
	ABCI      ABCIConfig    `mapstructure:"abci"`
	DB        DBConfig      `mapstructure:"db"`
	Bidding   BiddingConfig `mapstructure:"bidding"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
}

type ABCIConfig struct {
	// Addr is the ABCI listen address, e.g. tcp://127.0.0.1:26658.
	Addr string `mapstructure:"addr"`
	// Transport is socket or grpc.
	Transport string `mapstructure:"transport"`
}

type DBConfig struct {
	Backend string `mapstructure:"backend"`
	// Dir defaults to <home>/data.
	Dir string `mapstructure:"dir"`
}

type BiddingConfig struct {
	Denom string `mapstructure:"denom"`
}

type MetricsConfig struct {
	// Addr serves /metrics; empty disables the listener.
	Addr string `mapstructure:"addr"`
}

// DefaultHome returns $HOME/.biddingd, falling back to the working directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return appparams.DefaultHomeDir
	}
	return filepath.Join(home, appparams.DefaultHomeDir)
}

// SetDefaults registers every known key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("home", DefaultHome())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "plain")

	v.SetDefault("abci.addr", "tcp://127.0.0.1:26658")
	v.SetDefault("abci.transport", "socket")

	v.SetDefault("db.backend", "goleveldb")
	v.SetDefault("db.dir", "")

	v.SetDefault("bidding.denom", appparams.BaseDenom)

	v.SetDefault("metrics.addr", "127.0.0.1:26660")
}

// Load resolves the configuration from defaults, <home>/config.toml and
// BIDDINGD_* environment variables, in increasing priority. Flags bound to v
// beforehand win over all of them.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(appparams.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(v.GetString("home"), ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.DB.Dir == "" {
		cfg.DB.Dir = filepath.Join(cfg.Home, "data")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("home cannot be empty")
	}
	if c.ABCI.Addr == "" {
		return fmt.Errorf("abci.addr cannot be empty")
	}
	switch c.ABCI.Transport {
	case "socket", "grpc":
	default:
		return fmt.Errorf("abci.transport must be socket or grpc, got %q", c.ABCI.Transport)
	}
	switch c.DB.Backend {
	case "goleveldb", "pebbledb", "memdb":
	default:
		return fmt.Errorf("db.backend must be goleveldb, pebbledb or memdb, got %q", c.DB.Backend)
	}
	if err := banktypes.ValidateDenom(c.Bidding.Denom); err != nil {
		return fmt.Errorf("bidding.denom: %w", err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "plain", "json":
	default:
		return fmt.Errorf("log_format must be plain or json, got %q", c.LogFormat)
	}
	return nil
}
