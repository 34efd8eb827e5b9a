// Package config loads the kzgtool configuration from defaults, an optional
// YAML file, KZG_ environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/log"
)

const (
	EnvPrefix = "KZG"

	DefaultTrustedSetup = "trusted_setup.txt"
	DefaultPrecompute   = 0
	DefaultLogLevel     = log.LevelInfo
	DefaultLogOutput    = "stderr"

	// MinBufferBytes is the size of the cells buffer of one extended blob,
	// the largest buffer a single-blob cell operation needs.
	MinBufferBytes = engine.CellsPerExtBlob * engine.BytesPerCell
)

// Config holds the kzgtool configuration.
type Config struct {
	TrustedSetup   string    `mapstructure:"trusted_setup"`
	Precompute     uint64    `mapstructure:"precompute"`
	MaxBufferBytes int       `mapstructure:"max_buffer_bytes"`
	Log            LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// flag name to configuration key
var flagKeys = map[string]string{
	"trusted-setup":    "trusted_setup",
	"precompute":       "precompute",
	"max-buffer-bytes": "max_buffer_bytes",
	"log-level":        "log.level",
	"log-output":       "log.output",
}

// RegisterFlags adds the configuration flags, plus --config, to fs.
func RegisterFlags(fs *flag.FlagSet) {
	fs.StringP("config", "c", "", "YAML configuration file")
	fs.StringP("trusted-setup", "s", DefaultTrustedSetup, "trusted setup file")
	fs.Uint64P("precompute", "p", DefaultPrecompute, fmt.Sprintf("precompute level (0-%d)", engine.MaxPrecompute))
	fs.Int("max-buffer-bytes", 0, fmt.Sprintf("largest native buffer any call may allocate, at least %d (0 means no limit)", MinBufferBytes))
	fs.StringP("log-level", "l", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringP("log-output", "o", DefaultLogOutput, "log output (stdout, stderr or filepath)")
}

// Load builds the configuration from fs, which must have been populated by
// RegisterFlags and parsed.
func Load(fs *flag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("trusted_setup", DefaultTrustedSetup)
	v.SetDefault("precompute", DefaultPrecompute)
	v.SetDefault("max_buffer_bytes", 0)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.output", DefaultLogOutput)

	if file, err := fs.GetString("config"); err == nil && file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Validate checks the values the engine and the logger would reject later.
func (c *Config) Validate() error {
	if c.TrustedSetup == "" {
		return fmt.Errorf("trusted setup file is required (use --trusted-setup or %s_TRUSTED_SETUP)", EnvPrefix)
	}
	if c.Precompute > engine.MaxPrecompute {
		return fmt.Errorf("precompute %d is out of range, must be at most %d", c.Precompute, engine.MaxPrecompute)
	}
	if c.MaxBufferBytes < 0 {
		return fmt.Errorf("max buffer bytes must not be negative, got %d", c.MaxBufferBytes)
	}
	if c.MaxBufferBytes > 0 && c.MaxBufferBytes < MinBufferBytes {
		return fmt.Errorf("max buffer bytes %d is below %d, cell operations would always fail", c.MaxBufferBytes, MinBufferBytes)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
