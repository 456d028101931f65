// Package config loads server settings from defaults, an optional YAML file,
// environment variables (SALARIES_*) and bound command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDataPath        = "data.path"
	KeyServerAddress   = "server.address"
	KeyShutdownTimeout = "server.shutdown_timeout"
	KeyLogLevel        = "log.level"
	KeyTopJobs         = "dashboard.top_jobs"
	KeyDefaultLimit    = "api.default_limit"
)

const EnvPrefix = "SALARIES"

type Config struct {
	DataPath        string
	Address         string
	ShutdownTimeout time.Duration
	LogLevel        string
	TopJobs         int
	DefaultLimit    int
}

// New returns a viper instance preloaded with defaults and env binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDataPath, "ds_salaries.csv")
	v.SetDefault(KeyServerAddress, ":8080")
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTopJobs, 10)
	v.SetDefault(KeyDefaultLimit, 100)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and decodes the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		DataPath:        v.GetString(KeyDataPath),
		Address:         v.GetString(KeyServerAddress),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		LogLevel:        v.GetString(KeyLogLevel),
		TopJobs:         v.GetInt(KeyTopJobs),
		DefaultLimit:    v.GetInt(KeyDefaultLimit),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("%s must not be empty", KeyDataPath)
	}
	if c.TopJobs <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyTopJobs, c.TopJobs)
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyDefaultLimit, c.DefaultLimit)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s: unknown level %q", KeyLogLevel, c.LogLevel)
	}
	return nil
}
