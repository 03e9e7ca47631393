package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "JWTCLAIMS"

type Config struct {
	Server struct {
		Addr            string        `mapstructure:"addr"`
		Mode            string        `mapstructure:"mode"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Claims struct {
		// Header is the request header carrying the credential.
		Header string `mapstructure:"header"`
		// BareToken is set when Header carries the token without the Bearer scheme.
		BareToken     bool     `mapstructure:"bare_token"`
		ExcludedPaths []string `mapstructure:"excluded_paths"`
	} `mapstructure:"claims"`

	Observability struct {
		MetricsEnabled bool   `mapstructure:"metrics_enabled"`
		TraceEnabled   bool   `mapstructure:"trace_enabled"`
		LogLevel       string `mapstructure:"log_level"`
		LogFormat      string `mapstructure:"log_format"`
	} `mapstructure:"observability"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("claims.header", "Authorization")
	v.SetDefault("claims.bare_token", false)
	v.SetDefault("claims.excluded_paths", []string{"/healthz", "/metrics"})

	v.SetDefault("observability.metrics_enabled", true)
	v.SetDefault("observability.trace_enabled", false)
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
}

// Load reads config.yaml from the given directories (./config and . when none
// are given) and overlays JWTCLAIMS_* environment variables, for example
// JWTCLAIMS_SERVER_ADDR. A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Claims.Header == "" {
		return errors.New("claims.header is required")
	}
	switch c.Observability.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("observability.log_format must be json or text, got %q", c.Observability.LogFormat)
	}
	return nil
}
