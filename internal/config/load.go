package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LMS"

// defaults lists every known key. Registering each key with viper is what
// lets environment variables reach Unmarshal.
var defaults = map[string]any{
	"server.port":                         8080,
	"server.log_level":                    "info",
	"server.read_timeout_seconds":         15,
	"server.write_timeout_seconds":        15,
	"server.shutdown_timeout_seconds":     10,
	"database.url":                        "",
	"database.max_open_conns":             10,
	"database.max_idle_conns":             5,
	"database.conn_max_lifetime_minutes":  5,
	"auth.jwt_secret":                     "",
	"auth.bcrypt_cost":                    10,
	"auth.token_lifetime_minutes":         60,
	"auth.refresh_token_lifetime_minutes": 10080,
}

// Options tweak where Load looks for configuration.
type Options struct {
	// ConfigDir is searched for config.yaml. Defaults to the working directory.
	ConfigDir string
	// EnvFile is loaded into the process environment when it exists. Defaults to ".env".
	EnvFile string
}

// Load reads configuration from the default locations.
func Load() (*Config, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions reads configuration from defaults, an optional config.yaml,
// an optional env file and LMS_* environment variables, then validates it.
// Variables already set in the environment win over the env file.
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.ConfigDir == "" {
		opts.ConfigDir = "."
	}
	if opts.EnvFile == "" {
		opts.EnvFile = ".env"
	}

	if _, err := os.Stat(opts.EnvFile); err == nil {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(opts.ConfigDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
