package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. FORMCLIENT_API_BASEURL.
const EnvPrefix = "FORMCLIENT"

type Config struct {
	API       APIConfig       `mapstructure:"api" validate:"required"`
	UI        UIConfig        `mapstructure:"ui"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	DevServer DevServerConfig `mapstructure:"devserver"`
}

type APIConfig struct {
	BaseURL   string            `mapstructure:"baseURL" validate:"required,url"`
	Timeout   time.Duration     `mapstructure:"timeout" validate:"gte=0"`
	APIKey    string            `mapstructure:"apiKey"`
	Headers   map[string]string `mapstructure:"headers"`
	RateLimit RateLimitConfig   `mapstructure:"rateLimit"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps" validate:"required_if=Enabled true,gte=0"`
	Burst   int     `mapstructure:"burst" validate:"gte=0"`
}

// UIConfig configures the user-facing surfaces. Renderer formats result
// tables for one-shot CLI actions; the web UI always renders HTML.
type UIConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Renderer string `mapstructure:"renderer" validate:"oneof=html text"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type DevServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// Load reads configuration from (in increasing precedence) defaults, the
// config file, a .env file and FORMCLIENT_ environment variables. path may be
// a config file or a directory searched for formclient.{yml,yaml}; empty means
// the working directory.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	switch {
	case strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml"):
		v.SetConfigFile(path)
	default:
		if path == "" {
			path = "."
		}
		v.AddConfigPath(path)
		v.SetConfigName("formclient")
		v.SetConfigType("yml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags of cfg.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.baseURL", "http://localhost:8080")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.apiKey", "")
	v.SetDefault("api.rateLimit.enabled", false)
	v.SetDefault("api.rateLimit.rps", 10)
	v.SetDefault("api.rateLimit.burst", 20)
	v.SetDefault("ui.addr", ":3000")
	v.SetDefault("ui.renderer", "text")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("devserver.addr", ":8080")
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
