package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/feipenta/penta-web/internal/generator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`

	Port string `mapstructure:"port"`

	APIKey string `mapstructure:"apiKey"` // empty disables the API-KEY check

	Pprof bool `mapstructure:"pprof"`
}

type GeneratorConfig struct {
	Endpoint string `mapstructure:"endpoint"`

	Timeout time.Duration `mapstructure:"timeout"` // 0 waits forever
}

type StubConfig struct {
	Enabled bool `mapstructure:"enabled"`

	LogDir string `mapstructure:"logDir"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`

	Generator GeneratorConfig `mapstructure:"generator"`

	Stub StubConfig `mapstructure:"stub"`
}

// Load reads config.yaml from dir, if any, with PENTA_* environment overrides.
// A .env file in the working directory is applied to the environment first.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PENTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "9000")
	v.SetDefault("server.apiKey", "")
	v.SetDefault("server.pprof", false)
	v.SetDefault("generator.endpoint", generator.DefaultEndpoint)
	v.SetDefault("generator.timeout", time.Duration(0))
	v.SetDefault("stub.enabled", false)
	v.SetDefault("stub.logDir", "logs")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Generator.Timeout < 0 {
		return nil, fmt.Errorf("generator.timeout must not be negative")
	}
	return &cfg, nil
}
