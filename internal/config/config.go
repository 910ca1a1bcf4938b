package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "RECEIVING"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	List    ListConfig    `mapstructure:"list"`
	Log     LogConfig     `mapstructure:"log"`
	Fixture FixtureConfig `mapstructure:"fixture"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// SessionConfig selects where the login is kept: a local file or a redis key.
type SessionConfig struct {
	Store string `mapstructure:"store"`
	Path  string `mapstructure:"path"`
	Key   string `mapstructure:"key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ListConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type FixtureConfig struct {
	Addr      string        `mapstructure:"addr"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// Load reads defaults, then the YAML file at path (or ./receiving.yaml when
// path is empty), then RECEIVING_* variables. A .env file in the working
// directory is loaded first without overriding the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("session.store", "file")
	v.SetDefault("session.path", defaultSessionPath())
	v.SetDefault("session.key", "receiving:session")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("list.page_size", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("fixture.addr", ":8080")
	v.SetDefault("fixture.jwt_secret", "")
	v.SetDefault("fixture.token_ttl", "120h")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("receiving")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".receiving", "session.json")
	}
	return filepath.Join(dir, "receiving", "session.json")
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("invalid config: api.base_url must not be empty")
	}
	switch c.Session.Store {
	case "file":
		if c.Session.Path == "" {
			return fmt.Errorf("invalid config: session.path must not be empty")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("invalid config: redis.addr must not be empty")
		}
	default:
		return fmt.Errorf("invalid config: session.store must be file or redis, got %q", c.Session.Store)
	}
	if c.List.PageSize < 1 {
		return fmt.Errorf("invalid config: list.page_size must be at least 1")
	}
	return nil
}

// ValidateFixture checks the settings of the fixture backend.
func (c *Config) ValidateFixture() error {
	if len(c.Fixture.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: fixture.jwt_secret must be at least 16 characters")
	}
	if c.Fixture.TokenTTL <= 0 {
		return fmt.Errorf("invalid config: fixture.token_ttl must be positive")
	}
	return nil
}
