// Package config loads storefront settings from a TOML file, a .env file and
// STOREFRONT_* environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/subosito/gotenv"

	"goflare.io/storefront/slot"
)

const (
	SlotMemory   = "memory"
	SlotBunt     = "bunt"
	SlotRedis    = "redis"
	SlotPostgres = "postgres"
)

// Duration lets TOML values such as "5s" decode into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	API      APIConfig      `toml:"api"`
	Slot     SlotConfig     `toml:"slot"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	NATS     NATSConfig     `toml:"nats"`
	Log      LogConfig      `toml:"log"`
	Workers  int            `toml:"workers"`
}

type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

type SlotConfig struct {
	Driver string `toml:"driver"`
	Key    string `toml:"key"`
	Path   string `toml:"path"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type PostgresConfig struct {
	DSN string `toml:"dsn"`
}

type NATSConfig struct {
	URL string `toml:"url"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default mirrors the storefront's local development setup.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:3333",
			Timeout: Duration{10 * time.Second},
		},
		Slot: SlotConfig{
			Driver: SlotBunt,
			Key:    slot.DefaultKey,
			Path:   "data/cart.db",
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "storefront:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Workers: 4,
	}
}

// Load reads path (missing files are fine), then .env, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Slot.Driver {
	case SlotMemory, SlotBunt, SlotRedis, SlotPostgres:
	default:
		return fmt.Errorf("unknown slot driver %q", c.Slot.Driver)
	}

	if c.Slot.Key == "" {
		return errors.New("slot key must not be empty")
	}
	if c.Slot.Driver == SlotBunt && c.Slot.Path == "" {
		return errors.New("bunt slot requires a path")
	}
	if c.Slot.Driver == SlotPostgres && c.Postgres.DSN == "" {
		return errors.New("postgres slot requires a dsn")
	}
	if c.API.BaseURL == "" {
		return errors.New("api base url must not be empty")
	}

	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.API.BaseURL, "STOREFRONT_API_URL")
	setString(&cfg.Slot.Driver, "STOREFRONT_SLOT_DRIVER")
	setString(&cfg.Slot.Key, "STOREFRONT_SLOT_KEY")
	setString(&cfg.Slot.Path, "STOREFRONT_SLOT_PATH")
	setString(&cfg.Redis.Addr, "STOREFRONT_REDIS_ADDR")
	setString(&cfg.Redis.Password, "STOREFRONT_REDIS_PASSWORD")
	setString(&cfg.Redis.Prefix, "STOREFRONT_REDIS_PREFIX")
	setString(&cfg.Postgres.DSN, "STOREFRONT_POSTGRES_DSN")
	setString(&cfg.NATS.URL, "STOREFRONT_NATS_URL")
	setString(&cfg.Log.Level, "STOREFRONT_LOG_LEVEL")

	if v := os.Getenv("STOREFRONT_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STOREFRONT_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = Duration{d}
	}

	for key, dst := range map[string]*int{
		"STOREFRONT_REDIS_DB": &cfg.Redis.DB,
		"STOREFRONT_WORKERS":  &cfg.Workers,
	} {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("STOREFRONT_LOG_DEVELOPMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STOREFRONT_LOG_DEVELOPMENT: %w", err)
		}
		cfg.Log.Development = b
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
