// Package config provides configuration loading for the storefront.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Config represents the complete storefront configuration
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Store    StoreConfig    `yaml:"store"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Port               string        `yaml:"port"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`
}

// StoreConfig selects the durable key-value backend.
type StoreConfig struct {
	// Backend is one of memory, redis, mongo, postgres.
	Backend string `yaml:"backend"`
	// Origin scopes every key, like a browser origin scopes local storage.
	Origin   string         `yaml:"origin"`
	Redis    RedisConfig    `yaml:"redis"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type CheckoutConfig struct {
	Delay time.Duration `yaml:"delay"`
	// Recorded orders are relayed to kafka when brokers are set.
	KafkaBrokers   []string      `yaml:"kafka_brokers"`
	OutboxInterval time.Duration `yaml:"outbox_interval"`
}

type CatalogConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// PricingConfig keeps amounts as decimal strings.
type PricingConfig struct {
	TaxRate               string `yaml:"tax_rate"`
	FreeShippingThreshold string `yaml:"free_shipping_threshold"`
	ShippingFee           string `yaml:"shipping_fee"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:               "8080",
			RequestTimeout:     30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			MaxRequestBodySize: 1 << 20, // 1MB
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Origin:  "localhost",
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "storefront"},
			Postgres: PostgresConfig{
				Host:   "localhost",
				Port:   5432,
				User:   "postgres",
				DBName: "storefront",
			},
		},
		Checkout: CheckoutConfig{
			Delay:          2 * time.Second,
			OutboxInterval: time.Second,
		},
		Catalog: CatalogConfig{
			Path: "data/products.json",
		},
		Pricing: PricingConfig{
			TaxRate:               "0.08",
			FreeShippingThreshold: "50.00",
			ShippingFee:           "5.99",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then .env, then the YAML file at
// path (if any), then environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("HTTP_PORT", &c.HTTP.Port)
	str("STORE_BACKEND", &c.Store.Backend)
	str("STORE_ORIGIN", &c.Store.Origin)
	str("REDIS_ADDR", &c.Store.Redis.Addr)
	str("REDIS_PASSWORD", &c.Store.Redis.Password)
	str("MONGO_URI", &c.Store.Mongo.URI)
	str("MONGO_DB_NAME", &c.Store.Mongo.Database)
	str("POSTGRES_HOST", &c.Store.Postgres.Host)
	str("POSTGRES_USER", &c.Store.Postgres.User)
	str("POSTGRES_PASSWORD", &c.Store.Postgres.Password)
	str("POSTGRES_DB", &c.Store.Postgres.DBName)
	str("CATALOG_PATH", &c.Catalog.Path)
	str("LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup("POSTGRES_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POSTGRES_PORT: %w", err)
		}
		c.Store.Postgres.Port = port
	}
	if v, ok := lookup("CHECKOUT_DELAY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHECKOUT_DELAY: %w", err)
		}
		c.Checkout.Delay = d
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		c.Checkout.KafkaBrokers = nil
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.Checkout.KafkaBrokers = append(c.Checkout.KafkaBrokers, b)
			}
		}
	}
	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.HTTP.Port == "" {
		return fmt.Errorf("http.port is required")
	}
	if c.Store.Origin == "" {
		return fmt.Errorf("store.origin is required")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "" {
			return fmt.Errorf("store.mongo.uri and store.mongo.database are required for the mongo backend")
		}
	case BackendPostgres:
		if c.Store.Postgres.Host == "" || c.Store.Postgres.DBName == "" {
			return fmt.Errorf("store.postgres.host and store.postgres.dbname are required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}

	if len(c.Checkout.KafkaBrokers) > 0 && c.Checkout.OutboxInterval <= 0 {
		return fmt.Errorf("checkout.outbox_interval must be positive when kafka_brokers is set")
	}
	if c.Checkout.Delay < 0 {
		return fmt.Errorf("checkout.delay must not be negative")
	}

	if _, err := c.PricingRules(); err != nil {
		return err
	}
	return nil
}

// PricingRules parses the pricing section.
func (c *Config) PricingRules() (domain.Pricing, error) {
	parse := func(name, v string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("pricing.%s: %w", name, err)
		}
		if d.IsNegative() {
			return decimal.Zero, fmt.Errorf("pricing.%s must not be negative", name)
		}
		return d, nil
	}

	var (
		p   domain.Pricing
		err error
	)
	if p.TaxRate, err = parse("tax_rate", c.Pricing.TaxRate); err != nil {
		return p, err
	}
	if p.FreeShippingThreshold, err = parse("free_shipping_threshold", c.Pricing.FreeShippingThreshold); err != nil {
		return p, err
	}
	if p.ShippingFee, err = parse("shipping_fee", c.Pricing.ShippingFee); err != nil {
		return p, err
	}
	return p, nil
}
