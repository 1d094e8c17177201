package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v10"
	"golang.org/x/text/currency"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"smartpos"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Currency is the ISO 4217 code every cart is opened in.
	Currency string `env:"CURRENCY" envDefault:"PHP"`

	StoreBackend  string `env:"STORE_BACKEND" envDefault:"memory"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"smartpos"`

	KafkaBrokers   []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaSaleTopic string   `env:"KAFKA_SALE_TOPIC" envDefault:"smartpos.sale.completed"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT %d is out of range", c.HTTPPort)
	}

	if _, err := c.CurrencyUnit(); err != nil {
		return err
	}

	switch c.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for store backend %q", c.StoreBackend)
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for store backend %q", c.StoreBackend)
		}
	default:
		return fmt.Errorf("STORE_BACKEND %q is not one of memory, postgres, mongo", c.StoreBackend)
	}

	return nil
}

func (c Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("CURRENCY[%s] is not valid: %w", c.Currency, err)
	}
	return unit, nil
}

func (c Config) KafkaEnabled() bool {
	return slices.ContainsFunc(c.KafkaBrokers, func(b string) bool { return b != "" })
}
