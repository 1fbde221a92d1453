package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds runtime configuration.
type Config struct {
	AppPort string

	StoreDriver     string
	DatabaseDSN     string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	StoreTimeout    time.Duration
	// StoreFailFast refuses to start when the store is unreachable instead
	// of serving and failing every store call.
	StoreFailFast bool
	SeedProducts  bool

	RabbitMQURL     string
	RabbitMQQueue   string
	RabbitMQConsume bool

	LogLevel  string
	LogPretty bool
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=products port=5432 sslmode=disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "productsdb")
	v.SetDefault("MONGO_COLLECTION", "products")
	v.SetDefault("STORE_TIMEOUT", "10s")
	v.SetDefault("STORE_FAIL_FAST", false)
	v.SetDefault("SEED_PRODUCTS", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")
	v.SetDefault("RABBITMQ_CONSUME", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
}

// Load reads configuration from the environment, falling back to an
// optional config file (config.yaml, config.json, ...) in the working
// directory and then to the defaults.
func Load() (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from v and checks it.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:         v.GetString("APP_PORT"),
		StoreDriver:     strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDatabase:   v.GetString("MONGO_DATABASE"),
		MongoCollection: v.GetString("MONGO_COLLECTION"),
		StoreTimeout:    v.GetDuration("STORE_TIMEOUT"),
		StoreFailFast:   v.GetBool("STORE_FAIL_FAST"),
		SeedProducts:    v.GetBool("SEED_PRODUCTS"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:   v.GetString("RABBITMQ_QUEUE"),
		RabbitMQConsume: v.GetBool("RABBITMQ_CONSUME"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogPretty:       v.GetBool("LOG_PRETTY"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable together.
func (c Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("APP_PORT must not be empty")
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the %s driver", c.StoreDriver)
		}
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" || c.MongoCollection == "" {
			return errors.New("MONGO_URI, MONGO_DATABASE and MONGO_COLLECTION are required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreTimeout < 0 {
		return errors.New("STORE_TIMEOUT must not be negative")
	}
	if c.RabbitMQURL != "" && c.RabbitMQQueue == "" {
		return errors.New("RABBITMQ_QUEUE is required when RABBITMQ_URL is set")
	}
	return nil
}

// EventsEnabled reports whether product events are published.
func (c Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}
