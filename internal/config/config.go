package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
	BackendKafka    = "kafka"
	BackendMemory   = "memory"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Record store configuration.
	StorageBackend string
	StorageKey     string

	SQLitePath string

	DynamoDBTable    string
	DynamoDBRegion   string
	DynamoDBEndpoint string

	KafkaBrokers     []string
	KafkaTopic       string
	KafkaReadTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
// Variables in an optional .env file (path from ENV_FILE) fill in anything not already
// set in the process environment.
func Load() (*Config, error) {
	if err := loadDotEnv(sharedcfg.EnvOrDefault("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	kafkaReadTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("KAFKA_READ_TIMEOUT", "10s"))
	if err != nil || kafkaReadTimeout <= 0 {
		return nil, errors.New("invalid KAFKA_READ_TIMEOUT")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StorageBackend: sharedcfg.EnvOrDefault("STORAGE_BACKEND", BackendSQLite),
		StorageKey:     sharedcfg.EnvOrDefault("STORAGE_KEY", "@sensor_data_history"),

		SQLitePath: sharedcfg.EnvOrDefault("SQLITE_PATH", "landslide.db"),

		DynamoDBTable:    sharedcfg.EnvOrDefault("DYNAMODB_TABLE", "landslide-kv"),
		DynamoDBRegion:   sharedcfg.EnvOrDefault("DYNAMODB_REGION", "us-east-1"),
		DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),

		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:       sharedcfg.EnvOrDefault("KAFKA_TOPIC", "landslide-kv"),
		KafkaReadTimeout: kafkaReadTimeout,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.StorageKey == "" {
		return errors.New("STORAGE_KEY is required")
	}

	switch c.StorageBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required")
		}
	case BackendDynamoDB:
		if c.DynamoDBTable == "" {
			return errors.New("DYNAMODB_TABLE is required")
		}
		if c.DynamoDBRegion == "" {
			return errors.New("DYNAMODB_REGION is required")
		}
	case BackendKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required")
		}
		if c.KafkaTopic == "" {
			return errors.New("KAFKA_TOPIC is required")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
