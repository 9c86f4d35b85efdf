package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/kafka"
	"github.com/Ramsey-B/reed/pkg/redis"
	"github.com/Ramsey-B/reed/pkg/tracing/exporters"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"reed-api"`
	Version                       string   `env:"APP_VERSION" env-default:"dev"`
	Port                          int      `env:"PORT" env-default:"3000"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	MaxBodySize                   string   `env:"HTTP_SERVER_MAX_BODY_SIZE" env-default:"20M"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST"`
	ShutdownTimeoutSeconds        int      `env:"SHUTDOWN_TIMEOUT_SECONDS" env-default:"15"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Database driver
	DatabaseDriver string `env:"DB_DRIVER" env-default:"postgres"`
	// Database host
	DatabaseHost string `env:"DB_HOST" env-default:""`
	// Database port
	DatabasePort string `env:"DB_PORT" env-default:"5432"`
	// Database user
	DatabaseUserName string `env:"DB_USER_NAME" env-default:""`
	// Database user password
	DatabasePassword string `env:"DB_PASSWORD" env-default:""`
	// Database name
	DatabaseName            string        `env:"DB_NAME" env-default:"reed"`
	DatabaseSSLMode         string        `env:"DB_SSL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	// Migration Folder Path
	DatabaseMigrationFolderPath string `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	// 0 migrates to the latest version
	DatabaseMigrationVersion      uint `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int  `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`
	DatabaseMigrateOnStartup      bool `env:"DB_MIGRATE_ON_STARTUP" env-default:"true"`
	// Rows per insert statement when persisting review results
	DatabaseInsertBatchSize int `env:"DB_INSERT_BATCH_SIZE" env-default:"500"`

	// Redis
	RedisEnabled          bool   `env:"REDIS_ENABLED" env-default:"true"`
	RedisHost             string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort             int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword         string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB               int    `env:"REDIS_DB" env-default:"0"`
	ReviewCacheTTLSeconds int    `env:"REVIEW_CACHE_TTL_SECONDS" env-default:"300"`

	// Kafka Producer
	KafkaEnabled     bool   `env:"KAFKA_ENABLED" env-default:"true"`
	KafkaBrokers     string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaReviewTopic string `env:"KAFKA_REVIEW_TOPIC" env-default:"review-events"`

	// Tracing
	OTLPEndpoint string            `env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
	OTLPProtocol string            `env:"OTEL_EXPORTER_OTLP_PROTOCOL" env-default:"grpc"`
	OTLPInsecure bool              `env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"true"`
	OTLPHeaders  map[string]string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	OTLPTimeout  time.Duration     `env:"OTEL_EXPORTER_OTLP_TIMEOUT" env-default:"10s"`
}

// Load reads an optional .env file and then the environment
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseHost == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.DatabaseInsertBatchSize < 1 {
		return fmt.Errorf("DB_INSERT_BATCH_SIZE must be positive, got %d", c.DatabaseInsertBatchSize)
	}
	switch c.OTLPProtocol {
	case "grpc", "http":
	default:
		return fmt.Errorf("OTEL_EXPORTER_OTLP_PROTOCOL must be grpc or http, got %q", c.OTLPProtocol)
	}
	return nil
}

func (c *Config) Database() database.Options {
	return database.Options{
		Driver:          c.DatabaseDriver,
		Host:            c.DatabaseHost,
		Port:            c.DatabasePort,
		User:            c.DatabaseUserName,
		Password:        c.DatabasePassword,
		Name:            c.DatabaseName,
		SSLMode:         c.DatabaseSSLMode,
		MaxOpenConns:    c.DatabaseMaxOpenConns,
		MaxIdleConns:    c.DatabaseMaxIdleConns,
		ConnMaxLifetime: c.DatabaseConnMaxLifetime,
	}
}

func (c *Config) Migration() *database.MigrationConfig {
	return &database.MigrationConfig{
		MigrationFolderPath: c.DatabaseMigrationFolderPath,
		Version:             c.DatabaseMigrationVersion,
		Force:               c.DatabaseMigrationForce,
		AutoRollback:        c.DatabaseMigrationAutoRollback,
	}
}

func (c *Config) Redis() redis.Config {
	return redis.Config{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

func (c *Config) ReviewCacheTTL() time.Duration {
	return time.Duration(c.ReviewCacheTTLSeconds) * time.Second
}

func (c *Config) Kafka() kafka.Config {
	return kafka.ParseConfig(c.KafkaBrokers, c.KafkaReviewTopic)
}

func (c *Config) OTLP() exporters.OTLPConfig {
	return exporters.OTLPConfig{
		Endpoint: c.OTLPEndpoint,
		Protocol: c.OTLPProtocol,
		Insecure: c.OTLPInsecure,
		Headers:  c.OTLPHeaders,
		Timeout:  c.OTLPTimeout,
	}
}
