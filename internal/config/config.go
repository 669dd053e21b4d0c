package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/green_homes/internal/mykafka"
	"github.com/Skotchmaster/green_homes/internal/service/search"
	"github.com/Skotchmaster/green_homes/internal/storage"
	pkgconfig "github.com/Skotchmaster/green_homes/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	StorageDriver string
	DatabaseURL   string
	RedisAddr     string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	KafkaBrokers []string
	KafkaTopic   string

	SessionSecret []byte
	SessionTTL    time.Duration
	SessionIdle   time.Duration

	CatalogFile string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		ServiceName: pkgconfig.EnvDefault("SERVICE_NAME", "green_homes"),
		ServerPort:  pkgconfig.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    pkgconfig.EnvDefault("LOG_LEVEL", "info"),

		StorageDriver: pkgconfig.EnvDefault("STORAGE_DRIVER", storage.DriverSQLite),
		DatabaseURL:   pkgconfig.EnvDefault("DATABASE_URL", "green_homes.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgconfig.EnvDefault("ES_INDEX", search.DefaultIndex),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   pkgconfig.EnvDefault("KAFKA_TOPIC", mykafka.DefaultCartTopic),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    time.Duration(pkgconfig.EnvIntDefault("SESSION_TTL", 720)) * time.Hour,
		SessionIdle:   pkgconfig.EnvDurationDefault("SESSION_IDLE", 30*time.Minute),

		CatalogFile: os.Getenv("CATALOG_FILE"),
	}

	required := []pkgconfig.Required{{Env: "SESSION_SECRET", Value: string(cfg.SessionSecret)}}
	switch cfg.StorageDriver {
	case storage.DriverSQLite, storage.DriverPostgres, storage.DriverMemory:
	case storage.DriverRedis:
		required = append(required, pkgconfig.Required{Env: "REDIS_ADDR", Value: cfg.RedisAddr})
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if err := pkgconfig.CheckRequired(required...); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func (c *Config) StorageOptions() storage.Options {
	// Saved carts live as long as the session cookie that can reach them.
	return storage.Options{
		Driver:    c.StorageDriver,
		DSN:       c.DatabaseURL,
		RedisAddr: c.RedisAddr,
		RedisTTL:  c.SessionTTL,
	}
}
