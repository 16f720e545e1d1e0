package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Local    LocalStoreConfig
	Reminder ReminderConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=policy_engine"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type LocalStoreConfig struct {
	// SQLitePath is the path of the fallback store database file. When
	// empty, an in-memory store is used instead.
	SQLitePath string `env:"SQLITE_PATH"`
}

type ReminderConfig struct {
	// ScanHour is the UTC hour of day (0..23) the daily reminder scan runs.
	ScanHour int `env:"REMINDER_SCAN_HOUR, default=9"`
	// Workers is the size of the notification dispatch worker pool.
	Workers int `env:"REMINDER_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
