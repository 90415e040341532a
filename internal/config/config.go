package config

import (
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds the resolved startup configuration.
type Config struct {
	Port      int    `env:"PORT,default=8080"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	// Storage backend selection. Backend names are resolved against
	// the store registry; "memory" ignores the connection string.
	StorageBackend   string `env:"STORAGE_BACKEND,default=postgres"`
	ConnectionString string `env:"CONNECTION_STRING,default=postgres://localhost:5432/userdir?sslmode=disable"`
	Realm            string `env:"REALM,default=useraccounts"`
}

// Load reads configuration from the environment. If envFile is
// non-empty it is loaded first; a missing default .env is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}
