package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file over the defaults, then applies .env and
// environment overrides. An empty filePath skips the file.
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if err := decodeFile(filePath, cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}

func decodeFile(filePath string, cfg *Config) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("Warning: failed to close config file: %v", closeErr)
		}
	}()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	if v, ok := lookup("APP_ENV"); ok && v != "" {
		cfg.Environment = v
	}
	if v, ok := lookup("FORUM_BASE_URL"); ok && v != "" {
		cfg.Forum.BaseURL = v
	}
	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		cfg.Storage.DSN = v
	}
	if v, ok := lookup("DATABASE_DRIVER"); ok && v != "" {
		cfg.Storage.Driver = v
	}
	if v, ok := lookup("THREAD_CACHE_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid THREAD_CACHE_ENABLED: %w", err)
		}
		cfg.Storage.Enabled = b
	}
	if v, ok := lookup("DATABASE_SSL"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DATABASE_SSL: %w", err)
		}
		cfg.Storage.SSL = b
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.Observability.LogLevel = v
	}
	if v, ok := lookup("LOG_PATH"); ok {
		cfg.Observability.LogPath = v
	}
	return nil
}
