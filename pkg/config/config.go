package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvPath = "./configs/.env"

var (
	once     sync.Once
	instance *Config
)

// Config reads settings from the process environment. Values from the .env
// file are loaded into the environment once, on first use.
type Config struct{}

func New() *Config {
	return NewFromFile(defaultEnvPath)
}

// NewFromFile is New with an explicit .env location. Only the first call
// in a process loads a file; later calls return the same instance.
func NewFromFile(path string) *Config {
	once.Do(func() {
		err := godotenv.Load(path)
		if err != nil {
			// Containers usually get their settings from the environment directly
			slog.Warn("env file not loaded, using process environment",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
		instance = &Config{}
	})
	return instance
}

func (c *Config) GetString(key string) string {
	return os.Getenv(key)
}

func (c *Config) GetStringOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (c *Config) GetInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// GetDuration accepts time.ParseDuration syntax ("15s", "1h").
func (c *Config) GetDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func (c *Config) GetBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// GetList splits a comma separated value, skipping empty items.
func (c *Config) GetList(key string) []string {
	var list []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
