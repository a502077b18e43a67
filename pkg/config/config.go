package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string

	// Service account credentials. JSON wins over the file path when both are set.
	ServiceAccountJSON string
	ServiceAccountPath string

	StoreDriver    string // "firestore" or "memory"
	AuthDriver     string // "firebase" or "dev"
	TxMaxAttempts  int
	IncrementTiers string
	RateLimit      RateLimitConfig
	Redis          RedisConfig
}

type RateLimitConfig struct {
	Enabled bool
	Backend string // "memory" or "redis"
	Prefix  string
	TTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		FirebaseProject:    getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:        getEnv("ENVIRONMENT", "development"),
		ServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StoreDriver:        getEnv("STORE_DRIVER", "firestore"),
		AuthDriver:         getEnv("AUTH_DRIVER", "firebase"),
		TxMaxAttempts:      getEnvAsInt("TX_MAX_ATTEMPTS", 5),
		// below:step pairs, then the step used above the last threshold
		IncrementTiers: getEnv("BID_INCREMENT_TIERS", "10000:10,100000:100,1000"),
		RateLimit: RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Backend: getEnv("RATE_LIMIT_BACKEND", "memory"),
			Prefix:  getEnv("RATE_LIMIT_PREFIX", "rl"),
			TTL:     getEnvAsDuration("RATE_LIMIT_TTL", 10*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}

	if config.TxMaxAttempts < 1 {
		config.TxMaxAttempts = 1
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
