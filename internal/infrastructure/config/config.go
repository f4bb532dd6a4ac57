// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Context store backends
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendBadger   = "badger"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// PostgreSQL
	PostgresURI string

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Badger
	BadgerPath string

	// Conversation context
	ContextBackend       string
	ContextTTL           time.Duration
	ContextMaxPerUser    int
	ContextSweepInterval time.Duration

	// OpenAI
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	OracleTimeout time.Duration

	// Amadeus
	AmadeusBaseURL      string
	AmadeusClientID     string
	AmadeusClientSecret string
	ProviderTimeout     time.Duration
	ProviderMaxResults  int

	// Currency
	ExchangeRateURL     string
	DefaultEURToINRRate float64
	UseLiveRates        bool

	// Auth maps bearer tokens to user ids, "token:id,token:id"
	AuthTokens map[string]int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	tokens, err := parseTokens(getEnv("AUTH_TOKENS", ""))
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 60)) * time.Second,

		PostgresURI: getEnv("POSTGRES_DSN", "host=localhost user=postgres password=password dbname=travelagent port=5432 sslmode=disable"),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "travelagent"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		BadgerPath: getEnv("BADGER_PATH", "./data/contexts"),

		ContextBackend:       strings.ToLower(getEnv("CONTEXT_BACKEND", BackendPostgres)),
		ContextTTL:           time.Duration(getEnvAsInt("CONTEXT_TTL_MINUTES", 30)) * time.Minute,
		ContextMaxPerUser:    getEnvAsInt("CONTEXT_MAX_PER_USER", 5),
		ContextSweepInterval: time.Duration(getEnvAsInt("CONTEXT_SWEEP_INTERVAL", 300)) * time.Second,

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		OracleTimeout: time.Duration(getEnvAsInt("ORACLE_TIMEOUT", 15)) * time.Second,

		AmadeusBaseURL:      getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		AmadeusClientID:     getEnv("AMADEUS_API_KEY", ""),
		AmadeusClientSecret: getEnv("AMADEUS_API_SECRET", ""),
		ProviderTimeout:     time.Duration(getEnvAsInt("PROVIDER_TIMEOUT", 30)) * time.Second,
		ProviderMaxResults:  getEnvAsInt("PROVIDER_MAX_RESULTS", 10),

		ExchangeRateURL:     getEnv("EXCHANGE_RATE_URL", "https://api.exchangerate-api.com/v4/latest"),
		DefaultEURToINRRate: getEnvAsFloat("DEFAULT_EUR_INR_RATE", 89.5),
		UseLiveRates:        getEnvAsBool("USE_LIVE_RATES", true),

		AuthTokens: tokens,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that have no safe fallback
func (c *Config) Validate() error {
	switch c.ContextBackend {
	case BackendPostgres, BackendRedis, BackendBadger:
	default:
		return fmt.Errorf("unknown CONTEXT_BACKEND %q", c.ContextBackend)
	}
	if c.ContextMaxPerUser < 1 {
		return fmt.Errorf("CONTEXT_MAX_PER_USER must be positive, got %d", c.ContextMaxPerUser)
	}
	if c.ContextTTL <= 0 {
		return fmt.Errorf("CONTEXT_TTL_MINUTES must be positive")
	}
	if c.ContextSweepInterval <= 0 {
		return fmt.Errorf("CONTEXT_SWEEP_INTERVAL must be positive")
	}
	return nil
}

func parseTokens(raw string) (map[string]int64, error) {
	tokens := make(map[string]int64)
	if strings.TrimSpace(raw) == "" {
		return tokens, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid AUTH_TOKENS entry %q", pair)
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid user id in AUTH_TOKENS entry %q", pair)
		}
		tokens[parts[0]] = id
	}
	return tokens, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
