package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kjannette/cryptochat/internal/external"
	"github.com/kjannette/cryptochat/internal/llm"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	// Upstream APIs
	CryptoPanicToken string
	CryptoPanicURL   string
	BinanceURL       string
	CoinGeckoURL     string

	// Language model (OpenAI-compatible, Ollama by default)
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Optional YAML asset table replacing the built-in registry
	RegistryFile string

	// HTTP API
	APIPort         int
	APIKey          string
	CORSAllowOrigin string

	// Session storage
	SessionStore  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Database (SessionStore=postgres)
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		CryptoPanicToken: envStr("CRYPTO_PANIC_TOKEN", ""),
		CryptoPanicURL:   envStr("CRYPTO_PANIC_URL", external.DefaultCryptoPanicURL),
		BinanceURL:       envStr("BINANCE_API_URL", external.DefaultBinanceURL),
		CoinGeckoURL:     envStr("COINGECKO_API_URL", external.DefaultCoinGeckoURL),

		LLMBaseURL: envStr("LLM_BASE_URL", llm.DefaultBaseURL),
		LLMModel:   envStr("LLM_MODEL", llm.DefaultModel),
		LLMAPIKey:  envStr("LLM_API_KEY", ""),

		RegistryFile: envStr("REGISTRY_FILE", ""),

		APIPort:         envInt("API_PORT", 3001),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		SessionStore:  strings.ToLower(envStr("SESSION_STORE", StoreMemory)),
		RedisAddr:     envStr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envStr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "cryptochat"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	switch c.SessionStore {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		errs = append(errs, fmt.Sprintf("SESSION_STORE must be memory, redis or postgres (got %q)", c.SessionStore))
	}
	if c.SessionStore == StorePostgres && c.DBUser == "" {
		errs = append(errs, "DB_USER is required when SESSION_STORE=postgres")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Sprintf("API_PORT out of range: %d", c.APIPort))
	}
	if c.CryptoPanicToken == "" {
		fmt.Println("[WARN] CRYPTO_PANIC_TOKEN not set - news requests will be rejected upstream")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set - REST API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Blockchain Market AI Configuration ===")
	fmt.Printf("News API: %s (token %s)\n", c.CryptoPanicURL, boolLabel(c.CryptoPanicToken != "", "set", "not set"))
	fmt.Printf("Exchange API: %s\n", c.BinanceURL)
	fmt.Printf("Market API: %s\n", c.CoinGeckoURL)
	fmt.Println("--------------------------------------")
	fmt.Printf("Language Model: %s @ %s\n", c.LLMModel, c.LLMBaseURL)
	fmt.Printf("Registry: %s\n", boolLabel(c.RegistryFile != "", c.RegistryFile, "built-in"))
	fmt.Println("--------------------------------------")
	fmt.Printf("Session Store: %s\n", c.SessionStore)
	switch c.SessionStore {
	case StoreRedis:
		fmt.Printf("  Redis: %s db=%d\n", c.RedisAddr, c.RedisDB)
	case StorePostgres:
		fmt.Printf("  Postgres: %s:%d/%s\n", c.DBHost, c.DBPort, c.DBName)
	}
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
