package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Env         string
	MetricsAddr string

	// CORS
	AllowedOrigin string

	// Living document
	LivingDocURL string
	DocMaxChars  int
	DocCacheTTL  time.Duration

	// Assistant
	SystemPrompt string

	// Language-model backend
	LLMBackend  string
	LLMModel    string
	LLMAPIKey   string
	LLMBaseURL  string
	CFAccountID string

	// Redis (empty = in-memory cache)
	RedisURL string

	// Collaborators
	AssetsDir       string
	ImageServiceURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Env:             getEnvOrDefault("ENV", "development"),
		MetricsAddr:     getEnvOrDefault("METRICS_ADDR", ""),
		AllowedOrigin:   getEnvOrDefault("ALLOWED_ORIGIN", ""),
		LivingDocURL:    getEnvOrDefault("LIVING_DOC_URL", ""),
		DocMaxChars:     getEnvAsIntOrDefault("DOC_MAX_CHARS", 6000),
		DocCacheTTL:     time.Duration(getEnvAsIntOrDefault("DOC_CACHE_TTL_HOURS", 168)) * time.Hour,
		SystemPrompt:    getEnvOrDefault("SYSTEM_PROMPT", ""),
		LLMBackend:      getEnvOrDefault("LLM_BACKEND", "workers-ai"),
		LLMModel:        getEnvOrDefault("LLM_MODEL", ""),
		LLMAPIKey:       getEnvOrDefault("LLM_API_KEY", ""),
		LLMBaseURL:      getEnvOrDefault("LLM_BASE_URL", ""),
		CFAccountID:     getEnvOrDefault("CF_ACCOUNT_ID", ""),
		RedisURL:        getEnvOrDefault("REDIS_URL", ""),
		AssetsDir:       getEnvOrDefault("ASSETS_DIR", "./public"),
		ImageServiceURL: getEnvOrDefault("IMAGE_SERVICE_URL", ""),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
