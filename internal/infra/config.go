package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Generation backends selectable through GENAI_BACKEND.
const (
	BackendGemini = "gemini"
	BackendGenAI  = "genai"
	BackendOpenAI = "openai"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	AutoMigrate bool
	GeoIPDBPath string

	GenAIBackend      string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	OpenAIOrg         string
	PromptsFile       string
	GenerationTimeout time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	AllowedOrigins   []string
	MetricsEnabled   bool
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// A database is optional: without DATABASE_URL credentials come from the
// environment only and usage events are not stored.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", false),
		GeoIPDBPath: os.Getenv("GEOIP_DB_PATH"),

		GenAIBackend: strings.ToLower(getEnv("GENAI_BACKEND", BackendGemini)),
		// API_KEY is still read for older deployments.
		GeminiAPIKey:      strings.TrimSpace(getEnv("GEMINI_API_KEY", os.Getenv("API_KEY"))),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		OpenAIAPIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		OpenAIOrg:         os.Getenv("OPENAI_ORG"),
		PromptsFile:       os.Getenv("PROMPTS_FILE"),
		GenerationTimeout: time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 30)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
	}

	switch cfg.GenAIBackend {
	case BackendGemini, BackendGenAI, BackendOpenAI:
	default:
		return nil, fmt.Errorf("GENAI_BACKEND %q is not supported (gemini, genai or openai)", cfg.GenAIBackend)
	}

	if cfg.GenerationTimeout <= 0 {
		return nil, fmt.Errorf("GENERATION_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

// Model returns the model name configured for the active backend.
func (c *Config) Model() string {
	if c.GenAIBackend == BackendOpenAI {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
