package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Usage store backends
const (
	UsageStoreMemory = "memory"
	UsageStoreRedis  = "redis"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	// Extra CORS origins, comma separated
	CORSAllowedOrigins []string
	Production         bool
	LogLevel           string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Usage quota
	UsageStore       string
	ATSFreeTierLimit int
	// Burst rate limiting
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitFailClosed      bool
	// Optional YAML file extending the built-in role taxonomy
	RoleTaxonomyPath string
	// Security Configuration
	SecurityLogToDB bool // Whether to persist security events to database
}

func LoadConfig() (*Config, error) {
	// .env is only present locally
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DBUrl:                getEnv("DATABASE_URL", ""),
		FrontendURL:          strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSAllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS"),
		Production:           getEnv("GIN_MODE", "") == "release",
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		UsageStore:           strings.ToLower(getEnv("USAGE_STORE", "")),
		ATSFreeTierLimit:     getEnvInt("ATS_FREE_TIER_LIMIT", 5),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),    // 1 minute window
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100), // 100 requests per window
		RateLimitFailClosed:      getEnvBool("RATE_LIMIT_FAIL_CLOSED", false),
		RoleTaxonomyPath:         getEnv("ROLE_TAXONOMY_PATH", ""),
		SecurityLogToDB:          getEnvBool("SECURITY_LOG_TO_DB", false),
	}

	// Redis is used whenever it is configured unless memory is forced
	if cfg.UsageStore == "" {
		cfg.UsageStore = UsageStoreMemory
		if cfg.UpstashRedisURL != "" {
			cfg.UsageStore = UsageStoreRedis
		}
	}
	if cfg.ATSFreeTierLimit < 1 {
		log.Printf("WARNING: ATS_FREE_TIER_LIMIT=%d is invalid, using 5", cfg.ATSFreeTierLimit)
		cfg.ATSFreeTierLimit = 5
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Score history is disabled.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Usage limits will use in-memory storage.")
	}

	return cfg, nil
}

// AllowedOrigins lists origins CORS accepts
func (c *Config) AllowedOrigins() []string {
	origins := []string{c.FrontendURL}
	for _, o := range c.CORSAllowedOrigins {
		o = strings.TrimRight(o, "/")
		if o != "" && o != c.FrontendURL {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
