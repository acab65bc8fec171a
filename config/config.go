package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	LogLevel    string
	Metrics     bool // Expose /metrics
	DBUrl       string
	AutoMigrate bool // Apply pending migrations at startup
	FrontendURL string
	// Auth
	JWTSecret string
	JWTTTL    time.Duration
	JWKSUrl   string // Optional external identity provider (RS256 tokens)
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	// Search Configuration
	SearchQuickLimit int
	SearchRecentMax  int
	SearchWeights    SearchWeights
	// Photo storage (S3-compatible)
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string
	PhotoMaxDimension int
}

// SearchWeights mirrors relevance.Weights so the config package stays free of domain imports.
type SearchWeights struct {
	ExactSkill   int
	PartialSkill int
	Name         int
	Location     int
	Bio          int
	Role         int
	Language     int
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally, ignored in production if the file is missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Metrics:     getEnvBool("METRICS_ENABLED", true),
		DBUrl:       getEnv("DATABASE_URL", ""),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", true),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		// Auth
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		JWKSUrl:   strings.TrimSpace(getEnv("JWKS_URL", "")),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		// Search Configuration
		SearchQuickLimit: getEnvInt("SEARCH_QUICK_LIMIT", 8),
		SearchRecentMax:  getEnvInt("SEARCH_RECENT_MAX", 5),
		SearchWeights: SearchWeights{
			ExactSkill:   getEnvInt("SEARCH_WEIGHT_EXACT_SKILL", 5),
			PartialSkill: getEnvInt("SEARCH_WEIGHT_PARTIAL_SKILL", 3),
			Name:         getEnvInt("SEARCH_WEIGHT_NAME", 4),
			Location:     getEnvInt("SEARCH_WEIGHT_LOCATION", 3),
			Bio:          getEnvInt("SEARCH_WEIGHT_BIO", 2),
			Role:         getEnvInt("SEARCH_WEIGHT_ROLE", 2),
			Language:     getEnvInt("SEARCH_WEIGHT_LANGUAGE", 2),
		},
		// Photo storage
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicBaseURL:   strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		PhotoMaxDimension: getEnvInt("PHOTO_MAX_DIMENSION", 512),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set. Login and signup will fail to issue tokens.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting and recent searches will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StorageConfigured reports whether photo uploads can be served.
func (c *Config) StorageConfigured() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
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

// getEnvDuration accepts Go duration strings ("24h", "90m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
