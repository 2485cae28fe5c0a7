package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI string
	DBName   string

	Port        string
	GinMode     string
	CORSOrigins []string

	// Upload limits
	MaxFileSize       int64
	AllowedExtensions []string

	// Chunking and sampling
	ChunkSize          int
	MaxSampledChunks   int
	MetadataPrefixSize int

	FileStorageDir string

	// Collaborating services
	MetadataServiceURL     string
	EmbeddingServiceURL    string
	ConversationServiceURL string
	ProfileServiceURL      string
	UserServiceURL         string
	CollaboratorTimeout    int // seconds
	EmbeddingRPM           int // client-side embedding rate limit

	// Worker pools
	IngestWorkers int
	SeedWorkers   int

	// Redis (rate limiting)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	RateLimitReqs   int
	RateLimitWindow int

	// Optional bearer-token auth
	JWTSecret string

	// SMTP Configuration
	SMTPHost           string
	SMTPPort           string
	SMTPUser           string
	SMTPPass           string
	SMTPFrom           string
	DefaultNotifyEmail string

	// Tracing
	TracingEnabled bool
	OTLPEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/content_db"),
		DBName:   getEnv("DB_NAME", "content_db"),

		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		MaxFileSize:       getEnvInt64("MAX_FILE_SIZE", 16777216), // 16MB upload cap
		AllowedExtensions: strings.Split(getEnv("ALLOWED_FILE_TYPES", "txt,pdf,doc,docx"), ","),

		ChunkSize:          getEnvInt("CHUNK_SIZE", 1000),
		MaxSampledChunks:   getEnvInt("MAX_SAMPLED_CHUNKS", 9),
		MetadataPrefixSize: getEnvInt("METADATA_PREFIX_SIZE", 3000),

		FileStorageDir: getEnv("FILE_STORAGE_DIR", "./storage"),

		MetadataServiceURL:     getEnv("METADATA_SERVICE_URL", "http://localhost:8001"),
		EmbeddingServiceURL:    getEnv("EMBEDDING_SERVICE_URL", "http://localhost:8002"),
		ConversationServiceURL: getEnv("CONVERSATION_SERVICE_URL", "http://localhost:8003"),
		ProfileServiceURL:      getEnv("PROFILE_SERVICE_URL", "http://localhost:8004"),
		UserServiceURL:         getEnv("USER_SERVICE_URL", "http://localhost:8005"),
		CollaboratorTimeout:    getEnvInt("COLLABORATOR_TIMEOUT", 60),
		EmbeddingRPM:           getEnvInt("EMBEDDING_RPM", 300),

		IngestWorkers: getEnvInt("INGEST_WORKERS", 4),
		SeedWorkers:   getEnvInt("SEED_WORKERS", 8),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		DefaultNotifyEmail: getEnv("DEFAULT_NOTIFY_EMAIL", "ingest-alerts@localhost"),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.MaxSampledChunks < 0 {
		return nil, fmt.Errorf("MAX_SAMPLED_CHUNKS must not be negative, got %d", cfg.MaxSampledChunks)
	}
	if cfg.IngestWorkers <= 0 || cfg.SeedWorkers <= 0 {
		return nil, fmt.Errorf("worker pool sizes must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
