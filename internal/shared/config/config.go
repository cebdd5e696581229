// Package config reads process settings from the environment. Local .env files fill in
// anything the environment leaves unset.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"resume-builder/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Env             string
	Port            string
	CORSAllowOrigin []string

	// Object storage for uploaded resume files.
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider  string
	LLMModel     string
	OpenAIAPIKey string

	DatabaseURL string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string

	// Zero means unlimited.
	MaxBaseResumes     int
	MaxTailoredResumes int

	// Empty runs imports inline in the request.
	ImportQueueURL          string
	WorkerConcurrency       int
	WorkerVisibilityTimeout time.Duration
	WorkerShutdownTimeout   time.Duration
}

// Load reads the configuration. Invalid numbers fall back to their defaults with a warning.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	var e envReader
	cfg := Config{
		Env:             normalizeEnv(e.str("ENV", "dev")),
		Port:            e.str("PORT", "8080"),
		CORSAllowOrigin: e.list("CORS_ALLOW_ORIGINS", "http://localhost:3000"),

		ObjectStoreType: normalizeStoreType(e.str("OBJECT_STORE", "local")),
		LocalStoreDir:   e.str("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       e.str("AWS_REGION", ""),
		S3Bucket:        e.str("S3_BUCKET", ""),
		S3Prefix:        e.str("S3_PREFIX", "imports/"),
		SSEKMSKeyID:     e.str("SSE_KMS_KEY_ID", ""),

		LLMProvider:  e.str("LLM_PROVIDER", "none"),
		LLMModel:     e.str("LLM_MODEL", ""),
		OpenAIAPIKey: e.str("OPENAI_API_KEY", ""),

		DatabaseURL: e.str("DATABASE_URL", ""),

		GoogleClientID:     e.str("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: e.str("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  e.str("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      e.str("UI_REDIRECT_URL", ""),

		MaxBaseResumes:     e.num("MAX_BASE_RESUMES", 0, 0),
		MaxTailoredResumes: e.num("MAX_TAILORED_RESUMES", 0, 0),

		ImportQueueURL:          e.str("IMPORT_QUEUE_URL", ""),
		WorkerConcurrency:       e.num("WORKER_CONCURRENCY", 4, 1),
		WorkerVisibilityTimeout: e.seconds("WORKER_VISIBILITY_TIMEOUT_SECONDS", 300),
		WorkerShutdownTimeout:   e.seconds("WORKER_SHUTDOWN_TIMEOUT_SECONDS", 30),
	}
	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": cfg.Env})
	}
	return cfg
}

type envReader struct{}

func (envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (e envReader) list(key, def string) []string {
	var out []string
	for _, part := range strings.Split(e.str(key, def), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// num parses an integer no smaller than minimum.
func (e envReader) num(key string, def, minimum int) int {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < minimum {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return v
}

func (e envReader) seconds(key string, def int) time.Duration {
	return time.Duration(e.num(key, def, 1)) * time.Second
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(raw) {
	case "production", "prod":
		return "production"
	case "staging", "local":
		return strings.ToLower(raw)
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	if strings.EqualFold(raw, "s3") {
		return "s3"
	}
	return "local"
}
