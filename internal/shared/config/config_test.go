package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("OBJECT_STORE", "")
	t.Setenv("MAX_BASE_RESUMES", "")
	t.Setenv("IMPORT_QUEUE_URL", "")
	t.Chdir(t.TempDir())

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Empty(t, cfg.ImportQueueURL)
	assert.Equal(t, "local", cfg.ObjectStoreType)
	assert.Equal(t, 0, cfg.MaxBaseResumes)
}

func TestLoadQuotaAndEnvAliases(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("MAX_BASE_RESUMES", "5")
	t.Setenv("MAX_TAILORED_RESUMES", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("IMPORT_QUEUE_URL", " https://sqs.local/imports ")
	t.Chdir(t.TempDir())

	cfg := Load()
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "s3", cfg.ObjectStoreType)
	assert.Equal(t, 5, cfg.MaxBaseResumes)
	assert.Equal(t, 0, cfg.MaxTailoredResumes)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigin)
	assert.Equal(t, "https://sqs.local/imports", cfg.ImportQueueURL)
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LLM_MODEL=from-file\nPORT=9999\n"), 0o600))
	t.Setenv("PORT", "7000")
	t.Setenv("LLM_MODEL", "")
	os.Unsetenv("LLM_MODEL")

	cfg := Load()
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "from-file", cfg.LLMModel)
}

func TestLoadWorkerSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WORKER_CONCURRENCY", "0")
	t.Setenv("WORKER_VISIBILITY_TIMEOUT_SECONDS", "60")
	t.Setenv("WORKER_SHUTDOWN_TIMEOUT_SECONDS", "")

	cfg := Load()
	assert.Equal(t, 4, cfg.WorkerConcurrency)
	assert.Equal(t, time.Minute, cfg.WorkerVisibilityTimeout)
	assert.Equal(t, 30*time.Second, cfg.WorkerShutdownTimeout)
}

func TestNormalizeEnv(t *testing.T) {
	for raw, want := range map[string]string{"PROD": "production", "Staging": "staging", "local": "local", "qa": "dev", "": "dev"} {
		assert.Equal(t, want, normalizeEnv(raw), raw)
	}
}
