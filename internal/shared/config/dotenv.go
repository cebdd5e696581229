package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"resume-builder/internal/shared/telemetry"
)

// loadEnvFiles applies each existing file in order. godotenv.Load never overrides a variable
// that is already set, so earlier files and the real environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			telemetry.Warn("config.env_file_invalid", map[string]any{"path": path, "error": err.Error()})
		}
	}
}
