// Package db opens the Postgres pool shared by the repositories and applies migrations.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"resume-builder/internal/shared/telemetry"
)

// Options sizes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

var openDB = sql.Open

// IsLambdaRuntime reports whether the process runs inside AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// DefaultLambdaOptions keeps the pool tiny; every concurrent Lambda holds its own.
func DefaultLambdaOptions() Options {
	return Options{MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxIdleTime: 30 * time.Second, ConnMaxLifetime: 15 * time.Minute, PingTimeout: 3 * time.Second}
}

// DefaultServerOptions suits cmd/api and cmd/worker.
func DefaultServerOptions() Options {
	return Options{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second}
}

// DefaultMigrateOptions uses a single connection.
func DefaultMigrateOptions() Options {
	return Options{MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second}
}

// OptionsFromEnv applies DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS, DB_CONN_MAX_LIFETIME,
// DB_CONN_MAX_IDLE_TIME and DB_PING_TIMEOUT over defaults. Invalid values are logged and ignored.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	ints := map[string]*int{
		"DB_MAX_OPEN_CONNS": &opts.MaxOpenConns,
		"DB_MAX_IDLE_CONNS": &opts.MaxIdleConns,
	}
	for key, dst := range ints {
		if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				telemetry.Warn("db.env.invalid", map[string]any{"key": key, "value": raw})
				continue
			}
			*dst = v
		}
	}
	durations := map[string]*time.Duration{
		"DB_CONN_MAX_LIFETIME":  &opts.ConnMaxLifetime,
		"DB_CONN_MAX_IDLE_TIME": &opts.ConnMaxIdleTime,
		"DB_PING_TIMEOUT":       &opts.PingTimeout,
	}
	for key, dst := range durations {
		if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
			v, err := time.ParseDuration(raw)
			if err != nil || v < 0 {
				telemetry.Warn("db.env.invalid", map[string]any{"key": key, "value": raw})
				continue
			}
			*dst = v
		}
	}
	return opts
}

// Connect opens a pool for databaseURL and pings it. Callers share the returned *sql.DB.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}
	pool, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	configure(pool, opts)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := pool.Stats()
	telemetry.Info("db.connected", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return pool, nil
}

var singleton struct {
	mu   sync.Mutex
	pool *sql.DB
}

// GetSingleton returns the process-wide pool, connecting on first use. A failed connect is
// not cached, so the next invocation retries.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	singleton.mu.Lock()
	defer singleton.mu.Unlock()
	if singleton.pool != nil {
		return singleton.pool, nil
	}
	pool, err := Connect(ctx, databaseURL, opts)
	if err != nil {
		return nil, err
	}
	singleton.pool = pool
	return pool, nil
}

func configure(pool *sql.DB, opts Options) {
	pool.SetMaxOpenConns(positiveOr(opts.MaxOpenConns, 10))
	pool.SetMaxIdleConns(positiveOr(opts.MaxIdleConns, 5))
	if opts.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(opts.ConnMaxLifetime)
	} else {
		pool.SetConnMaxLifetime(time.Hour)
	}
	if opts.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
