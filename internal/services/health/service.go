package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports API and storage health.
type Service struct {
	DB      Pinger
	Timeout time.Duration
}

// NewService constructs a health service. A nil db reports in-memory storage.
func NewService(db Pinger) *Service {
	return &Service{DB: db, Timeout: 2 * time.Second}
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Storage  string `json:"storage"`
	Database string `json:"database,omitempty"`
}

// Check pings the database if one is configured.
func (s *Service) Check(ctx context.Context) Status {
	if s == nil || s.DB == nil {
		return Status{OK: true, Storage: "memory"}
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return Status{OK: false, Storage: "postgres", Database: "unreachable"}
	}
	return Status{OK: true, Storage: "postgres", Database: "ok"}
}
