package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Get returns the user's profile.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	p, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return p.normalized(), nil
}

// Upsert replaces the user's profile.
func (s *Service) Upsert(ctx context.Context, userID string, profile Profile) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	now := time.Now().UTC()
	profile.UserID = userID
	profile.CreatedAt = now
	profile.UpdatedAt = now
	profile = profile.normalized()
	if err := s.Repo.Upsert(ctx, profile); err != nil {
		return Profile{}, err
	}
	return s.Get(ctx, userID)
}
