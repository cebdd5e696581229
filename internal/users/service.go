package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var errNotConfigured = errors.New("users service not configured")

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// UpsertFromAuth records the identity returned by the OAuth provider so resumes stay owned by a
// stable user id across logins. Every call counts as a login.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errNotConfigured
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID == "" || user.Email == "" {
		return fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, user.Email)
	}
	user.FullName = strings.TrimSpace(user.FullName)
	user.GivenName = strings.TrimSpace(user.GivenName)
	user.FamilyName = strings.TrimSpace(user.FamilyName)

	now := s.now()
	user.LastLoginAt = now
	user.UpdatedAt = now
	_, err := s.Repo.Upsert(ctx, user)
	return err
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
