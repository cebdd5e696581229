package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertFromAuthKeepsCreatedAt(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }
	ctx := t.Context()

	require.NoError(t, svc.UpsertFromAuth(ctx, User{ID: " google:1 ", Email: "ada@example.com", FullName: "Ada"}))
	first, err := svc.GetByID(ctx, "google:1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.FullName)
	assert.Equal(t, now, first.CreatedAt)
	assert.Equal(t, now, first.LastLoginAt)

	now = now.Add(time.Hour)
	require.NoError(t, svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "ada@example.com", FullName: "Ada Lovelace"}))
	second, err := svc.GetByID(ctx, "google:1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", second.FullName)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, now, second.LastLoginAt)
}

func TestUpsertFromAuthValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	tests := []User{
		{Email: "ada@example.com"},
		{ID: "google:1"},
		{ID: " ", Email: " "},
		{ID: "google:1", Email: "not-an-email"},
	}
	for _, u := range tests {
		assert.ErrorIs(t, svc.UpsertFromAuth(t.Context(), u), ErrInvalidInput)
	}
}

func TestGetByID(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	_, err := svc.GetByID(t.Context(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetByID(t.Context(), "google:missing")
	assert.ErrorIs(t, err, ErrNotFound)

	var nilSvc *Service
	_, err = nilSvc.GetByID(t.Context(), "google:1")
	assert.Error(t, err)
}

func TestUpsertFromAuthNormalizesEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	require.NoError(t, svc.UpsertFromAuth(t.Context(), User{ID: "google:1", Email: " Ada@Example.COM "}))
	got, err := svc.GetByID(t.Context(), "google:1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FullName: "Ada Lovelace", GivenName: "A"}.DisplayName())
	assert.Equal(t, "Ada Lovelace", User{GivenName: "Ada", FamilyName: "Lovelace"}.DisplayName())
	assert.Equal(t, "Ada", User{GivenName: "Ada"}.DisplayName())
	assert.Equal(t, "ada@example.com", User{Email: "ada@example.com"}.DisplayName())
}
