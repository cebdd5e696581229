package users

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "email", "full_name", "given_name", "family_name", "picture_url", "last_login_at", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoUpsertReturnsStoredRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	login := created.Add(48 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("google:1", "ada@example.com", "Ada Lovelace", nil, nil, "https://img", login).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("google:1", "ada@example.com", "Ada Lovelace", "", "", "https://img", login, created, login))

	got, err := repo.Upsert(t.Context(), User{ID: "google:1", Email: "ada@example.com", FullName: "Ada Lovelace", PictureURL: "https://img", UpdatedAt: login})
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, login, got.LastLoginAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("google:1", "ada@example.com", "Ada Lovelace", "Ada", "", "", created, created, created)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).WithArgs("google:1").WillReturnRows(rows)

	got, err := repo.GetByID(t.Context(), "google:1")
	require.NoError(t, err)
	assert.Equal(t, User{
		ID:          "google:1",
		Email:       "ada@example.com",
		FullName:    "Ada Lovelace",
		GivenName:   "Ada",
		LastLoginAt: created,
		CreatedAt:   created,
		UpdatedAt:   created,
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).WithArgs("google:2").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(t.Context(), "google:2")
	assert.ErrorIs(t, err, ErrNotFound)
}
