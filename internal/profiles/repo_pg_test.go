package profiles

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

func TestPGRepoGetDecodesJSONColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"user_id", "first_name", "last_name", "email", "phone_number", "location", "website", "linkedin_url", "github_url",
		"work_experience", "education", "skills", "projects", "certifications", "created_at", "updated_at",
	}).AddRow(
		"user-1", "Ada", "Lovelace", "ada@example.com", nil, "London", nil, nil, nil,
		[]byte(`[{"company":"Analytical Engines","position":"Programmer","date":"1843","description":["Notes"]}]`),
		[]byte(`[]`), []byte(`[{"category":"Math","items":["Bernoulli numbers"]}]`), []byte(`[]`), nil,
		now, now,
	)
	mock.ExpectQuery("SELECT user_id, first_name").WithArgs("user-1").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	p, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "London", p.Location)
	require.Len(t, p.WorkExperience, 1)
	assert.Equal(t, "Analytical Engines", p.WorkExperience[0].Company)
	assert.Equal(t, []string{"Bernoulli numbers"}, p.Skills[0].Items)
	assert.NotNil(t, p.Certifications)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetMissingIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT user_id, first_name").WithArgs("user-1").WillReturnError(sql.ErrNoRows)

	_, err = (&PGRepo{DB: db}).Get(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGRepoUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO profiles").
		WithArgs(
			"user-1", "Ada", "", "ada@example.com",
			nil, nil, nil, nil, nil,
			[]byte(`[]`), []byte(`[]`), []byte(`[{"category":"Math","items":["analysis"]}]`), []byte(`[]`), []byte(`[]`),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = (&PGRepo{DB: db}).Upsert(context.Background(), Profile{
		UserID:    "user-1",
		BasicInfo: model.BasicInfo{FirstName: "Ada", Email: "ada@example.com"},
		Skills:    []model.Skill{{Category: "Math", Items: []string{"analysis"}}},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
