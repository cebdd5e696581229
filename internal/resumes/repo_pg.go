package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/resume/model"
)

// PGRepo implements Repo using Postgres. Sections are stored as JSONB columns.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, name, target_role, is_base_resume, base_resume_id, job_id,
first_name, last_name, email, phone_number, location, website, linkedin_url, github_url, professional_summary,
work_experience, education, skills, projects, certifications, section_order, section_configs, document_settings,
created_at, updated_at`

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, res model.Resume) error {
	const query = `
INSERT INTO resumes (` + resumeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`

	docs, err := encodeDocuments(res)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.Name,
		res.TargetRole,
		res.IsBaseResume,
		nullableString(res.BaseResumeID),
		nullableString(res.JobID),
		res.FirstName,
		res.LastName,
		res.Email,
		nullableString(res.PhoneNumber),
		nullableString(res.Location),
		nullableString(res.Website),
		nullableString(res.LinkedInURL),
		nullableString(res.GitHubURL),
		nullableString(res.ProfessionalSummary),
		docs.work,
		docs.education,
		docs.skills,
		docs.projects,
		docs.certifications,
		docs.sectionOrder,
		docs.sectionConfigs,
		docs.documentSettings,
		res.CreatedAt,
		res.UpdatedAt,
	)
	return err
}

// GetByID fetches a resume by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (model.Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1 AND id = $2
LIMIT 1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, userID, resumeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Resume{}, ErrNotFound
		}
		return model.Resume{}, err
	}
	return res, nil
}

// Update replaces the mutable fields of a resume.
func (r *PGRepo) Update(ctx context.Context, res model.Resume) error {
	const query = `
UPDATE resumes SET
  name = $3,
  target_role = $4,
  first_name = $5,
  last_name = $6,
  email = $7,
  phone_number = $8,
  location = $9,
  website = $10,
  linkedin_url = $11,
  github_url = $12,
  professional_summary = $13,
  work_experience = $14,
  education = $15,
  skills = $16,
  projects = $17,
  certifications = $18,
  section_order = $19,
  section_configs = $20,
  document_settings = $21,
  updated_at = $22
WHERE user_id = $1 AND id = $2`

	docs, err := encodeDocuments(res)
	if err != nil {
		return err
	}
	result, err := r.DB.ExecContext(ctx, query,
		res.UserID,
		res.ID,
		res.Name,
		res.TargetRole,
		res.FirstName,
		res.LastName,
		res.Email,
		nullableString(res.PhoneNumber),
		nullableString(res.Location),
		nullableString(res.Website),
		nullableString(res.LinkedInURL),
		nullableString(res.GitHubURL),
		nullableString(res.ProfessionalSummary),
		docs.work,
		docs.education,
		docs.skills,
		docs.projects,
		docs.certifications,
		docs.sectionOrder,
		docs.sectionConfigs,
		docs.documentSettings,
		res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes a resume owned by userID.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE user_id = $1 AND id = $2`, userID, resumeID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ListByUser lists a user's resumes newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, kind Kind, limit, offset int) ([]model.Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1` + kindClause(kind) + `
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Count returns the number of a user's resumes of the given kind.
func (r *PGRepo) Count(ctx context.Context, userID string, kind Kind) (int, error) {
	query := `SELECT COUNT(*) FROM resumes WHERE user_id = $1` + kindClause(kind)
	var n int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func kindClause(kind Kind) string {
	switch kind {
	case KindBase:
		return ` AND is_base_resume = TRUE`
	case KindTailored:
		return ` AND is_base_resume = FALSE`
	default:
		return ""
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (model.Resume, error) {
	var res model.Resume
	var baseResumeID, jobID sql.NullString
	var phone, location, website, linkedIn, gitHub, summary sql.NullString
	var work, education, skills, projects, certifications, sectionOrder, sectionConfigs, documentSettings []byte
	var updatedAt sql.NullTime
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Name,
		&res.TargetRole,
		&res.IsBaseResume,
		&baseResumeID,
		&jobID,
		&res.FirstName,
		&res.LastName,
		&res.Email,
		&phone,
		&location,
		&website,
		&linkedIn,
		&gitHub,
		&summary,
		&work,
		&education,
		&skills,
		&projects,
		&certifications,
		&sectionOrder,
		&sectionConfigs,
		&documentSettings,
		&res.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return model.Resume{}, err
	}
	res.BaseResumeID = baseResumeID.String
	res.JobID = jobID.String
	res.PhoneNumber = phone.String
	res.Location = location.String
	res.Website = website.String
	res.LinkedInURL = linkedIn.String
	res.GitHubURL = gitHub.String
	res.ProfessionalSummary = summary.String
	if updatedAt.Valid {
		res.UpdatedAt = updatedAt.Time
	} else {
		res.UpdatedAt = res.CreatedAt
	}

	decoders := []struct {
		column string
		raw    []byte
		dst    any
	}{
		{"work_experience", work, &res.WorkExperience},
		{"education", education, &res.Education},
		{"skills", skills, &res.Skills},
		{"projects", projects, &res.Projects},
		{"certifications", certifications, &res.Certifications},
		{"section_order", sectionOrder, &res.SectionOrder},
		{"section_configs", sectionConfigs, &res.SectionConfigs},
		{"document_settings", documentSettings, &res.DocumentSettings},
	}
	for _, d := range decoders {
		if len(d.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(d.raw, d.dst); err != nil {
			return model.Resume{}, fmt.Errorf("decode %s for resume %s: %w", d.column, res.ID, err)
		}
	}
	return res, nil
}

type encodedDocuments struct {
	work             []byte
	education        []byte
	skills           []byte
	projects         []byte
	certifications   []byte
	sectionOrder     []byte
	sectionConfigs   []byte
	documentSettings any
}

func encodeDocuments(res model.Resume) (encodedDocuments, error) {
	var out encodedDocuments
	var err error
	encode := func(dst *[]byte, v any, empty string) {
		if err != nil {
			return
		}
		var raw []byte
		raw, err = json.Marshal(v)
		if err == nil && string(raw) == "null" {
			raw = []byte(empty)
		}
		*dst = raw
	}
	encode(&out.work, res.WorkExperience, "[]")
	encode(&out.education, res.Education, "[]")
	encode(&out.skills, res.Skills, "[]")
	encode(&out.projects, res.Projects, "[]")
	encode(&out.certifications, res.Certifications, "[]")
	encode(&out.sectionOrder, res.SectionOrder, "[]")
	encode(&out.sectionConfigs, res.SectionConfigs, "{}")
	if err != nil {
		return encodedDocuments{}, fmt.Errorf("encode resume %s: %w", res.ID, err)
	}
	if res.DocumentSettings != nil {
		raw, err := json.Marshal(res.DocumentSettings)
		if err != nil {
			return encodedDocuments{}, fmt.Errorf("encode resume %s: %w", res.ID, err)
		}
		out.documentSettings = raw
	}
	return out, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
