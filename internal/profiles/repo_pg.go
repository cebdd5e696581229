package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, first_name, last_name, email, phone_number, location, website, linkedin_url, github_url,
       work_experience, education, skills, projects, certifications, created_at, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1`
	var p Profile
	var phone, location, website, linkedIn, gitHub sql.NullString
	var work, education, skills, projects, certifications []byte
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&phone,
		&location,
		&website,
		&linkedIn,
		&gitHub,
		&work,
		&education,
		&skills,
		&projects,
		&certifications,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.PhoneNumber = phone.String
	p.Location = location.String
	p.Website = website.String
	p.LinkedInURL = linkedIn.String
	p.GitHubURL = gitHub.String

	if err := unmarshalColumns(map[string]struct {
		raw []byte
		dst any
	}{
		"work_experience": {work, &p.WorkExperience},
		"education":       {education, &p.Education},
		"skills":          {skills, &p.Skills},
		"projects":        {projects, &p.Projects},
		"certifications":  {certifications, &p.Certifications},
	}); err != nil {
		return Profile{}, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return p.normalized(), nil
}

func (r *PGRepo) Upsert(ctx context.Context, profile Profile) error {
	const query = `
INSERT INTO profiles (user_id, first_name, last_name, email, phone_number, location, website, linkedin_url, github_url,
                      work_experience, education, skills, projects, certifications, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  first_name = EXCLUDED.first_name,
  last_name = EXCLUDED.last_name,
  email = EXCLUDED.email,
  phone_number = EXCLUDED.phone_number,
  location = EXCLUDED.location,
  website = EXCLUDED.website,
  linkedin_url = EXCLUDED.linkedin_url,
  github_url = EXCLUDED.github_url,
  work_experience = EXCLUDED.work_experience,
  education = EXCLUDED.education,
  skills = EXCLUDED.skills,
  projects = EXCLUDED.projects,
  certifications = EXCLUDED.certifications,
  updated_at = now()`

	profile = profile.normalized()
	encoded := make([][]byte, 0, 5)
	for _, v := range []any{profile.WorkExperience, profile.Education, profile.Skills, profile.Projects, profile.Certifications} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode profile %s: %w", profile.UserID, err)
		}
		encoded = append(encoded, raw)
	}
	_, err := r.DB.ExecContext(ctx, query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		nullableString(profile.PhoneNumber),
		nullableString(profile.Location),
		nullableString(profile.Website),
		nullableString(profile.LinkedInURL),
		nullableString(profile.GitHubURL),
		encoded[0],
		encoded[1],
		encoded[2],
		encoded[3],
		encoded[4],
	)
	return err
}

func unmarshalColumns(columns map[string]struct {
	raw []byte
	dst any
}) error {
	for name, col := range columns {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
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
