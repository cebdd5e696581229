package jobs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateInput describes a new job posting.
type CreateInput struct {
	CompanyName string   `json:"companyName"`
	Position    string   `json:"position"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	JobURL      string   `json:"jobUrl"`
	Keywords    []string `json:"keywords"`
}

// Service contains business logic for jobs.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("jobs service not configured")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Job, error) {
	if err := s.ready(); err != nil {
		return Job{}, err
	}
	company := strings.TrimSpace(in.CompanyName)
	position := strings.TrimSpace(in.Position)
	if company == "" || position == "" {
		return Job{}, fmt.Errorf("%w: company name and position are required", ErrInvalidInput)
	}
	jobURL := strings.TrimSpace(in.JobURL)
	if jobURL != "" {
		if u, err := url.Parse(jobURL); err != nil || u.Scheme == "" || u.Host == "" {
			return Job{}, fmt.Errorf("%w: job url must be absolute", ErrInvalidInput)
		}
	}
	keywords := make([]string, 0, len(in.Keywords))
	for _, k := range in.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	job := Job{
		ID:          uuid.NewString(),
		UserID:      userID,
		CompanyName: company,
		Position:    position,
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
		JobURL:      jobURL,
		Keywords:    keywords,
		CreatedAt:   now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

func (s *Service) Get(ctx context.Context, userID, jobID string) (Job, error) {
	if err := s.ready(); err != nil {
		return Job{}, err
	}
	if strings.TrimSpace(jobID) == "" {
		return Job{}, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, jobID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a job. Resumes that reference it keep existing with their job id cleared.
func (s *Service) Delete(ctx context.Context, userID, jobID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(jobID) == "" {
		return fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, userID, jobID)
}
